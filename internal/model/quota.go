package model

import "time"

// Quota statuses derived from usage, never stored.
const (
	QuotaStatusActive   = "active"
	QuotaStatusLow      = "low"
	QuotaStatusExceeded = "exceeded"
)

// GenerationQuota is the active per-user, per-period plan-generation
// allowance. Exactly one row per (user, period); superseded rows are archived
// into QuotaHistory on rollover, never mutated back. The unique index makes
// concurrent rollover idempotent.
type GenerationQuota struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          uint   `gorm:"index:idx_quota_user_month,unique"`
	MonthYear       string `gorm:"index:idx_quota_user_month,unique"` // e.g. 2026-08
	TotalAllowed    int
	GenerationsUsed int `gorm:"default:0"`
	TotalRequested  int `gorm:"default:0"` // lifetime generation attempts this period, incl. exhausted ones
	ResetsOn        time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Remaining is the number of generations still available.
func (q GenerationQuota) Remaining() int {
	left := q.TotalAllowed - q.GenerationsUsed
	if left < 0 {
		return 0
	}
	return left
}

// UsagePercent is consumed share of the allowance, 0..100.
func (q GenerationQuota) UsagePercent() float64 {
	if q.TotalAllowed <= 0 {
		return 100
	}
	return float64(q.GenerationsUsed) / float64(q.TotalAllowed) * 100
}

// QuotaHistory is the immutable archive of an expired quota period.
// Append-only, written exactly once per rollover.
type QuotaHistory struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          uint   `gorm:"index:idx_history_user_month,unique"`
	MonthYear       string `gorm:"index:idx_history_user_month,unique"`
	PeriodStart     time.Time
	PeriodEnd       time.Time
	TotalAllowed    int
	GenerationsUsed int
	TotalRequested  int
	WasAutoReset    bool
	CreatedAt       time.Time
}

// QuotaView is the user-facing snapshot of a quota row.
type QuotaView struct {
	MonthYear      string
	TotalAllowed   int
	Used           int
	Remaining      int
	UsagePercent   float64
	Status         string
	ResetsOn       time.Time
	DaysUntilReset int
}
