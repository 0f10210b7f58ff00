package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"monthlyzen/internal/model"
)

// Quota failure modes callers must tell apart: exhaustion is a normal
// business outcome, a missing row is a hard error.
var (
	ErrQuotaExhausted = errors.New("generation quota exhausted")
	ErrQuotaNotFound  = errors.New("generation quota not found")
)

// MonthKey renders the period key for a point in time, e.g. "2026-08".
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// NextResetBoundary is the first day of the month periodMonths after t,
// midnight UTC.
func NextResetBoundary(t time.Time, periodMonths int) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month()+time.Month(periodMonths), 1, 0, 0, 0, 0, time.UTC)
}

// QuotaRepository persists generation quotas and their archived history.
type QuotaRepository struct {
	db *gorm.DB
}

func NewQuotaRepository(db *gorm.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

// GetLatest returns the most recently created quota row for the user,
// ordered by id descending. Callers must validate period freshness
// themselves via CheckAndReset. Returns nil when the user has no quota yet.
func (r *QuotaRepository) GetLatest(ctx context.Context, userID uint) (*model.GenerationQuota, error) {
	var quota model.GenerationQuota
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").First(&quota).Error
	switch {
	case err == nil:
		return &quota, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("find quota: %w", err)
	}
}

// GetOrCreateCurrent lazily creates the quota row for the current period when
// the user has none, then guarantees the returned row is period-fresh.
func (r *QuotaRepository) GetOrCreateCurrent(ctx context.Context, userID uint, now time.Time, allowance, periodMonths int) (*model.GenerationQuota, error) {
	quota, err := r.GetLatest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quota == nil {
		fresh := model.GenerationQuota{
			UserID:       userID,
			MonthYear:    MonthKey(now),
			TotalAllowed: allowance,
			ResetsOn:     NextResetBoundary(now, periodMonths),
		}
		if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
			return nil, fmt.Errorf("create quota: %w", err)
		}
		// A concurrent caller may have won the insert; read back the row.
		var current model.GenerationQuota
		if err := r.db.WithContext(ctx).Where("user_id = ? AND month_year = ?", userID, MonthKey(now)).First(&current).Error; err != nil {
			return nil, fmt.Errorf("reload quota: %w", err)
		}
		return &current, nil
	}
	return r.CheckAndReset(ctx, quota, now, allowance, periodMonths)
}

// CheckAndReset archives the quota and starts a fresh period when resetsOn
// has passed; otherwise it returns the quota unchanged. Idempotent under
// concurrent callers: both the history row and the replacement quota carry a
// unique (user_id, month_year) index, so duplicate inserts become no-ops and
// every caller reads back the single surviving row.
func (r *QuotaRepository) CheckAndReset(ctx context.Context, quota *model.GenerationQuota, now time.Time, allowance, periodMonths int) (*model.GenerationQuota, error) {
	if quota.ResetsOn.After(now) {
		return quota, nil
	}

	var active model.GenerationQuota
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		history := model.QuotaHistory{
			UserID:          quota.UserID,
			MonthYear:       quota.MonthYear,
			PeriodStart:     quota.ResetsOn.AddDate(0, -periodMonths, 0),
			PeriodEnd:       quota.ResetsOn,
			TotalAllowed:    quota.TotalAllowed,
			GenerationsUsed: quota.GenerationsUsed,
			TotalRequested:  quota.TotalRequested,
			WasAutoReset:    true,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&history).Error; err != nil {
			return fmt.Errorf("archive quota: %w", err)
		}

		next := model.GenerationQuota{
			UserID:       quota.UserID,
			MonthYear:    MonthKey(now),
			TotalAllowed: allowance,
			ResetsOn:     NextResetBoundary(now, periodMonths),
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&next).Error; err != nil {
			return fmt.Errorf("create next quota: %w", err)
		}

		return tx.Where("user_id = ? AND month_year = ?", quota.UserID, MonthKey(now)).First(&active).Error
	})
	if err != nil {
		return nil, err
	}
	return &active, nil
}

// Decrement consumes one generation from the quota. Each step is one
// committed statement, not a shared transaction: the request counter must
// survive an exhausted outcome, and the guarded increment is atomic on its
// own, so two concurrent requests near the boundary can never both pass.
// Returns ErrQuotaExhausted when the allowance is spent and ErrQuotaNotFound
// when the row does not exist.
func (r *QuotaRepository) Decrement(ctx context.Context, quotaID uint) (*model.GenerationQuota, error) {
	db := r.db.WithContext(ctx)

	// Requests are counted even when they bounce off the limit. Zero rows
	// touched means the quota row itself is missing.
	counted := db.Model(&model.GenerationQuota{}).Where("id = ?", quotaID).
		UpdateColumn("total_requested", gorm.Expr("total_requested + 1"))
	if counted.Error != nil {
		return nil, fmt.Errorf("count request: %w", counted.Error)
	}
	if counted.RowsAffected == 0 {
		return nil, ErrQuotaNotFound
	}

	res := db.Model(&model.GenerationQuota{}).
		Where("id = ? AND generations_used < total_allowed", quotaID).
		UpdateColumn("generations_used", gorm.Expr("generations_used + 1"))
	if res.Error != nil {
		return nil, fmt.Errorf("decrement quota: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrQuotaExhausted
	}

	var quota model.GenerationQuota
	if err := db.First(&quota, quotaID).Error; err != nil {
		return nil, fmt.Errorf("reload quota: %w", err)
	}
	return &quota, nil
}

// Refund returns one generation to the quota after a failed downstream call.
// Guarded the same way as Decrement so it can never push usage below zero.
func (r *QuotaRepository) Refund(ctx context.Context, quotaID uint) error {
	res := r.db.WithContext(ctx).Model(&model.GenerationQuota{}).
		Where("id = ? AND generations_used > 0", quotaID).
		UpdateColumn("generations_used", gorm.Expr("generations_used - 1"))
	if res.Error != nil {
		return fmt.Errorf("refund quota: %w", res.Error)
	}
	return nil
}

// RequestIncrease adds an additive top-up to the active allowance. The store
// itself enforces no upper bound; policy caps live in the service layer.
func (r *QuotaRepository) RequestIncrease(ctx context.Context, userID uint, amount int) (*model.GenerationQuota, error) {
	quota, err := r.GetLatest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quota == nil {
		return nil, ErrQuotaNotFound
	}
	if err := r.db.WithContext(ctx).Model(&model.GenerationQuota{}).Where("id = ?", quota.ID).
		UpdateColumn("total_allowed", gorm.Expr("total_allowed + ?", amount)).Error; err != nil {
		return nil, fmt.Errorf("increase quota: %w", err)
	}
	var updated model.GenerationQuota
	if err := r.db.WithContext(ctx).First(&updated, quota.ID).Error; err != nil {
		return nil, fmt.Errorf("reload quota: %w", err)
	}
	return &updated, nil
}

// History returns archived periods that ended after since, newest first. A
// user with gap months gets only the periods inside the window, never older
// rows padding the result.
func (r *QuotaRepository) History(ctx context.Context, userID uint, since time.Time) ([]model.QuotaHistory, error) {
	var entries []model.QuotaHistory
	if err := r.db.WithContext(ctx).Where("user_id = ? AND period_end > ?", userID, since).
		Order("period_end DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list quota history: %w", err)
	}
	return entries, nil
}

// ListDue returns the newest quota row per user among rows whose reset
// boundary has passed, for the rollover sweep.
func (r *QuotaRepository) ListDue(ctx context.Context, now time.Time) ([]model.GenerationQuota, error) {
	newest := r.db.Model(&model.GenerationQuota{}).Select("MAX(id)").Group("user_id")
	var due []model.GenerationQuota
	if err := r.db.WithContext(ctx).
		Where("resets_on <= ? AND id IN (?)", now, newest).
		Find(&due).Error; err != nil {
		return nil, fmt.Errorf("list due quotas: %w", err)
	}
	return due, nil
}
