package model

import "time"

// Resolution types. Monthly resolutions track progress inside one plan month,
// yearly ones carry an annual target count and feed the plan prompt.
const (
	ResolutionMonthly = "monthly"
	ResolutionYearly  = "yearly"
)

// Resolution is a long-term commitment tasks can be linked to. Progress is
// always derived from linked tasks, never stored. Archival is a soft delete.
type Resolution struct {
	ID             uint `gorm:"primaryKey"`
	UserID         uint `gorm:"index"`
	Text           string
	Category       string
	ResolutionType string `gorm:"index;default:monthly"`
	Priority       int    `gorm:"default:0"`
	TargetDate     *time.Time
	TargetCount    int  `gorm:"default:0"` // yearly resolutions: supporting tasks per year
	IsRecurring    bool `gorm:"default:false"`
	ArchivedAt     *time.Time `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Archived reports whether the resolution has been soft-deleted.
func (r Resolution) Archived() bool {
	return r.ArchivedAt != nil
}
