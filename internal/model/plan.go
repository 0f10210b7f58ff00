package model

import "time"

// Plan is one AI-generated monthly plan. Tasks reference it by PlanID.
type Plan struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	MonthYear   string `gorm:"index"` // e.g. 2026-08
	Goal        string
	Summary     string
	GeneratedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Tasks       []Task `gorm:"foreignKey:PlanID"`
}
