package model

import "time"

// Task represents a single scheduled item inside a monthly plan. Immutable
// once scheduled except for its completion fields. ResolutionIDs is a
// denormalized back-reference to linked resolutions, stored as a JSON array
// column and queried with json_each containment.
type Task struct {
	ID               uint  `gorm:"primaryKey"`
	UserID           uint  `gorm:"index"`
	PlanID           *uint `gorm:"index"`
	Title            string
	FocusArea        string `gorm:"index"`
	DifficultyLevel  string // easy, medium, hard
	StartTime        time.Time
	EndTime          time.Time
	IsCompleted      bool `gorm:"default:false"`
	CompletedAt      *time.Time
	SchedulingReason string
	ResolutionIDs    []int64 `gorm:"serializer:json"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DurationMinutes is the scheduled length of the task.
func (t Task) DurationMinutes() float64 {
	return t.EndTime.Sub(t.StartTime).Minutes()
}

// LinkedTo reports whether the task references the given resolution.
func (t Task) LinkedTo(resolutionID int64) bool {
	for _, id := range t.ResolutionIDs {
		if id == resolutionID {
			return true
		}
	}
	return false
}
