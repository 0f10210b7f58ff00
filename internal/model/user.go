package model

import "time"

// User stores Telegram user metadata.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	CoachName  string // persona name used in generated plans, defaults applied downstream
	CoachTone  string // encouraging, direct, analytical, friendly
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
