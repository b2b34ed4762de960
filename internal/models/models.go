package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	HabitGood = "good"
	HabitBad  = "bad"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
	TelegramID   string `json:"telegram_id,omitempty"`
}

// RefreshToken keeps the single live refresh credential of a user.
// The unique index on user_id backs the one-row-per-user invariant.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	Token     string    `gorm:"unique;not null"      json:"token"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
}

type Task struct {
	ID          uint      `gorm:"primaryKey"              json:"id"`
	UserID      uint      `gorm:"index;not null"          json:"user_id"`
	Title       string    `gorm:"not null"                json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `gorm:"not null"                json:"due_date"`
	IsCompleted bool      `gorm:"not null;default:false"  json:"is_completed"`
	IsCurrent   bool      `gorm:"not null;default:false"  json:"is_current"`
}

type Habit struct {
	ID          uint   `gorm:"primaryKey"     json:"id"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Title       string `gorm:"not null"       json:"title"`
	Description string `json:"description"`
	Type        string `gorm:"not null"       json:"type"`
}
