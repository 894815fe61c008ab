package model

import "time"

// User stores Telegram user metadata for everyone who talked to the bot.
type User struct {
	ID          uint  `gorm:"primaryKey"`
	UserID      int64 `gorm:"uniqueIndex;not null"`
	Username    string
	FirstName   string
	LastName    string
	FirstJoined time.Time
	LastActive  time.Time
}

func (User) TableName() string { return "users" }

// UserProfile carries the profile fields of a Telegram sender.
// Empty strings mean "not supplied" and never overwrite stored values.
type UserProfile struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string
}
