package model

import "time"

// Code maps a lookup key to the text the bot replies with.
type Code struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"uniqueIndex;not null"`
	Response  string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Code) TableName() string { return "codes" }
