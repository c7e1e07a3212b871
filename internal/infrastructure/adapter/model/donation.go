package model

import (
	"time"
)

// Donation represents the database model for the donation ledger.
// SessionRef is a pointer so the unique index tolerates the many rows
// that are still in the window between insert and session attachment.
type Donation struct {
	ID            string     `gorm:"primaryKey;size:36"`
	DonorName     string     `gorm:"not null;size:255"`
	DonorEmail    string     `gorm:"not null;size:255;index"`
	Amount        int64      `gorm:"not null"`
	Currency      string     `gorm:"not null;size:8"`
	Status        string     `gorm:"not null;size:20;index"`
	LivesImpacted int64      `gorm:"not null"`
	SessionRef    *string    `gorm:"uniqueIndex;size:255"`
	Message       string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"not null;index"`
	SettledAt     *time.Time
}

// TableName specifies the table name for Donation
func (Donation) TableName() string {
	return "donations"
}
