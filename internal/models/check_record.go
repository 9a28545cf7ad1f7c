package models

import (
	"time"

	"gorm.io/gorm"
)

// CheckRecord is one completed session query.
type CheckRecord struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time      `gorm:"not null;index" json:"timestamp"`
	Username   string         `gorm:"not null;index" json:"username"`
	Found      bool           `gorm:"not null;default:false" json:"found"`
	Session    string         `gorm:"not null;default:''" json:"session"` // Matched object path, empty when not found
	Scanned    int            `gorm:"not null;default:0" json:"scanned"`
	Skipped    int            `gorm:"not null;default:0" json:"skipped"`
	DurationMs int64          `gorm:"not null;default:0" json:"duration_ms"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
