package models

import (
	"time"

	"gorm.io/gorm"
)

// Stages at which a query can fail.
const (
	StageConnect = "connect"
	StageQuery   = "query"
)

type ErrorLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Username  string         `gorm:"not null;index" json:"username"`
	Stage     string         `gorm:"not null" json:"stage"` // "connect" or "query"
	ErrorMsg  string         `gorm:"not null" json:"error_msg"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
