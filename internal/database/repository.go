package database

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"sessionprobe/internal/models"
)

// Repository handles all database operations for check history
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new check record into the database
func (r *Repository) Create(record *models.CheckRecord) error {
	result := r.db.Create(record)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert check record")
	}
	return nil
}

// CreateErrorLog inserts a new error log into the database
func (r *Repository) CreateErrorLog(errorLog *models.ErrorLog) error {
	result := r.db.Create(errorLog)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert error log")
	}
	return nil
}

// GetLatestForUser retrieves the most recent check for a user, or nil when
// the user was never checked
func (r *Repository) GetLatestForUser(username string) (*models.CheckRecord, error) {
	var record models.CheckRecord
	result := r.db.Where("username = ?", username).Order("timestamp DESC").First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest check")
	}
	return &record, nil
}

// DeleteOlderThan permanently removes checks and error logs recorded before
// the given time
func (r *Repository) DeleteOlderThan(before time.Time) (int64, error) {
	checks := r.db.Unscoped().Where("timestamp < ?", before).Delete(&models.CheckRecord{})
	if checks.Error != nil {
		return 0, errors.Wrap(checks.Error, "failed to delete old checks")
	}

	logs := r.db.Unscoped().Where("timestamp < ?", before).Delete(&models.ErrorLog{})
	if logs.Error != nil {
		return checks.RowsAffected, errors.Wrap(logs.Error, "failed to delete old error logs")
	}

	return checks.RowsAffected + logs.RowsAffected, nil
}
