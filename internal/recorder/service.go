package recorder

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"sessionprobe/internal/config"
	"sessionprobe/internal/models"
	"sessionprobe/pkg/login"
)

// Store is the subset of the history repository the recorder writes to.
type Store interface {
	Create(record *models.CheckRecord) error
	CreateErrorLog(errorLog *models.ErrorLog) error
	DeleteOlderThan(before time.Time) (int64, error)
}

// Service appends query outcomes to the check history. Write failures are
// logged and returned but never alter the outcome being recorded.
type Service struct {
	config *config.Config
	store  Store
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(cfg *config.Config, store Store, log zerolog.Logger) *Service {
	return &Service{
		config: cfg,
		store:  store,
		log:    log.With().Str("component", "recorder").Logger(),
		now:    time.Now,
	}
}

// Record stores a completed query and prunes expired history.
func (s *Service) Record(result *login.Result, elapsed time.Duration) error {
	record := &models.CheckRecord{
		Timestamp:  s.now(),
		Username:   result.User,
		Found:      result.Found,
		Session:    string(result.Session),
		Scanned:    result.Scanned,
		Skipped:    len(result.Skipped),
		DurationMs: elapsed.Milliseconds(),
	}

	if err := s.store.Create(record); err != nil {
		s.log.Warn().Err(err).Msg("failed to record check")
		return errors.Wrap(err, "failed to record check")
	}

	s.log.Debug().Str("user", result.User).Bool("found", result.Found).Msg("check recorded")
	return s.prune()
}

// StoreError records a failed query.
func (s *Service) StoreError(username, stage string, queryErr error) error {
	errorLog := &models.ErrorLog{
		Timestamp: s.now(),
		Username:  username,
		Stage:     stage,
		ErrorMsg:  queryErr.Error(),
	}

	if err := s.store.CreateErrorLog(errorLog); err != nil {
		s.log.Warn().Err(err).AnErr("query_error", queryErr).Msg("failed to store error in database")
		return errors.Wrap(err, "failed to store error")
	}

	s.log.Debug().Str("stage", stage).Msg("error logged to database")
	return s.prune()
}

func (s *Service) prune() error {
	if s.config.History.Retention <= 0 {
		return nil
	}

	deleted, err := s.store.DeleteOlderThan(s.now().Add(-s.config.History.Retention))
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to prune history")
		return errors.Wrap(err, "failed to prune history")
	}
	if deleted > 0 {
		s.log.Debug().Int64("deleted", deleted).Msg("pruned history")
	}
	return nil
}
