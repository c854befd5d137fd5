package service

import (
	"time"

	"meetup/internal/pending"

	"go.uber.org/zap"
)

// CleanupService drops stale in-memory state
type CleanupService struct {
	tracker *pending.Tracker
	logger  *zap.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(tracker *pending.Tracker, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		tracker: tracker,
		logger:  logger,
	}
}

// CleanupExpired removes pending interactions nobody answered in time
func (s *CleanupService) CleanupExpired(now time.Time) int {
	removed := s.tracker.Sweep(now)
	if removed > 0 {
		s.logger.Info("Expired pending interactions removed", zap.Int("removed", removed))
	}
	return removed
}
