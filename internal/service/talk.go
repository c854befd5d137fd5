package service

import (
	"context"
	"fmt"
	"strings"

	"meetup/internal/domain"
	"meetup/internal/repository"

	"go.uber.org/zap"
)

// TalkService is the write path for talks; every committed write runs the lifecycle hooks
type TalkService struct {
	talkRepo repository.TalkRepository
	hooks    *Lifecycle
	logger   *zap.Logger
}

// NewTalkService creates a new talk service
func NewTalkService(talkRepo repository.TalkRepository, hooks *Lifecycle, logger *zap.Logger) *TalkService {
	return &TalkService{
		talkRepo: talkRepo,
		hooks:    hooks,
		logger:   logger,
	}
}

// Create stores a new talk, notifies its speaker and announces the program change
func (s *TalkService) Create(ctx context.Context, t *domain.Talk) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("talk title: %w", domain.ErrEmptyText)
	}
	if err := s.talkRepo.Create(ctx, t); err != nil {
		return fmt.Errorf("create talk: %w", err)
	}

	s.logger.Info("Talk created", zap.Int64("talk_id", t.ID), zap.Int64("event_id", t.EventID))
	s.hooks.TalkCreated(ctx, s.reload(ctx, t))
	return nil
}

// Update stores an edited talk and announces it when something visible changed
func (s *TalkService) Update(ctx context.Context, t *domain.Talk) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("talk title: %w", domain.ErrEmptyText)
	}

	old, err := s.talkRepo.GetByID(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("load talk %d: %w", t.ID, err)
	}
	if old == nil {
		return domain.ErrTalkNotFound
	}

	if err := s.talkRepo.Update(ctx, t); err != nil {
		return fmt.Errorf("update talk %d: %w", t.ID, err)
	}

	s.logger.Info("Talk updated", zap.Int64("talk_id", t.ID))
	s.hooks.TalkUpdated(ctx, old, s.reload(ctx, t))
	return nil
}

// Get returns a talk with its event and speaker
func (s *TalkService) Get(ctx context.Context, id int64) (*domain.Talk, error) {
	t, err := s.talkRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get talk %d: %w", id, err)
	}
	if t == nil {
		return nil, domain.ErrTalkNotFound
	}
	return t, nil
}

// reload fetches the stored talk with joined event and speaker data.
// Falls back to the written value if the read fails.
func (s *TalkService) reload(ctx context.Context, t *domain.Talk) domain.Talk {
	fresh, err := s.talkRepo.GetByID(ctx, t.ID)
	if err != nil || fresh == nil {
		s.logger.Warn("Failed to reload talk after write", zap.Int64("talk_id", t.ID), zap.Error(err))
		return *t
	}
	*t = *fresh
	return *fresh
}
