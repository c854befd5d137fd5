package service

import (
	"context"
	"fmt"

	"meetup/internal/domain"
	"meetup/internal/repository"

	"go.uber.org/zap"
)

// ChatUser is the sender of an inbound update
type ChatUser struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// ProfileFlags is a partial update of profile flags; nil fields are left as is
type ProfileFlags struct {
	IsSpeaker   *bool `json:"is_speaker"`
	IsOrganizer *bool `json:"is_organizer"`
	Subscribed  *bool `json:"subscribed_to_notifications"`
}

// ProfileService handles registration and profile flags
type ProfileService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(userRepo repository.UserRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// IsRegistered checks if the chat user already has a profile
func (s *ProfileService) IsRegistered(ctx context.Context, telegramID int64) (bool, error) {
	p, err := s.userRepo.GetProfileByTelegramID(ctx, telegramID)
	if err != nil {
		return false, fmt.Errorf("check profile %d: %w", telegramID, err)
	}
	return p != nil, nil
}

// Register creates the user and a subscribed profile unless the chat user already has one
func (s *ProfileService) Register(ctx context.Context, cu ChatUser) (*domain.UserProfile, error) {
	existing, err := s.userRepo.GetProfileByTelegramID(ctx, cu.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("check profile %d: %w", cu.TelegramID, err)
	}
	if existing != nil {
		return existing, nil
	}

	user, err := s.claimUser(ctx, cu)
	if err != nil {
		return nil, err
	}

	profile := &domain.UserProfile{
		UserID:     user.ID,
		User:       *user,
		TelegramID: cu.TelegramID,
		Subscribed: true,
	}
	if err := s.userRepo.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile %d: %w", cu.TelegramID, err)
	}

	stored, err := s.userRepo.GetProfileByTelegramID(ctx, cu.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("load profile %d: %w", cu.TelegramID, err)
	}
	if stored == nil {
		// Even the fallback user row belongs to another chat.
		return nil, domain.ErrProfileNotFound
	}

	s.logger.Info("User registered",
		zap.Int64("telegram_id", cu.TelegramID),
		zap.Int64("user_id", user.ID),
	)
	return stored, nil
}

// claimUser finds or creates the user row for cu.
// A username whose user already has a profile belongs to someone else; tg_<id> is used instead.
func (s *ProfileService) claimUser(ctx context.Context, cu ChatUser) (*domain.User, error) {
	fallback := fmt.Sprintf("tg_%d", cu.TelegramID)
	if cu.Username != "" {
		user, err := s.getOrCreateUser(ctx, cu, cu.Username)
		if err != nil {
			return nil, err
		}
		owner, err := s.userRepo.GetProfileByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check user %d: %w", user.ID, err)
		}
		if owner == nil {
			return user, nil
		}
		s.logger.Warn("Username already taken, using fallback",
			zap.Int64("telegram_id", cu.TelegramID),
			zap.String("username", cu.Username),
			zap.String("fallback", fallback),
		)
	}
	return s.getOrCreateUser(ctx, cu, fallback)
}

func (s *ProfileService) getOrCreateUser(ctx context.Context, cu ChatUser, username string) (*domain.User, error) {
	user := &domain.User{Username: username, FirstName: cu.FirstName, LastName: cu.LastName}
	if err := s.userRepo.GetOrCreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}
	return user, nil
}

// SetFlags applies a partial flag update to the profile bound to telegramID
func (s *ProfileService) SetFlags(ctx context.Context, telegramID int64, flags ProfileFlags) (*domain.UserProfile, error) {
	p, err := s.userRepo.GetProfileByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("load profile %d: %w", telegramID, err)
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}

	if flags.IsSpeaker != nil {
		p.IsSpeaker = *flags.IsSpeaker
	}
	if flags.IsOrganizer != nil {
		p.IsOrganizer = *flags.IsOrganizer
	}
	if flags.Subscribed != nil {
		p.Subscribed = *flags.Subscribed
	}

	if err := s.userRepo.UpdateProfileFlags(ctx, p); err != nil {
		return nil, fmt.Errorf("update profile %d: %w", telegramID, err)
	}
	return p, nil
}
