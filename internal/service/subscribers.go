package service

import (
	"context"
	"fmt"

	"meetup/internal/domain"
	"meetup/internal/repository"
)

// SubscriberRegistry resolves notification audiences and chat identities.
// Every call reads the store; nothing is cached.
type SubscriberRegistry struct {
	userRepo repository.UserRepository
}

// NewSubscriberRegistry creates a new subscriber registry
func NewSubscriberRegistry(userRepo repository.UserRepository) *SubscriberRegistry {
	return &SubscriberRegistry{userRepo: userRepo}
}

// EligibleSubscribers returns chats of subscribed profiles with a known chat
func (r *SubscriberRegistry) EligibleSubscribers(ctx context.Context) ([]int64, error) {
	ids, err := r.userRepo.ListSubscribedChatIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return ids, nil
}

// ResolveProfile returns the profile bound to chatID, or nil
func (r *SubscriberRegistry) ResolveProfile(ctx context.Context, chatID int64) (*domain.UserProfile, error) {
	p, err := r.userRepo.GetProfileByTelegramID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile %d: %w", chatID, err)
	}
	return p, nil
}

// ResolveChatID returns the chat of a user; ok is false when the user has no profile or no chat
func (r *SubscriberRegistry) ResolveChatID(ctx context.Context, userID int64) (chatID int64, ok bool, err error) {
	p, err := r.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return 0, false, fmt.Errorf("resolve chat of user %d: %w", userID, err)
	}
	if !p.HasChat() {
		return 0, false, nil
	}
	return p.TelegramID, true, nil
}
