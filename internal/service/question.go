package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"meetup/internal/domain"
	"meetup/internal/notify"
	"meetup/internal/repository"

	"go.uber.org/zap"
)

var answerCommandRe = regexp.MustCompile(`(?is)^ответ\s+на\s+вопрос\s*#(\d+):\s*(.+)`)

// ParseAnswerCommand parses "ответ на вопрос #<id>: <text>", case-insensitive, text may span lines
func ParseAnswerCommand(text string) (questionID int64, answer string, ok bool) {
	m := answerCommandRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, "", false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, "", false
	}
	answer = strings.TrimSpace(m[2])
	if answer == "" {
		return 0, "", false
	}
	return id, answer, true
}

// QuestionService handles attendee questions and speaker answers
type QuestionService struct {
	questionRepo repository.QuestionRepository
	talkRepo     repository.TalkRepository
	registry     *SubscriberRegistry
	composer     *notify.Composer
	dispatcher   *notify.Dispatcher
	logger       *zap.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(
	questionRepo repository.QuestionRepository,
	talkRepo repository.TalkRepository,
	registry *SubscriberRegistry,
	composer *notify.Composer,
	dispatcher *notify.Dispatcher,
	logger *zap.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		talkRepo:     talkRepo,
		registry:     registry,
		composer:     composer,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// Ask stores a question from participant and forwards it to the talk's speaker.
// Participants without a profile ask anonymously.
func (s *QuestionService) Ask(ctx context.Context, participant, talkID int64, text string) (*domain.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	talk, err := s.talkRepo.GetByID(ctx, talkID)
	if err != nil {
		return nil, fmt.Errorf("load talk %d: %w", talkID, err)
	}
	if talk == nil {
		return nil, domain.ErrTalkNotFound
	}

	profile, err := s.registry.ResolveProfile(ctx, participant)
	if err != nil {
		return nil, err
	}

	q := &domain.Question{TalkID: talk.ID, Talk: *talk, Text: text}
	if profile != nil {
		userID := profile.UserID
		asker := profile.User
		q.UserID = &userID
		q.Asker = &asker
	}

	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.logger.Info("Question created",
		zap.Int64("question_id", q.ID),
		zap.Int64("talk_id", talk.ID),
	)

	chatID, ok, err := s.registry.ResolveChatID(ctx, talk.SpeakerID)
	switch {
	case err != nil:
		s.logger.Error("Failed to resolve speaker chat", zap.Int64("question_id", q.ID), zap.Error(err))
	case ok:
		_ = s.dispatcher.NotifyOne(ctx, s.composer.QuestionForSpeaker(*q), chatID)
	}

	return q, nil
}

// Answer stores the answer of participant, who must be the talk's speaker, and sends it to the asker.
// A repeated answer overwrites the previous one.
func (s *QuestionService) Answer(ctx context.Context, participant, questionID int64, text string) (*domain.Question, error) {
	return s.answer(ctx, participant, questionID, text, false)
}

// AnswerAsSpeaker is Answer for the free-text command; the participant must also be flagged as a speaker
func (s *QuestionService) AnswerAsSpeaker(ctx context.Context, participant, questionID int64, text string) (*domain.Question, error) {
	return s.answer(ctx, participant, questionID, text, true)
}

// ListForTalk returns questions of a talk, newest first
func (s *QuestionService) ListForTalk(ctx context.Context, talkID int64) ([]domain.Question, error) {
	questions, err := s.questionRepo.ListByTalk(ctx, talkID)
	if err != nil {
		return nil, fmt.Errorf("list questions of talk %d: %w", talkID, err)
	}
	return questions, nil
}

func (s *QuestionService) answer(ctx context.Context, participant, questionID int64, text string, requireSpeakerFlag bool) (*domain.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}

	profile, err := s.registry.ResolveProfile(ctx, participant)
	if err != nil {
		return nil, err
	}
	if requireSpeakerFlag && (profile == nil || !profile.IsSpeaker) {
		return nil, domain.ErrNotSpeaker
	}

	q, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("load question %d: %w", questionID, err)
	}
	if q == nil {
		return nil, domain.ErrQuestionNotFound
	}

	if profile == nil || profile.UserID != q.Talk.SpeakerID {
		s.logger.Warn("Answer rejected: not the talk speaker",
			zap.Int64("question_id", questionID),
			zap.Int64("chat_id", participant),
		)
		return nil, domain.ErrNotTalkSpeaker
	}

	if err := s.questionRepo.SetAnswer(ctx, q.ID, text); err != nil {
		return nil, fmt.Errorf("save answer for question %d: %w", q.ID, err)
	}
	q.Answer = &text
	s.logger.Info("Question answered", zap.Int64("question_id", q.ID))

	if q.UserID == nil {
		return q, nil
	}
	chatID, ok, err := s.registry.ResolveChatID(ctx, *q.UserID)
	switch {
	case err != nil:
		s.logger.Error("Failed to resolve asker chat", zap.Int64("question_id", q.ID), zap.Error(err))
	case ok:
		_ = s.dispatcher.NotifyOne(ctx, s.composer.AnswerForAsker(*q), chatID)
	}

	return q, nil
}
