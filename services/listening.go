package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lernquest/internal/listening"
	"lernquest/models"
)

// ErrInputTooLarge is returned when a transcript exceeds the token limit.
var ErrInputTooLarge = errors.New("input too large")

// AttemptStore persists listening attempts.
type AttemptStore interface {
	SaveAttempt(ctx context.Context, attempt *models.ListeningAttempt) error
	RecentAttempts(ctx context.Context, userID string, limit int) ([]models.ListeningAttempt, error)
	ActivitySummary(ctx context.Context, since time.Time) (models.ActivitySummary, error)
}

type EvaluateRequest struct {
	ReferenceText  string `json:"referenceText" binding:"required"`
	HypothesisText string `json:"hypothesisText" binding:"required"`
	Difficulty     string `json:"difficulty" binding:"required,oneof=A2_BASIC A2_INTERMEDIATE B1_BASIC B1_INTERMEDIATE B1_ADVANCED"`
}

// ListeningService scores listening answers and keeps a history of them.
type ListeningService struct {
	store     AttemptStore
	maxTokens int
	logger    *slog.Logger
	now       func() time.Time
}

// NewListeningService creates the service. A nil store disables history.
func NewListeningService(store AttemptStore, maxTokens int, logger *slog.Logger) *ListeningService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ListeningService{
		store:     store,
		maxTokens: maxTokens,
		logger:    logger,
		now:       time.Now,
	}
}

// Evaluate scores req for userID. Saving the attempt is best effort.
func (s *ListeningService) Evaluate(ctx context.Context, userID string, req EvaluateRequest) (listening.Result, error) {
	if err := s.checkSize("referenceText", req.ReferenceText); err != nil {
		return listening.Result{}, err
	}
	if err := s.checkSize("hypothesisText", req.HypothesisText); err != nil {
		return listening.Result{}, err
	}

	result := listening.Evaluate(req.ReferenceText, req.HypothesisText, req.Difficulty)

	if s.store != nil {
		attempt := &models.ListeningAttempt{
			UserID:         userID,
			ReferenceText:  req.ReferenceText,
			HypothesisText: req.HypothesisText,
			Difficulty:     req.Difficulty,
			Result:         result,
			CreatedAt:      s.now(),
		}
		if err := s.store.SaveAttempt(ctx, attempt); err != nil {
			s.logger.Error("saving listening attempt", "user", userID, "error", err)
		}
	}

	s.logger.Debug("listening evaluated", "user", userID, "difficulty", req.Difficulty,
		"score", result.Score, "wer", result.WordErrorRate)
	return result, nil
}

func (s *ListeningService) checkSize(field, text string) error {
	if s.maxTokens <= 0 {
		return nil
	}
	if n := len(listening.Tokenize(text)); n > s.maxTokens {
		return fmt.Errorf("%w: %s has %d words, limit is %d", ErrInputTooLarge, field, n, s.maxTokens)
	}
	return nil
}

func (s *ListeningService) RecentAttempts(ctx context.Context, userID string, limit int) ([]models.ListeningAttempt, error) {
	if s.store == nil {
		return []models.ListeningAttempt{}, nil
	}
	return s.store.RecentAttempts(ctx, userID, limit)
}

// ActivitySummary aggregates attempts of the last days days.
func (s *ListeningService) ActivitySummary(ctx context.Context, days int) (models.ActivitySummary, error) {
	since := s.now().AddDate(0, 0, -days)
	if s.store == nil {
		return models.ActivitySummary{Since: since, ByDifficulty: []models.DifficultyActivity{}}, nil
	}
	return s.store.ActivitySummary(ctx, since)
}
