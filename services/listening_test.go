package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"lernquest/models"
)

type memoryAttemptStore struct {
	saved   []models.ListeningAttempt
	saveErr error
	since   time.Time
}

func (m *memoryAttemptStore) SaveAttempt(_ context.Context, a *models.ListeningAttempt) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *a)
	return nil
}

func (m *memoryAttemptStore) RecentAttempts(_ context.Context, userID string, limit int) ([]models.ListeningAttempt, error) {
	out := []models.ListeningAttempt{}
	for i := len(m.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if m.saved[i].UserID == userID {
			out = append(out, m.saved[i])
		}
	}
	return out, nil
}

func (m *memoryAttemptStore) ActivitySummary(_ context.Context, since time.Time) (models.ActivitySummary, error) {
	m.since = since
	return models.ActivitySummary{Since: since, TotalAttempts: int64(len(m.saved))}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListeningServiceEvaluate(t *testing.T) {
	store := &memoryAttemptStore{}
	svc := NewListeningService(store, 10, discardLogger())

	res, err := svc.Evaluate(context.Background(), "u1", EvaluateRequest{
		ReferenceText:  "Wir fahren nach Berlin",
		HypothesisText: "Wir fahren Berlin",
		Difficulty:     "A2_BASIC",
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if res.Score != 75 {
		t.Errorf("Score = %d, want 75", res.Score)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d attempts, want 1", len(store.saved))
	}
	got := store.saved[0]
	if got.UserID != "u1" || got.Difficulty != "A2_BASIC" || got.Result.Score != 75 {
		t.Errorf("saved attempt = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestListeningServiceInputTooLarge(t *testing.T) {
	svc := NewListeningService(&memoryAttemptStore{}, 3, discardLogger())

	_, err := svc.Evaluate(context.Background(), "u1", EvaluateRequest{
		ReferenceText:  "eins zwei drei vier",
		HypothesisText: "eins",
		Difficulty:     "A2_BASIC",
	})
	if !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("err = %v, want ErrInputTooLarge", err)
	}
	if !strings.Contains(err.Error(), "referenceText") {
		t.Errorf("err = %v, want field name", err)
	}

	_, err = svc.Evaluate(context.Background(), "u1", EvaluateRequest{
		ReferenceText:  "eins, zwei, drei!",
		HypothesisText: "eins zwei drei vier",
		Difficulty:     "A2_BASIC",
	})
	if !errors.Is(err, ErrInputTooLarge) {
		t.Fatalf("err = %v, want ErrInputTooLarge for hypothesis", err)
	}
}

func TestListeningServiceStoreFailureDoesNotFail(t *testing.T) {
	svc := NewListeningService(&memoryAttemptStore{saveErr: errors.New("db down")}, 0, discardLogger())

	res, err := svc.Evaluate(context.Background(), "u1", EvaluateRequest{
		ReferenceText:  "Guten Morgen",
		HypothesisText: "Guten Morgen",
		Difficulty:     "B1_ADVANCED",
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !res.ExactMatch {
		t.Error("ExactMatch = false, want true")
	}
}

func TestListeningServiceWithoutStore(t *testing.T) {
	svc := NewListeningService(nil, 0, discardLogger())
	if _, err := svc.Evaluate(context.Background(), "u1", EvaluateRequest{ReferenceText: "a", HypothesisText: "b"}); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	attempts, err := svc.RecentAttempts(context.Background(), "u1", 5)
	if err != nil || len(attempts) != 0 {
		t.Errorf("RecentAttempts() = %v, %v", attempts, err)
	}
}

func TestListeningServiceActivitySummary(t *testing.T) {
	store := &memoryAttemptStore{}
	svc := NewListeningService(store, 0, discardLogger())
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.ActivitySummary(context.Background(), 7); err != nil {
		t.Fatalf("ActivitySummary() error = %v", err)
	}
	if want := now.AddDate(0, 0, -7); !store.since.Equal(want) {
		t.Errorf("since = %s, want %s", store.since, want)
	}
}
