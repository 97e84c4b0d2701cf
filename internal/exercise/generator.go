package exercise

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoExercises is returned when every attempt failed or produced nothing new.
var ErrNoExercises = errors.New("no usable exercises generated")

// TextModel is a language model that answers a prompt with text.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeneratorConfig tunes batching and retries.
type GeneratorConfig struct {
	BatchSize   int           // exercises requested per model call
	MaxAttempts int           // model calls per Generate
	Backoff     time.Duration // multiplied by the attempt number
}

// DefaultGeneratorConfig returns the settings used when none are configured.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		BatchSize:   5,
		MaxAttempts: 4,
		Backoff:     500 * time.Millisecond,
	}
}

// Generator produces fresh exercises from a TextModel, skipping items already
// handed out according to its DedupStore.
type Generator struct {
	model  TextModel
	store  DedupStore
	cfg    GeneratorConfig
	logger *slog.Logger
	newID  func() string
}

// NewGenerator wires a generator. Non-positive batch size or attempt count
// fall back to DefaultGeneratorConfig.
func NewGenerator(model TextModel, store DedupStore, cfg GeneratorConfig, logger *slog.Logger) *Generator {
	def := DefaultGeneratorConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		model:  model,
		store:  store,
		cfg:    cfg,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Generate returns up to req.Count new exercises. It returns partial results
// when attempts run out after at least one exercise was accepted.
func (g *Generator) Generate(ctx context.Context, req Request) ([]Exercise, error) {
	if !ValidKind(req.Type) {
		return nil, fmt.Errorf("unknown exercise type %q", req.Type)
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	out := make([]Exercise, 0, req.Count)
	inRun := make(map[string]bool)
	var lastErr error

	for attempt := 1; attempt <= g.cfg.MaxAttempts && len(out) < req.Count; attempt++ {
		if attempt > 1 {
			if err := sleepCtx(ctx, g.cfg.Backoff*time.Duration(attempt-1)); err != nil {
				return nil, err
			}
		}

		want := min(g.cfg.BatchSize, req.Count-len(out))
		raw, err := g.model.GenerateText(ctx, buildPrompt(req, want))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			g.logger.Warn("exercise generation failed", "attempt", attempt, "type", req.Type, "error", err)
			lastErr = err
			continue
		}

		accepted := 0
		for _, item := range ParseBatch(raw, req) {
			if len(out) == req.Count {
				break
			}
			switch v := item.(type) {
			case Malformed:
				g.logger.Debug("dropping malformed exercise", "attempt", attempt, "reason", v.Reason)
			case Parsed:
				ex, ok := g.accept(ctx, v.Exercise, inRun)
				if !ok {
					continue
				}
				out = append(out, ex)
				accepted++
			}
		}
		if accepted == 0 {
			lastErr = fmt.Errorf("attempt %d returned no new exercises", attempt)
		}
	}

	if len(out) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoExercises, lastErr)
		}
		return nil, ErrNoExercises
	}
	if len(out) < req.Count {
		g.logger.Warn("returning partial exercise batch", "type", req.Type, "want", req.Count, "got", len(out))
	}
	return out, nil
}

// accept checks ex against this run and the store and remembers it.
// Store failures are logged and do not block the exercise.
func (g *Generator) accept(ctx context.Context, ex Exercise, inRun map[string]bool) (Exercise, bool) {
	hash := ContentHash(ex)
	if inRun[hash] {
		return Exercise{}, false
	}
	dup, err := g.store.Seen(ctx, hash)
	if err != nil {
		g.logger.Warn("duplicate lookup failed", "error", err)
	}
	if dup {
		return Exercise{}, false
	}

	inRun[hash] = true
	if err := g.store.Remember(ctx, hash); err != nil {
		g.logger.Warn("remembering exercise failed", "error", err)
	}
	ex.ID = g.newID()
	return ex, true
}

func buildPrompt(req Request, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create %d German %s exercises at CEFR level %s", n, strings.ReplaceAll(string(req.Type), "_", " "), req.Difficulty)
	if req.Topic != "" {
		fmt.Fprintf(&sb, " about %q", req.Topic)
	}
	sb.WriteString(".\nReturn ONLY a JSON array of objects with the fields ")
	sb.WriteString(`"prompt", "text", "options", "answer", "explanation".`)
	return sb.String()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
