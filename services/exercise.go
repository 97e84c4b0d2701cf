package services

import (
	"context"
	"fmt"

	"lernquest/internal/exercise"
)

type GenerateExercisesRequest struct {
	Type       exercise.Kind `json:"type" binding:"required"`
	Difficulty string        `json:"difficulty" binding:"required,oneof=A2_BASIC A2_INTERMEDIATE B1_BASIC B1_INTERMEDIATE B1_ADVANCED"`
	Topic      string        `json:"topic"`
	Count      int           `json:"count" binding:"omitempty,min=1"`
}

// ExerciseGenerator is satisfied by *exercise.Generator.
type ExerciseGenerator interface {
	Generate(ctx context.Context, req exercise.Request) ([]exercise.Exercise, error)
}

// ExerciseService validates requests and caps batch sizes before asking the
// generator.
type ExerciseService struct {
	generator ExerciseGenerator
	maxCount  int
}

func NewExerciseService(generator ExerciseGenerator, maxCount int) *ExerciseService {
	return &ExerciseService{generator: generator, maxCount: maxCount}
}

func (s *ExerciseService) Generate(ctx context.Context, req GenerateExercisesRequest) ([]exercise.Exercise, error) {
	if !exercise.ValidKind(req.Type) {
		return nil, fmt.Errorf("%w: unknown exercise type %q", ErrInvalidRequest, req.Type)
	}
	count := req.Count
	if count <= 0 {
		count = 1
	}
	if s.maxCount > 0 && count > s.maxCount {
		count = s.maxCount
	}
	return s.generator.Generate(ctx, exercise.Request{
		Type:       req.Type,
		Difficulty: req.Difficulty,
		Topic:      req.Topic,
		Count:      count,
	})
}
