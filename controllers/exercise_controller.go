package controllers

import (
	"context"
	"errors"
	"net/http"

	"lernquest/internal/exercise"
	"lernquest/services"

	"github.com/gin-gonic/gin"
)

type ExerciseCreator interface {
	Generate(ctx context.Context, req services.GenerateExercisesRequest) ([]exercise.Exercise, error)
}

type ExerciseController struct {
	service ExerciseCreator
}

func NewExerciseController(service ExerciseCreator) *ExerciseController {
	return &ExerciseController{service: service}
}

// Generate asks the model for a fresh batch of exercises
func (ec *ExerciseController) Generate(c *gin.Context) {
	var req services.GenerateExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	exercises, err := ec.service.Generate(c.Request.Context(), req)
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	case errors.Is(err, exercise.ErrNoExercises):
		c.JSON(http.StatusBadGateway, gin.H{"error": "The model returned no usable exercises"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to generate exercises", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"exercises": exercises, "count": len(exercises)})
}
