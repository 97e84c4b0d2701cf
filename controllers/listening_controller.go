package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"lernquest/internal/listening"
	"lernquest/middlewares"
	"lernquest/models"
	"lernquest/services"

	"github.com/gin-gonic/gin"
)

const (
	defaultAttemptsLimit = 20
	maxAttemptsLimit     = 100
)

// ListeningScorer is satisfied by *services.ListeningService.
type ListeningScorer interface {
	Evaluate(ctx context.Context, userID string, req services.EvaluateRequest) (listening.Result, error)
	RecentAttempts(ctx context.Context, userID string, limit int) ([]models.ListeningAttempt, error)
}

type ListeningController struct {
	service ListeningScorer
}

func NewListeningController(service ListeningScorer) *ListeningController {
	return &ListeningController{service: service}
}

// Evaluate scores a heard transcript against the reference text
func (lc *ListeningController) Evaluate(c *gin.Context) {
	var req services.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	result, err := lc.service.Evaluate(c.Request.Context(), c.GetString(middlewares.ContextUserID), req)
	if err != nil {
		if errors.Is(err, services.ErrInputTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Input too large", "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to evaluate answer"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Attempts lists the caller's recent attempts, newest first
func (lc *ListeningController) Attempts(c *gin.Context) {
	limit := defaultAttemptsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxAttemptsLimit)
	}

	attempts, err := lc.service.RecentAttempts(c.Request.Context(), c.GetString(middlewares.ContextUserID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attempts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
