package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"lernquest/db"
	"lernquest/models"
	"lernquest/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxActivityDays = 365

// AdminLoginRequest represents the login request
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminStore is satisfied by *db.AdminRepository.
type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type ActivityReporter interface {
	ActivitySummary(ctx context.Context, days int) (models.ActivitySummary, error)
}

type AdminController struct {
	admins   AdminStore
	activity ActivityReporter
	tokens   *utils.TokenManager
}

func NewAdminController(admins AdminStore, activity ActivityReporter, tokens *utils.TokenManager) *AdminController {
	return &AdminController{admins: admins, activity: activity, tokens: tokens}
}

// Login handles admin/moderator login
func (ac *AdminController) Login(c *gin.Context) {
	var request AdminLoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	admin, err := ac.admins.FindByEmail(c.Request.Context(), request.Email)
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		slog.Error("admin lookup failed", "email", request.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !utils.CheckPasswordHash(request.Password, admin.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if err := ac.admins.RecordLogin(c.Request.Context(), admin.ID, time.Now()); err != nil {
		slog.Warn("recording admin login failed", "email", admin.Email, "error", err)
	}

	token, err := ac.tokens.GenerateJWTToken(admin.ID.Hex(), admin.Email, admin.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Admin login successful",
		"accessToken": token,
		"admin": gin.H{
			"id":    admin.ID.Hex(),
			"email": admin.Email,
			"name":  admin.Name,
			"role":  admin.Role,
		},
	})
}

// Activity returns listening activity of the last ?days= days (default 7)
func (ac *AdminController) Activity(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxActivityDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
			return
		}
		days = n
	}

	summary, err := ac.activity.ActivitySummary(c.Request.Context(), days)
	if err != nil {
		slog.Error("activity summary failed", "days", days, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
