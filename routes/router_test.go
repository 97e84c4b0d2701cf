package routes

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lernquest/controllers"
	"lernquest/db"
	"lernquest/internal/exercise"
	"lernquest/middlewares"
	"lernquest/models"
	"lernquest/services"
	"lernquest/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type noAdmins struct{}

func (noAdmins) FindByEmail(context.Context, string) (*models.Admin, error) {
	return nil, db.ErrNotFound
}

func (noAdmins) RecordLogin(context.Context, primitive.ObjectID, time.Time) error {
	return db.ErrNotFound
}

type oneExercise struct{}

func (oneExercise) Generate(_ context.Context, req exercise.Request) ([]exercise.Exercise, error) {
	return []exercise.Exercise{{ID: "x", Type: req.Type, Difficulty: req.Difficulty, Prompt: "p", Answer: "a"}}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *utils.TokenManager) {
	t.Helper()
	enforcer, err := middlewares.NewEnforcer()
	if err != nil {
		t.Fatal(err)
	}
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	listeningSvc := services.NewListeningService(nil, 300, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := Handlers{
		Listening: controllers.NewListeningController(listeningSvc),
		Exercises: controllers.NewExerciseController(services.NewExerciseService(oneExercise{}, 10)),
		Admin:     controllers.NewAdminController(noAdmins{}, listeningSvc, tokens),
		Tokens:    tokens,
		Enforcer:  enforcer,
	}
	return NewRouter(h, []string{"http://localhost:5173"}), tokens
}

func TestRouter(t *testing.T) {
	r, tokens := newTestRouter(t)
	learner, _ := tokens.GenerateJWTToken("u1", "u1@example.de", utils.RoleLearner)
	admin, _ := tokens.GenerateJWTToken("a1", "a1@example.de", utils.RoleAdmin)

	evaluate := `{"referenceText":"Das ist gut","hypothesisText":"das ist gut","difficulty":"A2_BASIC"}`
	generate := `{"type":"grammar","difficulty":"B1_BASIC"}`

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"healthz", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"evaluate_anonymous", http.MethodPost, "/api/listening/evaluate", evaluate, "", http.StatusUnauthorized},
		{"evaluate_learner", http.MethodPost, "/api/listening/evaluate", evaluate, learner, http.StatusOK},
		{"attempts_learner", http.MethodGet, "/api/listening/attempts", "", learner, http.StatusOK},
		{"generate_learner", http.MethodPost, "/api/exercises/generate", generate, learner, http.StatusOK},
		{"generate_admin", http.MethodPost, "/api/exercises/generate", generate, admin, http.StatusOK},
		{"activity_learner", http.MethodGet, "/admin/activity", "", learner, http.StatusForbidden},
		{"activity_admin", http.MethodGet, "/admin/activity?days=3", "", admin, http.StatusOK},
		{"login_unknown", http.MethodPost, "/admin/login", `{"email":"x@example.de","password":"p"}`, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}
