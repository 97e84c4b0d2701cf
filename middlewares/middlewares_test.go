package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lernquest/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, tokens *utils.TokenManager, resource, action string) *gin.Engine {
	t.Helper()
	enforcer, err := NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	r := gin.New()
	r.GET("/x", AuthMiddleware(tokens), RBACMiddleware(enforcer, resource, action), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	r := newRouter(t, tokens, "listening", "evaluate")
	learner, _ := tokens.GenerateJWTToken("u1", "u1@example.de", utils.RoleLearner)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"bad_format", "Token abc", http.StatusBadRequest},
		{"bad_token", "Bearer abc", http.StatusUnauthorized},
		{"ok", "Bearer " + learner, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.header)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	if w := do(r, "Bearer "+learner); w.Body.String() != "u1" {
		t.Errorf("body = %q, want user id from token", w.Body.String())
	}
}

func TestRBACMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("secret", time.Hour)
	learner, _ := tokens.GenerateJWTToken("u1", "", utils.RoleLearner)
	moderator, _ := tokens.GenerateJWTToken("m1", "", utils.RoleModerator)
	admin, _ := tokens.GenerateJWTToken("a1", "", utils.RoleAdmin)

	activity := newRouter(t, tokens, "activity", "read")
	if w := do(activity, "Bearer "+learner); w.Code != http.StatusForbidden {
		t.Errorf("learner on activity: status = %d, want 403", w.Code)
	}
	if w := do(activity, "Bearer "+moderator); w.Code != http.StatusOK {
		t.Errorf("moderator on activity: status = %d, want 200", w.Code)
	}
	if w := do(activity, "Bearer "+admin); w.Code != http.StatusOK {
		t.Errorf("admin on activity: status = %d, want 200", w.Code)
	}

	// Admins inherit learner permissions through moderator.
	evaluate := newRouter(t, tokens, "listening", "evaluate")
	if w := do(evaluate, "Bearer "+admin); w.Code != http.StatusOK {
		t.Errorf("admin on evaluate: status = %d, want 200", w.Code)
	}
}
