package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"

	"lernquest/utils"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

var defaultPolicies = [][]string{
	{utils.RoleLearner, "listening", "evaluate"},
	{utils.RoleLearner, "listening", "read"},
	{utils.RoleLearner, "exercise", "generate"},
	{utils.RoleModerator, "activity", "read"},
}

// admins inherit everything moderators and learners may do
var defaultRoles = [][]string{
	{utils.RoleAdmin, utils.RoleModerator},
	{utils.RoleModerator, utils.RoleLearner},
}

// NewEnforcer builds an in-memory Casbin enforcer with the default policies.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create Casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create Casbin enforcer: %w", err)
	}
	if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
		return nil, fmt.Errorf("failed to add policies: %w", err)
	}
	if _, err := enforcer.AddGroupingPolicies(defaultRoles); err != nil {
		return nil, fmt.Errorf("failed to add roles: %w", err)
	}
	return enforcer, nil
}

// RBACMiddleware checks that the role set by AuthMiddleware may perform
// action on resource.
func RBACMiddleware(enforcer *casbin.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			slog.Error("casbin enforce failed", "role", role, "resource", resource, "action", action, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Permission check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
