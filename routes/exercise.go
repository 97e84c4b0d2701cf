package routes

import (
	"lernquest/controllers"
	"lernquest/middlewares"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// SetupExerciseRoutes mounts exercise generation. A nil limiter disables rate
// limiting.
func SetupExerciseRoutes(router *gin.RouterGroup, ec *controllers.ExerciseController, enforcer *casbin.Enforcer, limiter *middlewares.RateLimiter) {
	router.POST("/exercises/generate",
		middlewares.RBACMiddleware(enforcer, "exercise", "generate"),
		middlewares.RateLimitMiddleware(limiter, "exercise"),
		ec.Generate,
	)
}
