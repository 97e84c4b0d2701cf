package routes

import (
	"lernquest/controllers"
	"lernquest/middlewares"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// SetupListeningRoutes mounts the listening endpoints under /listening on an
// authenticated group.
func SetupListeningRoutes(router *gin.RouterGroup, lc *controllers.ListeningController, enforcer *casbin.Enforcer) {
	listening := router.Group("/listening")
	{
		listening.POST("/evaluate", middlewares.RBACMiddleware(enforcer, "listening", "evaluate"), lc.Evaluate)
		listening.GET("/attempts", middlewares.RBACMiddleware(enforcer, "listening", "read"), lc.Attempts)
	}
}
