package routes

import (
	"lernquest/controllers"
	"lernquest/middlewares"
	"lernquest/utils"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up admin routes
func SetupAdminRoutes(router *gin.Engine, ac *controllers.AdminController, tokens *utils.TokenManager, enforcer *casbin.Enforcer) {
	// Public admin routes (login only, admins are added with cmd/addadmin)
	router.POST("/admin/login", ac.Login)

	admin := router.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(tokens))
	{
		admin.GET("/activity", middlewares.RBACMiddleware(enforcer, "activity", "read"), ac.Activity)
	}
}
