package routes

import (
	"net/http"

	"lernquest/controllers"
	"lernquest/middlewares"
	"lernquest/utils"

	"github.com/casbin/casbin/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Listening *controllers.ListeningController
	Exercises *controllers.ExerciseController
	Admin     *controllers.AdminController
	Tokens    *utils.TokenManager
	Enforcer  *casbin.Enforcer
	Limiter   *middlewares.RateLimiter // optional
}

// NewRouter builds the gin engine with CORS and every route group.
func NewRouter(h Handlers, allowOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	SetupAdminRoutes(router, h.Admin, h.Tokens, h.Enforcer)

	api := router.Group("/api")
	api.Use(middlewares.AuthMiddleware(h.Tokens))
	{
		SetupListeningRoutes(api, h.Listening, h.Enforcer)
		SetupExerciseRoutes(api, h.Exercises, h.Enforcer, h.Limiter)
	}

	return router
}
