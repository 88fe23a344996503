// Package api wires the gin engine for the service: the account + planning
// surface this system needs, and nothing beyond it.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oleamind/cropplanner/internal/api/handlers"
	"github.com/oleamind/cropplanner/internal/api/middleware"
	"github.com/oleamind/cropplanner/internal/api/userstore"
)

// Options configures the HTTP server.
type Options struct {
	JWTSecret     string
	AllowedOrigin string
	Users         *userstore.Store
}

// NewRouter builds the gin engine: CORS, account endpoints, and the
// JWT-gated planning endpoints.
func NewRouter(opts Options) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{opts.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	auth := handlers.AuthHandlers{Store: opts.Users, JWTSecret: opts.JWTSecret}
	r.POST("/auth/register", auth.Register)
	r.POST("/auth/login", auth.Login)
	r.POST("/auth/logout", auth.Logout)

	planning := handlers.PlanningHandlers{}
	authenticated := r.Group("/")
	authenticated.Use(middleware.Auth(opts.JWTSecret, opts.Users))
	{
		authenticated.GET("/auth/me", auth.GetCurrentUser)
		authenticated.POST("/planning/optimize-period", planning.OptimizePeriod)
		authenticated.POST("/planning/optimize-allocation", planning.OptimizeAllocation)
		authenticated.POST("/planning/adjust-allocation", planning.AdjustAllocation)
	}

	return r
}
