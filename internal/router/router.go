package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/orgnotes/orgnotes/internal/config"
	"github.com/orgnotes/orgnotes/internal/handlers"
	"github.com/orgnotes/orgnotes/internal/middleware"
	"github.com/orgnotes/orgnotes/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	Config      config.Config
	Handlers    *handlers.HandlerManager
	AuthService services.AuthService
	Registry    *prometheus.Registry
	Logger      *zap.Logger
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger.Named("http")))
	r.Use(middleware.NewMetrics(opts.Registry).Handler())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))

	h := opts.Handlers
	authenticated := middleware.AuthMiddleware(opts.AuthService, opts.Logger.Named("auth"))

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthHandler.HealthCheck)

		user := api.Group("/user")
		{
			user.POST("/register/", h.AuthHandler.Register)
			user.POST("/create_new/", authenticated, h.UserHandler.CreateOrgUser)
			user.DELETE("/delete/:username/", authenticated, h.UserHandler.DeleteOrgUser)
			user.PUT("/update/:username/", authenticated, h.UserHandler.UpdateOrgUser)
			user.PATCH("/update/:username/", authenticated, h.UserHandler.UpdateOrgUser)
		}

		token := api.Group("/token")
		{
			token.POST("/", h.AuthHandler.ObtainToken)
			token.POST("/refresh/", h.AuthHandler.RefreshToken)
		}

		notes := api.Group("/notes", authenticated)
		{
			notes.GET("/", h.NoteHandler.ListNotes)
			notes.POST("/", h.NoteHandler.CreateNote)
			notes.DELETE("/delete/:id", h.NoteHandler.DeleteNote)
		}

		api.GET("/organization/users/", authenticated, h.UserHandler.ListOrgUsers)
	}

	return r
}
