package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/core/users"
	"itsheet.com/itsheet/infrastructure/devops"
	"itsheet.com/itsheet/web/handlers"
	"itsheet.com/itsheet/web/handlers/auth"
	sheethandler "itsheet.com/itsheet/web/handlers/timesheet"
	userhandler "itsheet.com/itsheet/web/handlers/users"
	"itsheet.com/itsheet/web/middlewares"
)

type Dependencies struct {
	Config   *devops.Config
	DM       *core.DatabaseManager
	Secret   []byte
	Notifier timesheet.Notifier
	Archive  timesheet.Archiver
}

// NewRouter wires every route and middleware of the API.
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecureHeaders())
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Disposition", middlewares.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	api := r.Group("/api")
	api.Use(middlewares.RateLimit(middlewares.NewIPRateLimiter(cfg.RateLimit.Max, cfg.RateLimit.Window)))
	api.Use(middlewares.BodyLimit(cfg.BodyLimit))

	directory := users.NewDirectory(deps.DM)
	handlers.RegisterHealth(api, deps.DM)
	auth.Register(api, directory, deps.Secret, cfg.TokenTTL)

	authed := api.Group("", middlewares.Authentication(deps.Secret))
	sheethandler.Register(authed,
		deps.DM,
		timesheet.NewService(deps.DM, timesheet.NewValidator(), deps.Notifier),
		timesheet.NewReportGenerator(deps.DM, deps.Archive),
	)

	admin := authed.Group("", middlewares.AdminRequired())
	userhandler.Register(admin, directory)

	return r
}
