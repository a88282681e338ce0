package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/dinex/webclock/internal/config"
	"github.com/dinex/webclock/internal/handler"
	"github.com/dinex/webclock/internal/middleware"
	"github.com/dinex/webclock/internal/model"
)

// Handlers groups every handler the router wires up.
type Handlers struct {
	Auth   *handler.AuthHandler
	Punch  *handler.PunchHandler
	Report *handler.ReportHandler
	Status *handler.StatusHandler
	Users  *handler.UserHandler
	Backup *handler.BackupHandler
}

// Register wires all routes. Punch submission, logins, reports and the status
// snapshot stay public so the kiosk front-end keeps working unchanged; every
// mutating admin operation sits behind a JWT with the ADMIN role. Redis (when
// reachable) adds a token bucket on the punch endpoint and a short-lived
// response cache on the directory reads.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.Use(middleware.BlockDataFiles)

	// Health / ping
	e.GET("/health", handler.Health)
	e.GET("/healthz", handler.Healthz)
	e.GET("/api/ping", handler.Ping)

	// Auth
	e.POST("/login", h.Auth.Login)
	e.POST("/admin-login", h.Auth.AdminLogin)

	// Punch submission, rate limited per kiosk IP.
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	e.POST("/punch", h.Punch.Punch, rl)

	// Read-only views
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/report", h.Report.ForUser)
	e.GET("/report-all", h.Report.All)
	e.GET("/employees", h.Report.Employees, cacheMW)
	e.GET("/usernames", h.Report.Usernames, cacheMW)
	e.GET("/status-today", h.Status.Today)

	// Admin operations
	admin := e.Group("")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RolAdmin))
	admin.DELETE("/punch", h.Punch.Delete)
	admin.DELETE("/punches", h.Punch.Clear)
	admin.POST("/correct-punch", h.Punch.Correct)
	admin.POST("/manual-punch", h.Punch.Manual)
	admin.POST("/create-user", h.Users.Create)
	admin.POST("/deactivate-user", h.Users.Deactivate)
	admin.POST("/delete-user", h.Users.Delete)
	admin.POST("/activate-user", h.Users.Activate)
	admin.POST("/reset-password", h.Users.ResetPassword)
	admin.GET("/backup-now", h.Backup.Now)

	// Front-end assets; BlockDataFiles keeps the JSON stores unreachable.
	e.Static("/", "public")
}
