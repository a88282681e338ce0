package main // Entry point package

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/dinex/webclock/internal/backup"
	"github.com/dinex/webclock/internal/config"
	"github.com/dinex/webclock/internal/geofence"
	"github.com/dinex/webclock/internal/handler"
	"github.com/dinex/webclock/internal/ledger"
	"github.com/dinex/webclock/internal/mirror"
	"github.com/dinex/webclock/internal/queue"
	"github.com/dinex/webclock/internal/repository"
	"github.com/dinex/webclock/internal/router"
	"github.com/dinex/webclock/internal/workflow"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment
	cfg := config.Load()

	zones, err := cfg.LoadZones()
	if err != nil {
		log.Fatalf("zones: %v", err)
	}
	evaluator := geofence.New(zones)

	ledgerStore := ledger.NewStore(cfg.LedgerPath())
	userStore := repository.NewUserStore(cfg.UsersPath(), cfg.BcryptCost)
	if cfg.AdminUser != "" && cfg.AdminPass != "" {
		if err := userStore.EnsureAdmin(cfg.AdminUser, cfg.AdminPass); err != nil {
			log.Printf("users: admin seed failed: %v", err)
		}
	}

	// The mirror is a best-effort projection; when the database is not
	// configured or unreachable the service runs without it.
	var m workflow.Mirror
	var mirrorStore *mirror.Store
	if cfg.MirrorEnabled() {
		mirrorStore, err = mirror.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Printf("mirror: disabled, open failed: %v", err)
		} else {
			defer mirrorStore.Close()
			m = mirrorStore
		}
	} else {
		log.Printf("mirror: disabled, no DB_HOST configured")
	}

	var publish workflow.PublishFunc
	if cfg.QueueEnabled {
		publish = queue.PublishPunchRecorded
		go queue.StartPunchConsumer()
	}

	wf := workflow.New(evaluator, ledgerStore, m, publish, cfg.Location(), cfg.StrictGeofence)

	backupRunner := backup.NewRunner(cfg.LedgerPath(), cfg.UsersPath(), cfg.BackupsDir())
	cronRunner, err := backupRunner.Schedule(cfg.BackupSpec)
	if err != nil {
		log.Fatalf("backup: %v", err)
	}
	defer cronRunner.Stop()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, rate limiting and caching disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = echo.ExtractIPFromXFFHeader()
	// Convert any unhandled fault into a generic JSON error; nothing may
	// terminate the process or leak internals to the caller.
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		if code == http.StatusInternalServerError {
			log.Printf("unhandled error: %v", err)
		}
		_ = c.JSON(code, echo.Map{"ok": false, "error": http.StatusText(code)})
	}

	router.Register(e, cfg, router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, userStore),
		Punch:  handler.NewPunchHandler(wf, ledgerStore, m),
		Report: handler.NewReportHandler(ledgerStore, userStore),
		Status: handler.NewStatusHandler(ledgerStore, userStore, wf),
		Users:  handler.NewUserHandler(userStore),
		Backup: handler.NewBackupHandler(backupRunner),
	}, rdb)

	addr := ":" + cfg.Port
	log.Printf("webclock listening on %s (env=%s, strict_geofence=%t)", addr, cfg.Env, cfg.StrictGeofence)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
