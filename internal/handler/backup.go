package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinex/webclock/internal/backup"
)

// BackupHandler triggers the same snapshot the nightly cron job runs.
type BackupHandler struct {
	Runner *backup.Runner
}

func NewBackupHandler(r *backup.Runner) *BackupHandler {
	return &BackupHandler{Runner: r}
}

// Now handles GET /backup-now.
func (h *BackupHandler) Now(c echo.Context) error {
	if err := h.Runner.Run(); err != nil {
		log.Printf("backup: manual snapshot failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"mensaje": "Error al crear el backup.",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"mensaje": "Backup creado correctamente.",
	})
}
