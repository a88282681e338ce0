package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinex/webclock/internal/ledger"
	"github.com/dinex/webclock/internal/repository"
	"github.com/dinex/webclock/internal/status"
	"github.com/dinex/webclock/internal/workflow"
)

// StatusHandler serves the live dashboard snapshot.
type StatusHandler struct {
	Ledger   *ledger.Store
	Users    *repository.UserStore
	Workflow *workflow.Service // supplies "today" in the punch time zone
}

func NewStatusHandler(store *ledger.Store, users *repository.UserStore, wf *workflow.Service) *StatusHandler {
	return &StatusHandler{Ledger: store, Users: users, Workflow: wf}
}

// Today handles GET /status-today.
func (h *StatusHandler) Today(c echo.Context) error {
	sum := status.Summarize(h.Users.Active(), h.Ledger.LoadAll(), h.Workflow.Today())
	return c.JSON(http.StatusOK, sum)
}
