package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dinex/webclock/internal/ledger"
	"github.com/dinex/webclock/internal/model"
	"github.com/dinex/webclock/internal/report"
	"github.com/dinex/webclock/internal/repository"
)

// ReportHandler serves the read-only views over the ledger and the user
// directory.
type ReportHandler struct {
	Ledger *ledger.Store
	Users  *repository.UserStore
}

func NewReportHandler(store *ledger.Store, users *repository.UserStore) *ReportHandler {
	return &ReportHandler{Ledger: store, Users: users}
}

// employeePart is the sanitized directory entry; the credential never leaves
// the store.
type employeePart struct {
	Nombre        string  `json:"nombre"`
	Usuario       string  `json:"usuario"`
	Departamento  string  `json:"departamento"`
	Activo        bool    `json:"activo"`
	Estado        string  `json:"estado"`
	FechaCreacion string  `json:"fecha_creacion"`
	FechaBaja     *string `json:"fecha_baja"`
}

func toEmployeePart(u model.UserAccount) employeePart {
	return employeePart{
		Nombre:        u.Nombre,
		Usuario:       u.Usuario,
		Departamento:  u.Departamento,
		Activo:        u.Activo,
		Estado:        u.Estado,
		FechaCreacion: u.FechaCreacion,
		FechaBaja:     u.FechaBaja,
	}
}

// ForUser handles GET /report?usuario=: the full history of one active user.
// Unknown or deactivated users yield an empty array, not an error.
func (h *ReportHandler) ForUser(c echo.Context) error {
	usuario := c.QueryParam("usuario")
	recs := report.UserHistory(h.Users.All(), h.Ledger.LoadAll(), usuario)
	return c.JSON(http.StatusOK, recs)
}

// All handles GET /report-all: every record of currently active users, sorted
// by (usuario, fecha, hora).
func (h *ReportHandler) All(c echo.Context) error {
	recs := report.AllActive(h.Users.All(), h.Ledger.LoadAll())
	return c.JSON(http.StatusOK, recs)
}

// Employees handles GET /employees: the active user directory without
// credentials.
func (h *ReportHandler) Employees(c echo.Context) error {
	out := []employeePart{}
	for _, u := range h.Users.Active() {
		out = append(out, toEmployeePart(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Usernames handles GET /usernames: a username → display name map covering
// every account, active or not, so old reports still resolve names.
func (h *ReportHandler) Usernames(c echo.Context) error {
	return c.JSON(http.StatusOK, report.NameIndex(h.Users.All()))
}
