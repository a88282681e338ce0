package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dinex/webclock/internal/ledger"
	"github.com/dinex/webclock/internal/model"
	"github.com/dinex/webclock/internal/workflow"
)

// PunchHandler bundles everything the punch endpoints need: the workflow for
// employee punches and the ledger for the admin correction paths.
type PunchHandler struct {
	Workflow *workflow.Service
	Ledger   *ledger.Store
	Mirror   workflow.Mirror // nil when no mirror database is configured
}

func NewPunchHandler(wf *workflow.Service, store *ledger.Store, mirror workflow.Mirror) *PunchHandler {
	return &PunchHandler{Workflow: wf, Ledger: store, Mirror: mirror}
}

// ----- DTOs -----

type locationPart struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Accuracy *float64 `json:"accuracy"`
}

type punchReq struct {
	Usuario      string       `json:"usuario"`
	Tipo         string       `json:"tipo"`
	Departamento string       `json:"departamento"`
	Location     locationPart `json:"location"`
}

type punchResp struct {
	Success        bool                   `json:"success"`
	Mensaje        string                 `json:"mensaje"`
	InsideGeofence *bool                  `json:"insideGeofence,omitempty"`
	Geofence       *workflow.GeofenceInfo `json:"geofence,omitempty"`
}

type indexReq struct {
	Usuario string `json:"usuario"`
	Index   *int   `json:"index"`
}

type correctReq struct {
	Usuario string `json:"usuario"`
	Index   *int   `json:"index"`
	Tipo    string `json:"tipo"`
	Fecha   string `json:"fecha"`
	Hora    string `json:"hora"`
}

type manualReq struct {
	Usuario      string `json:"usuario"`
	Departamento string `json:"departamento"`
	Tipo         string `json:"tipo"`
	Fecha        string `json:"fecha"`
	Hora         string `json:"hora"`
}

// Punch handles POST /punch: one clock event through the workflow state
// machine. Missing input is a protocol failure; duplicate-type and daily-cap
// rejections come back as 200 with success:false, which the front-end shows
// verbatim to the employee.
func (h *PunchHandler) Punch(c echo.Context) error {
	var req punchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, punchResp{Success: false, Mensaje: "Cuerpo de solicitud inválido."})
	}
	if req.Usuario == "" || req.Tipo == "" {
		return c.JSON(http.StatusBadRequest, punchResp{Success: false, Mensaje: "Faltan datos del marcaje."})
	}

	res := h.Workflow.Punch(c.Request().Context(), workflow.Request{
		Usuario:      req.Usuario,
		Tipo:         req.Tipo,
		Departamento: req.Departamento,
		IP:           c.RealIP(),
		UserAgent:    c.Request().UserAgent(),
		Lat:          req.Location.Lat,
		Lng:          req.Location.Lng,
		Accuracy:     req.Location.Accuracy,
	})

	switch res.Outcome {
	case workflow.OutcomeMissingCoordinates:
		return c.JSON(http.StatusBadRequest, punchResp{Success: false, Mensaje: res.Mensaje})
	case workflow.OutcomeOutsideZone:
		return c.JSON(http.StatusForbidden, punchResp{Success: false, Mensaje: res.Mensaje})
	case workflow.OutcomeDuplicate, workflow.OutcomeCapReached:
		return c.JSON(http.StatusOK, punchResp{Success: false, Mensaje: res.Mensaje})
	case workflow.OutcomeStorageError:
		return c.JSON(http.StatusInternalServerError, punchResp{Success: false, Mensaje: res.Mensaje})
	}
	return c.JSON(http.StatusOK, punchResp{
		Success:        true,
		Mensaje:        res.Mensaje,
		InsideGeofence: res.InsideGeofence,
		Geofence:       res.Geofence,
	})
}

// Delete handles DELETE /punch: removes the index-th record of a user, where
// the index is positional within that user's own records.
func (h *PunchHandler) Delete(c echo.Context) error {
	var req indexReq
	if err := c.Bind(&req); err != nil || req.Usuario == "" || req.Index == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false})
	}
	if err := h.Ledger.RemoveAt(req.Usuario, *req.Index); err != nil {
		if !errors.Is(err, ledger.ErrInvalidIndex) {
			log.Printf("punch: delete failed: %v", err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Clear handles DELETE /punches: wipes the whole ledger and, best-effort, the
// mirror projection.
func (h *PunchHandler) Clear(c echo.Context) error {
	if err := h.Ledger.Clear(); err != nil {
		log.Printf("punch: clear failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"mensaje": "No se pudo borrar marcajes.",
		})
	}
	if h.Mirror != nil {
		if mc, ok := h.Mirror.(interface{ Clear(ctx context.Context) error }); ok {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mc.Clear(ctx); err != nil {
				log.Printf("mirror: clear failed: %v", err)
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"mensaje": "Todos los marcajes han sido borrados.",
	})
}

// Correct handles POST /correct-punch: an admin edit of type/date/time on the
// index-th record of a user. An unresolvable index reports success:false.
func (h *PunchHandler) Correct(c echo.Context) error {
	var req correctReq
	if err := c.Bind(&req); err != nil || req.Usuario == "" || req.Index == nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false})
	}
	if err := h.Ledger.ReplaceAt(req.Usuario, *req.Index, req.Tipo, req.Fecha, req.Hora); err != nil {
		if !errors.Is(err, ledger.ErrInvalidIndex) {
			log.Printf("punch: correct failed: %v", err)
		}
		return c.JSON(http.StatusOK, echo.Map{"success": false})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Manual handles POST /manual-punch: an admin-entered record written directly
// to the ledger, bypassing every workflow rule. No geolocation or geofence
// annotation is attached; the admin is vouching for the entry, not the
// browser.
func (h *PunchHandler) Manual(c echo.Context) error {
	var req manualReq
	if err := c.Bind(&req); err != nil || req.Usuario == "" || req.Tipo == "" || req.Fecha == "" || req.Hora == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "mensaje": "Faltan datos del marcaje."})
	}
	rec, err := h.Ledger.Append(model.PunchRecord{
		Usuario:      req.Usuario,
		Tipo:         req.Tipo,
		Fecha:        req.Fecha,
		Hora:         req.Hora,
		IP:           c.RealIP(),
		Departamento: req.Departamento,
	})
	if err != nil {
		log.Printf("punch: manual append failed: %v", err)
		return c.JSON(http.StatusOK, echo.Map{"success": false, "mensaje": "Error al guardar el marcaje."})
	}
	h.Workflow.Project(rec)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "mensaje": "Registro agregado correctamente."})
}
