// Package workflow implements the clock-in/out state machine. One request
// walks a fixed sequence of gates: coordinate validation, geofence policy,
// auto-close of yesterday's open shift, duplicate-type guard, daily cap, and
// finally the append with full geofence annotation. The whole evaluation runs
// inside a single ledger critical section so concurrent punches cannot lose
// records.
package workflow

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/dinex/webclock/internal/geofence"
	"github.com/dinex/webclock/internal/ledger"
	"github.com/dinex/webclock/internal/model"
	"github.com/dinex/webclock/internal/queue"
)

// Outcome classifies the result of a punch request. Validation and geofence
// rejections are protocol-level failures; duplicate and cap rejections are
// business outcomes delivered on a successful HTTP response.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeMissingCoordinates
	OutcomeOutsideZone
	OutcomeDuplicate
	OutcomeCapReached
	OutcomeStorageError
)

// maxPunchesPerDay caps how many records one user may accumulate per date.
const maxPunchesPerDay = 4

// autoCloseHora is the synthetic clock-out time stamped on auto-closed shifts.
const autoCloseHora = "20:00:00"

const (
	msgMissingCoordinates = "Faltan coordenadas. Debes permitir la ubicación para marcar."
	msgOutsideZone        = "Marcaje rechazado: estás fuera del área permitida."
	msgCapReached         = "Su turno ya terminó."
	msgStorageError       = "Error interno en marcaje."
	msgAutoCloseWarning   = "⚠️ Se detectó que ayer no se marcó salida. Se registró una salida automática a las 20:00."
	msgOutsideSuffix      = " (fuera de geocerca)"
)

// Request is one clock event submitted by an employee.
type Request struct {
	Usuario      string
	Tipo         string
	Departamento string
	IP           string
	UserAgent    string
	Lat          *float64
	Lng          *float64
	Accuracy     *float64
}

// GeofenceInfo is the zone annotation returned to the caller on success.
type GeofenceInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DistanceM int    `json:"distanceM"`
}

// Result carries the outcome, the human-readable message shown to the
// employee, and the geofence annotation when the punch was recorded.
type Result struct {
	Outcome        Outcome
	Mensaje        string
	InsideGeofence *bool
	Geofence       *GeofenceInfo
}

// Mirror is the write-only projection the workflow feeds best-effort.
type Mirror interface {
	Insert(ctx context.Context, rec model.PunchRecord) error
}

// PublishFunc delivers a punch event to the broker, best-effort.
type PublishFunc func(ctx context.Context, event queue.PunchRecordedEvent) error

// Service orchestrates punch requests against the ledger.
type Service struct {
	zones   *geofence.Evaluator
	ledger  *ledger.Store
	mirror  Mirror
	publish PublishFunc
	loc     *time.Location
	strict  bool
	now     func() time.Time
}

// New builds the workflow service. mirror and publish may be nil, which
// disables the respective projection.
func New(zones *geofence.Evaluator, store *ledger.Store, mirror Mirror, publish PublishFunc, loc *time.Location, strict bool) *Service {
	return &Service{
		zones:   zones,
		ledger:  store,
		mirror:  mirror,
		publish: publish,
		loc:     loc,
		strict:  strict,
		now:     time.Now,
	}
}

// SetNow overrides the clock. Tests only.
func (s *Service) SetNow(now func() time.Time) { s.now = now }

// Punch runs one clock event through the state machine. The ledger mutation
// is atomic; mirror writes and event publishing happen afterwards in the
// background and never affect the result.
func (s *Service) Punch(ctx context.Context, req Request) Result {
	if req.Lat == nil || req.Lng == nil {
		return Result{Outcome: OutcomeMissingCoordinates, Mensaje: msgMissingCoordinates}
	}

	gf := s.zones.Evaluate(*req.Lat, *req.Lng)
	if s.strict && !gf.Inside {
		return Result{Outcome: OutcomeOutsideZone, Mensaje: msgOutsideZone}
	}

	now := s.now().In(s.loc)
	hoy := now.Format("2006-01-02")
	hora := now.Format("15:04:05")
	ayer := now.AddDate(0, 0, -1).Format("2006-01-02")

	var res Result
	var committed []model.PunchRecord

	err := s.ledger.Update(func(all []model.PunchRecord) ([]model.PunchRecord, error) {
		// Auto-close yesterday's shift: an entrada without a matching salida
		// gets a synthetic 20:00 clock-out appended before today's request is
		// even considered. Fires at most once, only for yesterday.
		warning := ""
		if ledger.HasType(all, req.Usuario, ayer, model.TipoEntrada) &&
			!ledger.HasType(all, req.Usuario, ayer, model.TipoSalida) {
			auto := ledger.WithID(model.PunchRecord{
				Usuario:      req.Usuario,
				Tipo:         model.TipoSalida,
				Fecha:        ayer,
				Hora:         autoCloseHora,
				IP:           req.IP,
				Departamento: req.Departamento,
				Auto:         true,
				UserAgent:    optString(req.UserAgent),
			})
			all = append(all, auto)
			committed = append(committed, auto)
			warning = msgAutoCloseWarning
		}

		if ledger.HasType(all, req.Usuario, hoy, req.Tipo) {
			res = Result{
				Outcome: OutcomeDuplicate,
				Mensaje: fmt.Sprintf("Ya registraste una marcación de tipo %q hoy. No puedes repetirla.", req.Tipo),
			}
			return all, nil // keep the auto-close even when today's punch is rejected
		}
		if ledger.CountByUserAndDate(all, req.Usuario, hoy) >= maxPunchesPerDay {
			res = Result{Outcome: OutcomeCapReached, Mensaje: msgCapReached}
			return all, nil
		}

		rec := ledger.WithID(model.PunchRecord{
			Usuario:        req.Usuario,
			Tipo:           req.Tipo,
			Fecha:          hoy,
			Hora:           hora,
			IP:             req.IP,
			Departamento:   req.Departamento,
			Lat:            req.Lat,
			Lng:            req.Lng,
			Accuracy:       req.Accuracy,
			InsideGeofence: boolPtr(gf.Inside),
			UserAgent:      optString(req.UserAgent),
		})
		if gf.Inside {
			rec.GeofenceID = &gf.Zone.ID
			rec.GeofenceName = &gf.Zone.Name
			d := int(math.Round(gf.DistanceM))
			rec.DistanceToCenterM = &d
		}
		all = append(all, rec)
		committed = append(committed, rec)

		msg := fmt.Sprintf("Marcaje de %s registrado a las %s.", req.Tipo, hora)
		if warning != "" {
			msg = warning + "\n" + msg
		}
		suffix := ""
		if !s.strict && !gf.Inside {
			suffix = msgOutsideSuffix
		}
		res = Result{
			Outcome:        OutcomeOK,
			Mensaje:        msg + suffix,
			InsideGeofence: boolPtr(gf.Inside),
		}
		if gf.Inside {
			res.Geofence = &GeofenceInfo{
				ID:        gf.Zone.ID,
				Name:      gf.Zone.Name,
				DistanceM: int(math.Round(gf.DistanceM)),
			}
		}
		return all, nil
	})
	if err != nil {
		log.Printf("workflow: ledger update failed: %v", err)
		return Result{Outcome: OutcomeStorageError, Mensaje: msgStorageError}
	}

	for _, rec := range committed {
		s.Project(rec)
	}
	return res
}

// Project fans one committed record out to the mirror and the event queue.
// Both are fire-and-forget: failures are logged and never reach the caller.
func (s *Service) Project(rec model.PunchRecord) {
	if s.mirror != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.mirror.Insert(ctx, rec); err != nil {
				log.Printf("mirror: insert failed for %s/%s: %v", rec.Usuario, rec.Tipo, err)
			}
		}()
	}
	if s.publish != nil {
		ev := queue.PunchRecordedEvent{
			RecordID:       rec.ID,
			Usuario:        rec.Usuario,
			Tipo:           rec.Tipo,
			Fecha:          rec.Fecha,
			Hora:           rec.Hora,
			Departamento:   rec.Departamento,
			InsideGeofence: rec.InsideGeofence,
			GeofenceID:     rec.GeofenceID,
			Auto:           rec.Auto,
			RecordedAt:     time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = s.publish(ctx, ev) // publisher logs its own failures
		}()
	}
}

// Today returns the current date in the workflow's time zone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

func boolPtr(b bool) *bool { return &b }

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
