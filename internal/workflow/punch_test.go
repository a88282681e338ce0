package workflow

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinex/webclock/internal/geofence"
	"github.com/dinex/webclock/internal/ledger"
	"github.com/dinex/webclock/internal/model"
)

var testZones = []geofence.Zone{
	{ID: "TX-116", Name: "Sede 1 - Quickstop", Lat: 29.71694, Lng: -95.48804, RadiusMeters: 150},
}

// fixedNow is 2024-01-10 08:00:00 in the service time zone.
var fixedNow = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, strict bool) (*Service, *ledger.Store) {
	t.Helper()
	store := ledger.NewStore(filepath.Join(t.TempDir(), "marcajes.json"))
	svc := New(geofence.New(testZones), store, nil, nil, time.UTC, strict)
	svc.SetNow(func() time.Time { return fixedNow })
	return svc, store
}

func f64(v float64) *float64 { return &v }

func insideReq(usuario, tipo string) Request {
	return Request{
		Usuario:      usuario,
		Tipo:         tipo,
		Departamento: "Ventas",
		IP:           "10.0.0.1",
		UserAgent:    "test-agent",
		Lat:          f64(29.71694),
		Lng:          f64(-95.48804),
		Accuracy:     f64(12.5),
	}
}

func TestPunch_SuccessInsideZone(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, false)
	res := svc.Punch(context.Background(), insideReq("alice", model.TipoEntrada))

	require.Equal(t, OutcomeOK, res.Outcome)
	require.NotNil(t, res.InsideGeofence)
	assert.True(t, *res.InsideGeofence)
	require.NotNil(t, res.Geofence)
	assert.Equal(t, "TX-116", res.Geofence.ID)
	assert.Equal(t, "Marcaje de entrada registrado a las 08:00:00.", res.Mensaje)

	all := store.LoadAll()
	require.Len(t, all, 1)
	r := all[0]
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "alice", r.Usuario)
	assert.Equal(t, "2024-01-10", r.Fecha)
	assert.Equal(t, "08:00:00", r.Hora)
	require.NotNil(t, r.InsideGeofence)
	assert.True(t, *r.InsideGeofence)
	require.NotNil(t, r.GeofenceID)
	assert.Equal(t, "TX-116", *r.GeofenceID)
	require.NotNil(t, r.DistanceToCenterM)
	assert.LessOrEqual(t, *r.DistanceToCenterM, 150)
	assert.False(t, r.Auto)
}

func TestPunch_MissingCoordinates(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, false)
	req := insideReq("alice", model.TipoEntrada)
	req.Lat = nil

	res := svc.Punch(context.Background(), req)
	assert.Equal(t, OutcomeMissingCoordinates, res.Outcome)
	assert.Contains(t, res.Mensaje, "Faltan coordenadas")
	assert.Empty(t, store.LoadAll())
}

func TestPunch_StrictModeRejectsOutside(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, true)
	req := insideReq("alice", model.TipoEntrada)
	req.Lat = f64(29.80694) // ~10 km away

	res := svc.Punch(context.Background(), req)
	assert.Equal(t, OutcomeOutsideZone, res.Outcome)
	assert.Equal(t, "Marcaje rechazado: estás fuera del área permitida.", res.Mensaje)
	assert.Empty(t, store.LoadAll())
}

func TestPunch_PermissiveModeAnnotatesOutside(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, false)
	req := insideReq("alice", model.TipoEntrada)
	req.Lat = f64(29.80694)

	res := svc.Punch(context.Background(), req)
	require.Equal(t, OutcomeOK, res.Outcome)
	require.NotNil(t, res.InsideGeofence)
	assert.False(t, *res.InsideGeofence)
	assert.Nil(t, res.Geofence)
	assert.Contains(t, res.Mensaje, "(fuera de geocerca)")

	all := store.LoadAll()
	require.Len(t, all, 1)
	assert.Nil(t, all[0].GeofenceID)
	assert.Nil(t, all[0].DistanceToCenterM)
}

func TestPunch_DuplicateTypeRejected(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, false)
	first := svc.Punch(context.Background(), insideReq("alice", model.TipoEntrada))
	require.Equal(t, OutcomeOK, first.Outcome)

	second := svc.Punch(context.Background(), insideReq("alice", model.TipoEntrada))
	assert.Equal(t, OutcomeDuplicate, second.Outcome)
	assert.Equal(t, `Ya registraste una marcación de tipo "entrada" hoy. No puedes repetirla.`, second.Mensaje)
	assert.Len(t, store.LoadAll(), 1)
}

func TestPunch_DailyCap(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, false)
	for _, tipo := range []string{model.TipoEntrada, model.TipoSalidaLunch, model.TipoEntradaLunch, model.TipoSalida} {
		res := svc.Punch(context.Background(), insideReq("alice", tipo))
		require.Equal(t, OutcomeOK, res.Outcome)
	}

	// The type set is extensible; a fifth distinct type passes the duplicate
	// guard and must hit the cap.
	res := svc.Punch(context.Background(), insideReq("alice", "turno_extra"))
	assert.Equal(t, OutcomeCapReached, res.Outcome)
	assert.Equal(t, "Su turno ya terminó.", res.Mensaje)
	assert.Len(t, store.LoadAll(), 4)
}

func TestPunch_AutoClosesYesterday(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, false)
	_, err := store.Append(model.PunchRecord{
		Usuario: "alice", Tipo: model.TipoEntrada, Fecha: "2024-01-09", Hora: "08:05:00",
	})
	require.NoError(t, err)

	res := svc.Punch(context.Background(), insideReq("alice", model.TipoEntrada))
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.Contains(t, res.Mensaje, "salida automática a las 20:00")
	assert.Contains(t, res.Mensaje, "Marcaje de entrada registrado a las 08:00:00.")

	all := store.LoadAll()
	require.Len(t, all, 3)
	auto := all[1]
	assert.Equal(t, model.TipoSalida, auto.Tipo)
	assert.Equal(t, "2024-01-09", auto.Fecha)
	assert.Equal(t, "20:00:00", auto.Hora)
	assert.True(t, auto.Auto)
	assert.Nil(t, auto.Lat)
	assert.Nil(t, auto.InsideGeofence)
}

func TestPunch_AutoCloseFiresAtMostOnce(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, false)
	_, err := store.Append(model.PunchRecord{
		Usuario: "alice", Tipo: model.TipoEntrada, Fecha: "2024-01-09", Hora: "08:05:00",
	})
	require.NoError(t, err)

	require.Equal(t, OutcomeOK, svc.Punch(context.Background(), insideReq("alice", model.TipoEntrada)).Outcome)
	require.Equal(t, OutcomeOK, svc.Punch(context.Background(), insideReq("alice", model.TipoSalidaLunch)).Outcome)

	autos := 0
	for _, r := range store.LoadAll() {
		if r.Auto && r.Fecha == "2024-01-09" {
			autos++
		}
	}
	assert.Equal(t, 1, autos)
}

func TestPunch_NoAutoCloseWhenYesterdayClosed(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, false)
	for _, r := range []model.PunchRecord{
		{Usuario: "alice", Tipo: model.TipoEntrada, Fecha: "2024-01-09", Hora: "08:05:00"},
		{Usuario: "alice", Tipo: model.TipoSalida, Fecha: "2024-01-09", Hora: "17:00:00"},
	} {
		_, err := store.Append(r)
		require.NoError(t, err)
	}

	res := svc.Punch(context.Background(), insideReq("alice", model.TipoEntrada))
	require.Equal(t, OutcomeOK, res.Outcome)
	assert.NotContains(t, res.Mensaje, "automática")
	assert.Len(t, store.LoadAll(), 3)
}

func TestPunch_AutoClosePersistsEvenWhenTodayRejected(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, false)
	for _, r := range []model.PunchRecord{
		{Usuario: "alice", Tipo: model.TipoEntrada, Fecha: "2024-01-09", Hora: "08:05:00"},
		{Usuario: "alice", Tipo: model.TipoEntrada, Fecha: "2024-01-10", Hora: "07:00:00"},
	} {
		_, err := store.Append(r)
		require.NoError(t, err)
	}

	res := svc.Punch(context.Background(), insideReq("alice", model.TipoEntrada))
	assert.Equal(t, OutcomeDuplicate, res.Outcome)

	// The synthetic salida for yesterday was written before the rejection.
	all := store.LoadAll()
	require.Len(t, all, 3)
	assert.True(t, all[2].Auto)
	assert.Equal(t, "2024-01-09", all[2].Fecha)
}

func TestToday_UsesConfiguredTimeZone(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, false)
	assert.Equal(t, "2024-01-10", svc.Today())
}
