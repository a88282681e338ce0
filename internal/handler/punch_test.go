package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinex/webclock/internal/geofence"
	"github.com/dinex/webclock/internal/ledger"
	"github.com/dinex/webclock/internal/model"
	"github.com/dinex/webclock/internal/workflow"
)

func newPunchHandler(t *testing.T) (*PunchHandler, *ledger.Store) {
	t.Helper()
	store := ledger.NewStore(filepath.Join(t.TempDir(), "marcajes.json"))
	zones := geofence.New([]geofence.Zone{
		{ID: "TX-116", Name: "Sede 1 - Quickstop", Lat: 29.71694, Lng: -95.48804, RadiusMeters: 150},
	})
	wf := workflow.New(zones, store, nil, nil, time.UTC, false)
	wf.SetNow(func() time.Time { return time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC) })
	return NewPunchHandler(wf, store, nil), store
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPunch_Success(t *testing.T) {
	t.Parallel()

	h, store := newPunchHandler(t)
	rec := doJSON(t, h.Punch, http.MethodPost, "/punch", `{
		"usuario":"alice","tipo":"entrada","departamento":"Ventas",
		"location":{"lat":29.71694,"lng":-95.48804,"accuracy":10}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Marcaje de entrada registrado a las 08:00:00.", body["mensaje"])
	assert.Equal(t, true, body["insideGeofence"])
	geo, ok := body["geofence"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "TX-116", geo["id"])

	require.Len(t, store.LoadAll(), 1)
}

func TestPunch_MissingCoordinatesIs400(t *testing.T) {
	t.Parallel()

	h, _ := newPunchHandler(t)
	rec := doJSON(t, h.Punch, http.MethodPost, "/punch",
		`{"usuario":"alice","tipo":"entrada","departamento":"Ventas","location":{}}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["mensaje"], "Faltan coordenadas")
}

func TestPunch_MissingFieldsIs400(t *testing.T) {
	t.Parallel()

	h, _ := newPunchHandler(t)
	rec := doJSON(t, h.Punch, http.MethodPost, "/punch", `{"usuario":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPunch_DuplicateIs200SuccessFalse(t *testing.T) {
	t.Parallel()

	h, _ := newPunchHandler(t)
	body := `{"usuario":"alice","tipo":"entrada","departamento":"Ventas",
		"location":{"lat":29.71694,"lng":-95.48804,"accuracy":10}}`

	first := doJSON(t, h.Punch, http.MethodPost, "/punch", body)
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, h.Punch, http.MethodPost, "/punch", body)
	require.Equal(t, http.StatusOK, second.Code)
	resp := decode(t, second)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, `Ya registraste una marcación de tipo "entrada" hoy. No puedes repetirla.`, resp["mensaje"])
}

func TestDelete_RemovesUserScopedIndex(t *testing.T) {
	t.Parallel()

	h, store := newPunchHandler(t)
	for _, r := range []model.PunchRecord{
		{Usuario: "alice", Tipo: model.TipoEntrada, Fecha: "2024-01-10", Hora: "08:00:00"},
		{Usuario: "bob", Tipo: model.TipoEntrada, Fecha: "2024-01-10", Hora: "09:00:00"},
	} {
		_, err := store.Append(r)
		require.NoError(t, err)
	}

	rec := doJSON(t, h.Delete, http.MethodDelete, "/punch", `{"usuario":"alice","index":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	all := store.LoadAll()
	require.Len(t, all, 1)
	assert.Equal(t, "bob", all[0].Usuario)
}

func TestDelete_InvalidIndex(t *testing.T) {
	t.Parallel()

	h, _ := newPunchHandler(t)
	rec := doJSON(t, h.Delete, http.MethodDelete, "/punch", `{"usuario":"alice","index":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])

	rec = doJSON(t, h.Delete, http.MethodDelete, "/punch", `{"usuario":"alice"}`)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestClear_WipesLedger(t *testing.T) {
	t.Parallel()

	h, store := newPunchHandler(t)
	_, err := store.Append(model.PunchRecord{Usuario: "alice", Tipo: model.TipoEntrada, Fecha: "2024-01-10", Hora: "08:00:00"})
	require.NoError(t, err)

	rec := doJSON(t, h.Clear, http.MethodDelete, "/punches", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Todos los marcajes han sido borrados.", body["mensaje"])
	assert.Empty(t, store.LoadAll())
}

func TestCorrect_EditsRecord(t *testing.T) {
	t.Parallel()

	h, store := newPunchHandler(t)
	_, err := store.Append(model.PunchRecord{Usuario: "alice", Tipo: model.TipoEntrada, Fecha: "2024-01-10", Hora: "08:00:00"})
	require.NoError(t, err)

	rec := doJSON(t, h.Correct, http.MethodPost, "/correct-punch",
		`{"usuario":"alice","index":0,"tipo":"salida","fecha":"2024-01-10","hora":"17:30:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	all := store.LoadAll()
	require.Len(t, all, 1)
	assert.Equal(t, model.TipoSalida, all[0].Tipo)
	assert.Equal(t, "17:30:00", all[0].Hora)
}

func TestManual_AppendsWithoutGeofence(t *testing.T) {
	t.Parallel()

	h, store := newPunchHandler(t)
	rec := doJSON(t, h.Manual, http.MethodPost, "/manual-punch",
		`{"usuario":"alice","departamento":"Ventas","tipo":"entrada","fecha":"2024-01-08","hora":"08:15:00"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Registro agregado correctamente.", body["mensaje"])

	all := store.LoadAll()
	require.Len(t, all, 1)
	assert.Equal(t, "2024-01-08", all[0].Fecha)
	assert.Nil(t, all[0].Lat)
	assert.Nil(t, all[0].InsideGeofence)
	assert.NotEmpty(t, all[0].ID)
}

func TestManual_MissingFields(t *testing.T) {
	t.Parallel()

	h, _ := newPunchHandler(t)
	rec := doJSON(t, h.Manual, http.MethodPost, "/manual-punch", `{"usuario":"alice","tipo":"entrada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
