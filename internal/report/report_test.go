package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinex/webclock/internal/model"
)

var accounts = []model.UserAccount{
	{Nombre: "Alice A", Usuario: "alice", Activo: true},
	{Nombre: "Bob B", Usuario: "bob", Activo: false},
	{Nombre: "Carol C", Usuario: "carol", Activo: true},
}

var records = []model.PunchRecord{
	{Usuario: "carol", Tipo: model.TipoEntrada, Fecha: "2024-01-10", Hora: "08:05:00"},
	{Usuario: "alice", Tipo: model.TipoEntrada, Fecha: "2024-01-10", Hora: "08:00:00"},
	{Usuario: "bob", Tipo: model.TipoEntrada, Fecha: "2024-01-10", Hora: "08:10:00"},
	{Usuario: "alice", Tipo: model.TipoSalida, Fecha: "2024-01-09", Hora: "17:00:00"},
}

func TestUserHistory(t *testing.T) {
	t.Parallel()

	hist := UserHistory(accounts, records, "alice")
	require.Len(t, hist, 2)
	for _, r := range hist {
		assert.Equal(t, "alice", r.Usuario)
	}
}

func TestUserHistory_InactiveUserIsHidden(t *testing.T) {
	t.Parallel()

	hist := UserHistory(accounts, records, "bob")
	require.NotNil(t, hist)
	assert.Empty(t, hist)
}

func TestUserHistory_UnknownUser(t *testing.T) {
	t.Parallel()

	hist := UserHistory(accounts, records, "nobody")
	require.NotNil(t, hist)
	assert.Empty(t, hist)
}

func TestAllActive_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	out := AllActive(accounts, records)
	require.Len(t, out, 3)
	for _, r := range out {
		assert.NotEqual(t, "bob", r.Usuario)
	}
	// Sorted by usuario, then fecha, then hora.
	assert.Equal(t, "2024-01-09", out[0].Fecha)
	assert.Equal(t, "alice", out[0].Usuario)
	assert.Equal(t, "2024-01-10", out[1].Fecha)
	assert.Equal(t, "carol", out[2].Usuario)
}

func TestNameIndex_IncludesInactive(t *testing.T) {
	t.Parallel()

	idx := NameIndex(accounts)
	assert.Equal(t, "Alice A", idx["alice"])
	assert.Equal(t, "Bob B", idx["bob"])
	assert.Len(t, idx, 3)
}
