package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinex/webclock/internal/model"
)

// Lowest bcrypt cost keeps the suite fast; the hash format is identical.
func newTestUserStore(t *testing.T) *UserStore {
	t.Helper()
	return NewUserStore(filepath.Join(t.TempDir(), "users.json"), 4)
}

func TestCreate_And_Get(t *testing.T) {
	t.Parallel()

	s := newTestUserStore(t)
	require.NoError(t, s.Create("Alice A", "alice", "secreto", "Ventas", model.RolEmpleado))

	u, ok := s.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "Alice A", u.Nombre)
	assert.Equal(t, "Ventas", u.Departamento)
	assert.True(t, u.Activo)
	assert.Equal(t, model.EstadoActivo, u.Estado)
	assert.NotEqual(t, "secreto", u.Contrasena)
	assert.NotEmpty(t, u.FechaCreacion)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	t.Parallel()

	s := newTestUserStore(t)
	require.NoError(t, s.Create("Alice A", "alice", "secreto", "Ventas", model.RolEmpleado))
	assert.ErrorIs(t, s.Create("Otra", "alice", "x", "RRHH", model.RolEmpleado), ErrUserExists)
}

func TestCreate_EmptyUsername(t *testing.T) {
	t.Parallel()

	s := newTestUserStore(t)
	assert.Error(t, s.Create("X", "   ", "secreto", "", model.RolEmpleado))
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	s := newTestUserStore(t)
	require.NoError(t, s.Create("Alice A", "alice", "secreto", "Ventas", model.RolEmpleado))

	u, ok := s.Authenticate("alice", "secreto")
	require.True(t, ok)
	assert.Equal(t, "alice", u.Usuario)

	_, ok = s.Authenticate("alice", "mal")
	assert.False(t, ok)
	_, ok = s.Authenticate("nobody", "secreto")
	assert.False(t, ok)
}

func TestAuthenticate_LegacyPlainTextEntry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")
	raw, err := json.Marshal([]model.UserAccount{{
		Nombre: "Legacy", Usuario: "legacy", Contrasena: "1234",
		Activo: true, Estado: model.EstadoActivo,
	}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	s := NewUserStore(path, 4)
	_, ok := s.Authenticate("legacy", "1234")
	assert.True(t, ok)
	_, ok = s.Authenticate("legacy", "0000")
	assert.False(t, ok)
}

func TestDeactivate_BlocksLogin(t *testing.T) {
	t.Parallel()

	s := newTestUserStore(t)
	require.NoError(t, s.Create("Alice A", "alice", "secreto", "Ventas", model.RolEmpleado))
	require.NoError(t, s.Deactivate("alice"))

	u, ok := s.Get("alice")
	require.True(t, ok)
	assert.False(t, u.Activo)
	assert.Equal(t, model.EstadoActivo, u.Estado)

	_, ok = s.Authenticate("alice", "secreto")
	assert.False(t, ok)
}

func TestSoftDelete_KeepsEntry(t *testing.T) {
	t.Parallel()

	s := newTestUserStore(t)
	require.NoError(t, s.Create("Alice A", "alice", "secreto", "Ventas", model.RolEmpleado))
	require.NoError(t, s.SoftDelete("alice"))

	u, ok := s.Get("alice")
	require.True(t, ok)
	assert.False(t, u.Activo)
	assert.Equal(t, model.EstadoEliminado, u.Estado)
	require.NotNil(t, u.FechaBaja)
	assert.Len(t, s.All(), 1)
}

func TestReactivate(t *testing.T) {
	t.Parallel()

	s := newTestUserStore(t)
	require.NoError(t, s.Create("Alice A", "alice", "secreto", "Ventas", model.RolEmpleado))
	require.NoError(t, s.SoftDelete("alice"))
	require.NoError(t, s.Reactivate("alice"))

	u, ok := s.Get("alice")
	require.True(t, ok)
	assert.True(t, u.Activo)
	assert.Equal(t, model.EstadoActivo, u.Estado)
	assert.Nil(t, u.FechaBaja)

	_, ok = s.Authenticate("alice", "secreto")
	assert.True(t, ok)
}

func TestResetPassword_UpgradesLegacyHash(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")
	raw, err := json.Marshal([]model.UserAccount{{
		Nombre: "Legacy", Usuario: "legacy", Contrasena: "1234",
		Activo: true, Estado: model.EstadoActivo,
	}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	s := NewUserStore(path, 4)
	require.NoError(t, s.ResetPassword("legacy", "nueva"))

	u, ok := s.Get("legacy")
	require.True(t, ok)
	assert.True(t, len(u.Contrasena) > 4 && u.Contrasena[:2] == "$2")

	_, ok = s.Authenticate("legacy", "nueva")
	assert.True(t, ok)
	_, ok = s.Authenticate("legacy", "1234")
	assert.False(t, ok)
}

func TestLifecycle_UnknownUser(t *testing.T) {
	t.Parallel()

	s := newTestUserStore(t)
	assert.ErrorIs(t, s.Deactivate("nobody"), ErrUserNotFound)
	assert.ErrorIs(t, s.SoftDelete("nobody"), ErrUserNotFound)
	assert.ErrorIs(t, s.Reactivate("nobody"), ErrUserNotFound)
	assert.ErrorIs(t, s.ResetPassword("nobody", "x"), ErrUserNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	t.Parallel()

	s := newTestUserStore(t)
	require.NoError(t, s.EnsureAdmin("root", "clave"))

	u, ok := s.Authenticate("root", "clave")
	require.True(t, ok)
	assert.True(t, u.IsAdmin())

	// Second call is a no-op even with a different credential.
	require.NoError(t, s.EnsureAdmin("root", "otra"))
	_, ok = s.Authenticate("root", "clave")
	assert.True(t, ok)
	assert.Len(t, s.All(), 1)
}
