// Package repository holds the user directory store. Accounts live in
// users.json as a flat array; "deleting" a user is a soft state transition so
// historical punch records keep resolving to a person.
package repository

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dinex/webclock/internal/model"
	"github.com/dinex/webclock/internal/utils"
)

var (
	// ErrUserExists is returned by Create when the username is taken.
	ErrUserExists = errors.New("usuario ya existe")
	// ErrUserNotFound is returned by lifecycle operations on unknown users.
	ErrUserNotFound = errors.New("usuario no encontrado")
)

// UserStore persists UserAccounts in a single JSON file with the same
// whole-file rewrite discipline as the punch ledger.
type UserStore struct {
	path string
	cost int
	mu   sync.RWMutex
}

// NewUserStore returns a store backed by path, hashing new credentials with
// the given bcrypt cost.
func NewUserStore(path string, bcryptCost int) *UserStore {
	return &UserStore{path: path, cost: bcryptCost}
}

// All returns every account in file order.
func (s *UserStore) All() []model.UserAccount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readAll()
}

// Active returns accounts whose activo flag is true.
func (s *UserStore) Active() []model.UserAccount {
	out := []model.UserAccount{}
	for _, u := range s.All() {
		if u.Activo {
			out = append(out, u)
		}
	}
	return out
}

// Get looks an account up by username.
func (s *UserStore) Get(usuario string) (model.UserAccount, bool) {
	for _, u := range s.All() {
		if u.Usuario == usuario {
			return u, true
		}
	}
	return model.UserAccount{}, false
}

// Create adds a new account with a bcrypt-hashed credential. Usernames are
// unique; a taken name returns ErrUserExists.
func (s *UserStore) Create(nombre, usuario, contrasena, departamento, rol string) error {
	usuario = strings.TrimSpace(usuario)
	if usuario == "" {
		return errors.New("usuario vacío")
	}
	hash, err := utils.HashPassword(contrasena, s.cost)
	if err != nil {
		return err
	}
	return s.update(func(users []model.UserAccount) ([]model.UserAccount, error) {
		for _, u := range users {
			if u.Usuario == usuario {
				return nil, ErrUserExists
			}
		}
		return append(users, model.UserAccount{
			Nombre:        nombre,
			Usuario:       usuario,
			Contrasena:    hash,
			Departamento:  departamento,
			Rol:           rol,
			Activo:        true,
			Estado:        model.EstadoActivo,
			FechaCreacion: time.Now().UTC().Format(time.RFC3339),
		}), nil
	})
}

// Authenticate verifies a credential for an active account. Hashed
// credentials are checked with bcrypt; entries migrated from the previous
// system may still be plain text and are compared in constant time.
func (s *UserStore) Authenticate(usuario, contrasena string) (model.UserAccount, bool) {
	u, ok := s.Get(usuario)
	if !ok || !u.Activo {
		return model.UserAccount{}, false
	}
	if strings.HasPrefix(u.Contrasena, "$2") {
		if !utils.VerifyPassword(u.Contrasena, contrasena) {
			return model.UserAccount{}, false
		}
		return u, true
	}
	if subtle.ConstantTimeCompare([]byte(u.Contrasena), []byte(contrasena)) != 1 {
		return model.UserAccount{}, false
	}
	return u, true
}

// Deactivate clears the activo flag without touching the status label.
func (s *UserStore) Deactivate(usuario string) error {
	return s.edit(usuario, func(u *model.UserAccount) {
		u.Activo = false
	})
}

// SoftDelete marks the account Eliminado and records the deactivation
// timestamp. The entry is never physically removed.
func (s *UserStore) SoftDelete(usuario string) error {
	return s.edit(usuario, func(u *model.UserAccount) {
		u.Activo = false
		u.Estado = model.EstadoEliminado
		baja := time.Now().UTC().Format(time.RFC3339)
		u.FechaBaja = &baja
	})
}

// Reactivate sets the activo flag back, restoring the Activo label and
// clearing the deactivation timestamp.
func (s *UserStore) Reactivate(usuario string) error {
	return s.edit(usuario, func(u *model.UserAccount) {
		u.Activo = true
		u.Estado = model.EstadoActivo
		u.FechaBaja = nil
	})
}

// ResetPassword replaces the credential with a fresh bcrypt hash. This also
// upgrades legacy plain text entries.
func (s *UserStore) ResetPassword(usuario, contrasena string) error {
	hash, err := utils.HashPassword(contrasena, s.cost)
	if err != nil {
		return err
	}
	return s.edit(usuario, func(u *model.UserAccount) {
		u.Contrasena = hash
	})
}

// EnsureAdmin seeds an ADMIN account on first boot when none exists under
// that username. Used by main with ADMIN_USER/ADMIN_PASS.
func (s *UserStore) EnsureAdmin(usuario, contrasena string) error {
	if _, ok := s.Get(usuario); ok {
		return nil
	}
	if err := s.Create(usuario, usuario, contrasena, "", model.RolAdmin); err != nil {
		return err
	}
	log.Printf("users: seeded admin account %q", usuario)
	return nil
}

// edit applies fn to the named account under the write lock.
func (s *UserStore) edit(usuario string, fn func(u *model.UserAccount)) error {
	return s.update(func(users []model.UserAccount) ([]model.UserAccount, error) {
		for i := range users {
			if users[i].Usuario == usuario {
				fn(&users[i])
				return users, nil
			}
		}
		return nil, ErrUserNotFound
	})
}

func (s *UserStore) update(fn func(users []model.UserAccount) ([]model.UserAccount, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := fn(s.readAll())
	if err != nil {
		return err
	}
	return s.writeAll(users)
}

func (s *UserStore) readAll() []model.UserAccount {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return []model.UserAccount{}
	}
	var users []model.UserAccount
	if err := json.Unmarshal(raw, &users); err != nil {
		log.Printf("users: %s is corrupt, treating as empty: %v", s.path, err)
		return []model.UserAccount{}
	}
	if users == nil {
		users = []model.UserAccount{}
	}
	return users
}

func (s *UserStore) writeAll(users []model.UserAccount) error {
	raw, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
