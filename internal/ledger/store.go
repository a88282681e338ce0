// Package ledger owns the punch record store: a flat JSON array on disk,
// rewritten as a whole on every mutation. A per-store RWMutex serializes the
// load-modify-save cycle so concurrent requests cannot lose writes, and every
// record gets a stable ID at append time so positional admin operations can
// resolve to an identity before mutating.
package ledger

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/dinex/webclock/internal/model"
)

// ErrInvalidIndex is returned when a per-user positional index does not
// resolve to an existing record.
var ErrInvalidIndex = errors.New("invalid punch index")

// Store persists punch records in a single JSON file.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore returns a Store backed by the given file path. The file does not
// need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// LoadAll returns every record in file order. A missing or corrupt file
// yields an empty slice; corruption is logged but never fails a read.
func (s *Store) LoadAll() []model.PunchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readAll()
}

// SaveAll replaces the entire file contents with the given records.
func (s *Store) SaveAll(records []model.PunchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAll(records)
}

// Update runs fn inside the write lock over a freshly loaded snapshot and
// persists whatever fn returns. This is the serialization point for every
// read-modify-write on the ledger; the punch workflow runs its whole state
// machine inside one Update call.
func (s *Store) Update(fn func(records []model.PunchRecord) ([]model.PunchRecord, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := fn(s.readAll())
	if err != nil {
		return err
	}
	return s.writeAll(records)
}

// Append adds one record to the end of the ledger, assigning it a stable ID
// when it does not carry one, and returns the stored record.
func (s *Store) Append(rec model.PunchRecord) (model.PunchRecord, error) {
	rec = WithID(rec)
	err := s.Update(func(records []model.PunchRecord) ([]model.PunchRecord, error) {
		return append(records, rec), nil
	})
	return rec, err
}

// Clear removes every record.
func (s *Store) Clear() error {
	return s.SaveAll([]model.PunchRecord{})
}

// FindByUser returns the records of one user in file order.
func (s *Store) FindByUser(usuario string) []model.PunchRecord {
	return ByUser(s.LoadAll(), usuario)
}

// FindByUserAndDate returns the records of one user on one date.
func (s *Store) FindByUserAndDate(usuario, fecha string) []model.PunchRecord {
	return ByUserAndDate(s.LoadAll(), usuario, fecha)
}

// CountByUserAndDate counts one user's records on one date.
func (s *Store) CountByUserAndDate(usuario, fecha string) int {
	return CountByUserAndDate(s.LoadAll(), usuario, fecha)
}

// HasType reports whether the user already has a record of the given type on
// the given date.
func (s *Store) HasType(usuario, fecha, tipo string) bool {
	return HasType(s.LoadAll(), usuario, fecha, tipo)
}

// ReplaceAt applies an admin correction to the index-th record belonging to
// usuario (positional within that user's own records). Only the type, date
// and time fields are editable. Returns ErrInvalidIndex when the position
// does not resolve.
func (s *Store) ReplaceAt(usuario string, index int, tipo, fecha, hora string) error {
	return s.Update(func(records []model.PunchRecord) ([]model.PunchRecord, error) {
		pos, ok := resolveIndex(records, usuario, index)
		if !ok {
			return nil, ErrInvalidIndex
		}
		records[pos].Tipo = tipo
		records[pos].Fecha = fecha
		records[pos].Hora = hora
		return records, nil
	})
}

// RemoveAt deletes the index-th record belonging to usuario, with the same
// positional scoping as ReplaceAt.
func (s *Store) RemoveAt(usuario string, index int) error {
	return s.Update(func(records []model.PunchRecord) ([]model.PunchRecord, error) {
		pos, ok := resolveIndex(records, usuario, index)
		if !ok {
			return nil, ErrInvalidIndex
		}
		return append(records[:pos], records[pos+1:]...), nil
	})
}

// resolveIndex maps a per-user positional index to a global slice position by
// walking the user's records in file order. The mapping is only stable inside
// a single Update critical section, which is why ReplaceAt and RemoveAt do
// their whole lookup-and-mutate under the write lock.
func resolveIndex(records []model.PunchRecord, usuario string, index int) (int, bool) {
	if index < 0 {
		return 0, false
	}
	seen := 0
	for i := range records {
		if records[i].Usuario != usuario {
			continue
		}
		if seen == index {
			return i, true
		}
		seen++
	}
	return 0, false
}

// WithID returns rec with a freshly assigned ID when it has none.
func WithID(rec model.PunchRecord) model.PunchRecord {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return rec
}

func (s *Store) readAll() []model.PunchRecord {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return []model.PunchRecord{}
	}
	var records []model.PunchRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		log.Printf("ledger: %s is corrupt, treating as empty: %v", s.path, err)
		return []model.PunchRecord{}
	}
	if records == nil {
		records = []model.PunchRecord{}
	}
	return records
}

func (s *Store) writeAll(records []model.PunchRecord) error {
	if records == nil {
		records = []model.PunchRecord{}
	}
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o644)
}
