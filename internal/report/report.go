// Package report provides the read-only views over the ledger and the user
// directory. Everything here is a pure filter/sort with no side effects.
package report

import (
	"sort"

	"github.com/dinex/webclock/internal/ledger"
	"github.com/dinex/webclock/internal/model"
)

// UserHistory returns the full punch history of one user, or an empty slice
// when the user is unknown or no longer active. Records of deactivated users
// stay in the ledger but are invisible to reporting.
func UserHistory(accounts []model.UserAccount, records []model.PunchRecord, usuario string) []model.PunchRecord {
	for _, u := range accounts {
		if u.Usuario == usuario {
			if !u.Activo {
				return []model.PunchRecord{}
			}
			return ledger.ByUser(records, usuario)
		}
	}
	return []model.PunchRecord{}
}

// AllActive returns every record belonging to a currently active user, sorted
// lexicographically by (usuario, fecha, hora).
func AllActive(accounts []model.UserAccount, records []model.PunchRecord) []model.PunchRecord {
	active := make(map[string]bool, len(accounts))
	for _, u := range accounts {
		if u.Activo {
			active[u.Usuario] = true
		}
	}
	out := []model.PunchRecord{}
	for _, r := range records {
		if active[r.Usuario] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Usuario != b.Usuario {
			return a.Usuario < b.Usuario
		}
		if a.Fecha != b.Fecha {
			return a.Fecha < b.Fecha
		}
		return a.Hora < b.Hora
	})
	return out
}

// NameIndex maps every username (active or not) to its display name.
func NameIndex(accounts []model.UserAccount) map[string]string {
	idx := make(map[string]string, len(accounts))
	for _, u := range accounts {
		idx[u.Usuario] = u.Nombre
	}
	return idx
}
