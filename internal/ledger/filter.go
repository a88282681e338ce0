package ledger

import "github.com/dinex/webclock/internal/model"

// Slice-level filters shared by the Store methods and by callers that operate
// on an in-memory snapshot inside Update.

// ByUser returns the records of one user, preserving order.
func ByUser(records []model.PunchRecord, usuario string) []model.PunchRecord {
	out := []model.PunchRecord{}
	for _, r := range records {
		if r.Usuario == usuario {
			out = append(out, r)
		}
	}
	return out
}

// ByUserAndDate returns the records of one user on one date, preserving order.
func ByUserAndDate(records []model.PunchRecord, usuario, fecha string) []model.PunchRecord {
	out := []model.PunchRecord{}
	for _, r := range records {
		if r.Usuario == usuario && r.Fecha == fecha {
			out = append(out, r)
		}
	}
	return out
}

// CountByUserAndDate counts one user's records on one date.
func CountByUserAndDate(records []model.PunchRecord, usuario, fecha string) int {
	n := 0
	for _, r := range records {
		if r.Usuario == usuario && r.Fecha == fecha {
			n++
		}
	}
	return n
}

// HasType reports whether the user has a record of the given type on the date.
func HasType(records []model.PunchRecord, usuario, fecha, tipo string) bool {
	for _, r := range records {
		if r.Usuario == usuario && r.Fecha == fecha && r.Tipo == tipo {
			return true
		}
	}
	return false
}
