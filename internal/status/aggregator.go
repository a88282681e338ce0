// Package status derives the live dashboard snapshot: who is working, who is
// at lunch and who is idle, based on each active user's last punch of the day.
package status

import (
	"sort"

	"github.com/dinex/webclock/internal/ledger"
	"github.com/dinex/webclock/internal/model"
)

// Summary is the /status-today payload. List fields are never nil so the
// JSON always carries arrays.
type Summary struct {
	Fecha        string `json:"fecha"`
	TotalActivos int    `json:"totalActivos"`
	Trabajando   int    `json:"trabajando"`
	EnAlmuerzo   int    `json:"enAlmuerzo"`
	NoTrabajando int    `json:"noTrabajando"`
	Listas       Lists  `json:"listas"`
}

// Lists holds the display names backing each dashboard bucket.
type Lists struct {
	Trabajando   []string `json:"trabajando"`
	EnAlmuerzo   []string `json:"enAlmuerzo"`
	NoTrabajando []string `json:"noTrabajando"`
	Activos      []string `json:"activos"`
}

// Summarize classifies every active user by the type of their last record on
// fecha: entrada/entrada_lunch mean working, salida_lunch means at lunch,
// anything else (including no records) means idle.
func Summarize(active []model.UserAccount, records []model.PunchRecord, fecha string) Summary {
	sum := Summary{
		Fecha: fecha,
		Listas: Lists{
			Trabajando:   []string{},
			EnAlmuerzo:   []string{},
			NoTrabajando: []string{},
			Activos:      []string{},
		},
	}

	for _, u := range active {
		nombre := displayName(u)
		sum.Listas.Activos = append(sum.Listas.Activos, nombre)

		regs := ledger.ByUserAndDate(records, u.Usuario, fecha)
		if len(regs) == 0 {
			sum.Listas.NoTrabajando = append(sum.Listas.NoTrabajando, nombre)
			continue
		}
		sort.SliceStable(regs, func(i, j int) bool { return regs[i].Hora < regs[j].Hora })

		switch regs[len(regs)-1].Tipo {
		case model.TipoSalidaLunch:
			sum.Listas.EnAlmuerzo = append(sum.Listas.EnAlmuerzo, nombre)
		case model.TipoEntrada, model.TipoEntradaLunch:
			sum.Listas.Trabajando = append(sum.Listas.Trabajando, nombre)
		default:
			sum.Listas.NoTrabajando = append(sum.Listas.NoTrabajando, nombre)
		}
	}

	sum.TotalActivos = len(active)
	sum.Trabajando = len(sum.Listas.Trabajando)
	sum.EnAlmuerzo = len(sum.Listas.EnAlmuerzo)
	sum.NoTrabajando = len(sum.Listas.NoTrabajando)
	return sum
}

func displayName(u model.UserAccount) string {
	if u.Nombre != "" {
		return u.Nombre
	}
	return u.Usuario
}
