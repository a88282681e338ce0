package model

// Account roles. Employees punch; admins manage the directory and the ledger.
const (
	RolEmpleado = "EMPLOYEE"
	RolAdmin    = "ADMIN"
)

// Account status labels stored in the `estado` field.
const (
	EstadoActivo    = "Activo"
	EstadoEliminado = "Eliminado"
)

// UserAccount is one entry of users.json. The json tags match the historical
// file format. Contrasena holds a bcrypt hash for accounts created by this
// service; files migrated from the previous system may still carry plain
// text, which the store accepts on login and upgrades on password reset.
//
// Fields:
//  Nombre        – display name shown in reports and the dashboard.
//  Usuario       – unique username, the key for all lookups.
//  Contrasena    – credential (bcrypt hash, or legacy plain text).
//  Departamento  – department label.
//  Rol           – EMPLOYEE or ADMIN; empty means EMPLOYEE.
//  Activo        – false once deactivated or deleted.
//  Estado        – status label (Activo / Eliminado).
//  FechaCreacion – RFC3339 creation timestamp.
//  FechaBaja     – RFC3339 deactivation timestamp, nil while active.
type UserAccount struct {
	Nombre        string  `json:"nombre"`
	Usuario       string  `json:"usuario"`
	Contrasena    string  `json:"contrasena"`
	Departamento  string  `json:"departamento"`
	Rol           string  `json:"rol,omitempty"`
	Activo        bool    `json:"activo"`
	Estado        string  `json:"estado"`
	FechaCreacion string  `json:"fecha_creacion"`
	FechaBaja     *string `json:"fecha_baja"`
}

// IsAdmin reports whether the account carries the ADMIN role.
func (u UserAccount) IsAdmin() bool { return u.Rol == RolAdmin }
