package auth

import "strings"

// Role is the closed set of authorization levels. Legacy rows store free-form
// Spanish strings; ParseRole normalizes them into this enum so route guards
// never compare raw strings.
type Role int

const (
	Viewer Role = iota
	Operator
	Admin
)

// ParseRole maps a stored role string onto the enum. Unknown or empty values
// degrade to Viewer, the weakest capability.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "administrador", "admin":
		return Admin
	case "usuario", "operador", "operator":
		return Operator
	case "lector", "viewer":
		return Viewer
	default:
		return Viewer
	}
}

func (r Role) String() string {
	switch r {
	case Admin:
		return "administrador"
	case Operator:
		return "usuario"
	default:
		return "lector"
	}
}

// CanRead reports whether the role may call read endpoints. Every
// authenticated role can.
func (r Role) CanRead() bool { return true }

// CanWrite reports whether the role may mutate ledgers (planificaciones,
// avances, certificaciones, pliego, catálogo).
func (r Role) CanWrite() bool { return r == Operator || r == Admin }
