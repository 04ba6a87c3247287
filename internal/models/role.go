package models

// Role is the closed set of actor roles. Keeping it a named type (rather
// than a free-form string) lets policy code switch over it exhaustively.
type Role string

const (
	RoleUser    Role = "user"
	RoleDentist Role = "dentist"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleDentist, RoleAdmin:
		return true
	}
	return false
}
