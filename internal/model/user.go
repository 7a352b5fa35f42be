package model

// Roles stored in utenti.ruolo.  Anything other than RoleClient is staff.
const (
	RoleClient   = "cliente"
	RoleEmployee = "dipendente"
	RoleAdmin    = "admin"
)

// IsStaffRole reports whether role grants the staff view of the system.
func IsStaffRole(role string) bool {
	return role == RoleEmployee || role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleClient || IsStaffRole(role)
}

// User represents a row in the `utenti` table.  The username is the
// primary identity; bookings and reviews reference it directly and no
// numeric id is propagated.
//
// Fields:
//  Username     – unique login name.
//  PasswordHash – bcrypt hash of the password.
//  Role         – cliente, dipendente or admin.
//  Name         – optional display name.
type User struct {
	Username     string `db:"username"`
	PasswordHash string `db:"password"`
	Role         string `db:"ruolo"`
	Name         string `db:"nome"`
}
