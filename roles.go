package auth

// Role identifies the access tier of an account. Roles are flat, there is
// no implied hierarchy between them; authorization is always an explicit
// allow list check.
type Role string

const (
	RolePatient       Role = "patient"
	RoleDermatologist Role = "dermatologist"
	RoleAdmin         Role = "admin"
)

// DefaultRole is assigned when registration does not name a role.
const DefaultRole = RolePatient

func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDermatologist, RoleAdmin:
		return true
	}
	return false
}

// ParseRole normalizes a raw role string, falling back to DefaultRole when
// the input is empty and erroring on anything unknown.
func ParseRole(raw string) (Role, error) {
	if raw == "" {
		return DefaultRole, nil
	}
	role := Role(raw)
	if !role.Valid() {
		return "", ErrUnknownRole
	}
	return role, nil
}

// RoleNames returns the canonical role identifiers, mostly for validation
// rules and error metadata.
func RoleNames() []any {
	return []any{
		RolePatient.String(),
		RoleDermatologist.String(),
		RoleAdmin.String(),
	}
}
