package actor

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Actor identifies who is performing an operation. Authentication itself
// happens upstream; services only consume the resolved identity.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) Privileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperAdmin
}
