package domain

// Role is the numeric access level carried in tokens and stored on accounts.
type Role int

const (
	RoleCitizen   Role = 0
	RoleAuthority Role = 49
	RoleAdmin     Role = 99
)

func (r Role) String() string {
	switch r {
	case RoleCitizen:
		return "citizen"
	case RoleAuthority:
		return "authority"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Identity is the authenticated caller bound to a request.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
