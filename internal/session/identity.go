package session

import "fmt"

type Role string

const (
	RoleGuest   Role = "guest"
	RoleUser    Role = "user"
	RolePremium Role = "premium"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleGuest, RoleUser, RolePremium, RoleAdmin:
		return r, nil
	case "":
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Identity is who the host runs commands for. The engine never looks at the
// role; host-level policies (such as who may lift penalties) do.
type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
