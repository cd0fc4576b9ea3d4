package authz

import (
	"database/sql/driver"
	"fmt"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgent  Role = "agent"
	RoleClient Role = "client"
)

// DefaultMemberRole is assigned to users an admin creates without naming a role.
const DefaultMemberRole = RoleClient

// ParseRole returns the Role named by s.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleAgent, RoleClient:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Scan implements sql.Scanner so a Role column is rejected if it holds anything
// outside the closed set.
func (r *Role) Scan(value any) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", value)
	}

	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer.
func (r Role) Value() (driver.Value, error) {
	if _, err := ParseRole(string(r)); err != nil {
		return nil, err
	}
	return string(r), nil
}
