package entity

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// Role is the closed set of account kinds. CLIENT and CREATOR are disjoint;
// there is no hierarchy between them.
type Role string

const (
	RoleClient  Role = "CLIENT"
	RoleCreator Role = "CREATOR"
)

// ErrInvalidRole is returned when a value outside the role set is parsed,
// written or read.
var ErrInvalidRole = errors.New("invalid role")

// Roles returns every role in display order.
func Roles() []Role {
	return []Role{RoleClient, RoleCreator}
}

// ParseRole converts a stored or submitted value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleCreator:
		return true
	}
	return false
}

// Label returns the human-readable name used in forms.
func (r Role) Label() string {
	switch r {
	case RoleClient:
		return "Client"
	case RoleCreator:
		return "Creator"
	}
	return string(r)
}

// Value implements driver.Valuer so that an invalid role never reaches the database.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
	return string(r), nil
}

// Scan implements sql.Scanner and rejects rows holding an unknown role.
func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidRole, src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
