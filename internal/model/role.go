package model

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of account roles. Services switch on the enum
// instead of comparing raw strings, so an unrecognised value fails at the
// boundary rather than silently acting as a student.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleStudent
	RoleCounselor
	RoleAdmin
)

const (
	roleStudentStr   = "student"
	roleCounselorStr = "counselor"
	roleAdminStr     = "admin"
)

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case roleStudentStr:
		return RoleStudent, nil
	case roleCounselorStr:
		return RoleCounselor, nil
	case roleAdminStr:
		return RoleAdmin, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role: %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return roleStudentStr
	case RoleCounselor:
		return roleCounselorStr
	case RoleAdmin:
		return roleAdminStr
	default:
		return "unknown"
	}
}

// Privileged reports whether the role may act on any student's records.
func (r Role) Privileged() bool {
	return r == RoleCounselor || r == RoleAdmin
}

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleCounselor || r == RoleAdmin
}

func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal unknown role")
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
