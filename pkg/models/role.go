package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of device roles known to the topology view
type Role int

const (
	RoleUnknown Role = iota
	RoleGateway
	RoleSwitch
	RoleFirewall
	RoleServer
	RoleService
	RoleNAS
	RoleClient
	RoleGroup

	// RoleCount is the number of roles; keep it last
	RoleCount
)

var roleNames = [RoleCount]string{
	RoleUnknown:  "unknown",
	RoleGateway:  "gateway",
	RoleSwitch:   "switch",
	RoleFirewall: "firewall",
	RoleServer:   "server",
	RoleService:  "service",
	RoleNAS:      "nas",
	RoleClient:   "client",
	RoleGroup:    "group",
}

// roleAliases maps alternative spellings onto canonical roles
var roleAliases = map[string]Role{
	"router":  RoleGateway,
	"ap":      RoleSwitch,
	"storage": RoleNAS,
}

// ParseRole converts a role string to a Role. Unrecognised values map to RoleUnknown.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range roleNames {
		if name == s {
			return Role(r)
		}
	}
	if r, ok := roleAliases[s]; ok {
		return r
	}
	return RoleUnknown
}

// String returns the canonical role name
func (r Role) String() string {
	if r < 0 || r >= RoleCount {
		return roleNames[RoleUnknown]
	}
	return roleNames[r]
}

// IsGroup reports whether the role is a structural container
func (r Role) IsGroup() bool {
	return r == RoleGroup
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	if r == nil {
		return fmt.Errorf("nil role")
	}
	*r = ParseRole(string(text))
	return nil
}

// Roles returns all roles in declaration order
func Roles() []Role {
	roles := make([]Role, 0, RoleCount)
	for r := Role(0); r < RoleCount; r++ {
		roles = append(roles, r)
	}
	return roles
}
