package render

import "github.com/braunma/netmap/pkg/models"

// Visual is how a role is drawn
type Visual struct {
	Icon  string
	Ring  string
	Label string
}

// roleVisuals is indexed by role; every role must have an entry
var roleVisuals = [models.RoleCount]Visual{
	models.RoleUnknown:  {Icon: "?", Ring: "9ca3af", Label: "Unknown"},
	models.RoleGateway:  {Icon: "GW", Ring: "8b5cf6", Label: "Gateway"},
	models.RoleSwitch:   {Icon: "SW", Ring: "0ea5e9", Label: "Switch"},
	models.RoleFirewall: {Icon: "FW", Ring: "f97316", Label: "Firewall"},
	models.RoleServer:   {Icon: "SRV", Ring: "10b981", Label: "Server"},
	models.RoleService:  {Icon: "SVC", Ring: "14b8a6", Label: "Service"},
	models.RoleNAS:      {Icon: "NAS", Ring: "eab308", Label: "NAS"},
	models.RoleClient:   {Icon: "PC", Ring: "64748b", Label: "Client"},
	models.RoleGroup:    {Icon: "[]", Ring: "cbd5e1", Label: "Group"},
}

// VisualFor returns the visual of r; out-of-range roles draw as unknown
func VisualFor(r models.Role) Visual {
	if r < 0 || r >= models.RoleCount {
		return roleVisuals[models.RoleUnknown]
	}
	return roleVisuals[r]
}
