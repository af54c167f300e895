package models

import "github.com/braunma/netmap/internal/constants"

// GroupFor returns the synthetic group a device of role r is filed under
func GroupFor(r Role) string {
	switch r {
	case RoleGateway, RoleSwitch, RoleFirewall:
		return constants.GroupInfrastructure
	case RoleServer, RoleService, RoleNAS:
		return constants.GroupServers
	default:
		return constants.GroupClients
	}
}

// NewGroup creates an empty group container
func NewGroup(id string) *DeviceNode {
	name, ok := constants.GroupNames[id]
	if !ok {
		name = id
	}
	return &DeviceNode{ID: id, Name: name, Role: RoleGroup}
}

// Container returns the direct parent (in the tree, not by ParentID) of the
// node with the given id, and the node's index among its siblings.
func (d *DeviceNode) Container(id string) (*DeviceNode, int) {
	var container *DeviceNode
	index := -1
	d.Walk(func(n *DeviceNode) bool {
		if container != nil {
			return false
		}
		for i, c := range n.Children {
			if c != nil && c.ID == id {
				container, index = n, i
				return false
			}
		}
		return true
	})
	return container, index
}

// Group returns the direct child group with the given id, creating it when
// missing
func (d *DeviceNode) Group(id string) *DeviceNode {
	for _, c := range d.Children {
		if c != nil && c.ID == id && c.IsGroup() {
			return c
		}
	}
	g := NewGroup(id)
	d.Children = append(d.Children, g)
	return g
}
