package models

import "time"

// ChangeEntry records one edit applied to a device
type ChangeEntry struct {
	At    time.Time `yaml:"at" json:"at"`
	Field string    `yaml:"field" json:"field"`
	From  string    `yaml:"from,omitempty" json:"from,omitempty"`
	To    string    `yaml:"to,omitempty" json:"to,omitempty"`
}

// DeviceNode is one device (or structural group) in the inventory tree.
// ParentID is a weak reference: it may be empty, dangling or cyclic.
type DeviceNode struct {
	ID                string        `yaml:"id" json:"id" validate:"required"`
	Name              string        `yaml:"name" json:"name"`
	Role              Role          `yaml:"role" json:"role"`
	IP                string        `yaml:"ip,omitempty" json:"ip,omitempty"`
	Hostname          string        `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	ParentID          string        `yaml:"parent_id,omitempty" json:"parentId,omitempty"`
	FX                *float64      `yaml:"fx,omitempty" json:"fx,omitempty"`
	FY                *float64      `yaml:"fy,omitempty" json:"fy,omitempty"`
	ConnectionSpeed   string        `yaml:"connection_speed,omitempty" json:"connectionSpeed,omitempty"`
	MonitoringEnabled *bool         `yaml:"monitoring_enabled,omitempty" json:"monitoringEnabled,omitempty"`
	Notes             string        `yaml:"notes,omitempty" json:"notes,omitempty"`
	Version           string        `yaml:"version,omitempty" json:"version,omitempty"`
	History           []ChangeEntry `yaml:"history,omitempty" json:"history,omitempty"`
	Root              bool          `yaml:"root,omitempty" json:"-"`
	Children          []*DeviceNode `yaml:"children,omitempty" json:"children,omitempty"`
}

// IsGroup reports whether the node is a structural container
func (d *DeviceNode) IsGroup() bool {
	return d.Role.IsGroup()
}

// IsMonitored reports whether health overlays apply. Defaults to true.
func (d *DeviceNode) IsMonitored() bool {
	return d.MonitoringEnabled == nil || *d.MonitoringEnabled
}

// HasManualPosition reports whether both fx and fy are set
func (d *DeviceNode) HasManualPosition() bool {
	return d.FX != nil && d.FY != nil
}

// SetPosition pins the node at (x, y)
func (d *DeviceNode) SetPosition(x, y float64) {
	d.FX = &x
	d.FY = &y
}

// ClearPosition removes the manual position
func (d *DeviceNode) ClearPosition() {
	d.FX = nil
	d.FY = nil
}

// Walk visits the node and its descendants depth-first in document order.
// Returning false from fn stops descent into that node's children.
func (d *DeviceNode) Walk(fn func(n *DeviceNode) bool) {
	if d == nil {
		return
	}
	stack := []*DeviceNode{d}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			if n.Children[i] != nil {
				stack = append(stack, n.Children[i])
			}
		}
	}
}

// Find returns the node with the given id, or nil
func (d *DeviceNode) Find(id string) *DeviceNode {
	var found *DeviceNode
	d.Walk(func(n *DeviceNode) bool {
		if found != nil {
			return false
		}
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Devices returns every non-group node below d (d itself excluded), in document order
func (d *DeviceNode) Devices() []*DeviceNode {
	var devices []*DeviceNode
	d.Walk(func(n *DeviceNode) bool {
		if n != d && !n.IsGroup() {
			devices = append(devices, n)
		}
		return true
	})
	return devices
}

// Clone returns a deep copy of the subtree
func (d *DeviceNode) Clone() *DeviceNode {
	if d == nil {
		return nil
	}
	c := *d
	if d.FX != nil {
		fx := *d.FX
		c.FX = &fx
	}
	if d.FY != nil {
		fy := *d.FY
		c.FY = &fy
	}
	if d.MonitoringEnabled != nil {
		m := *d.MonitoringEnabled
		c.MonitoringEnabled = &m
	}
	if d.History != nil {
		c.History = append([]ChangeEntry(nil), d.History...)
	}
	if d.Children != nil {
		c.Children = make([]*DeviceNode, 0, len(d.Children))
		for _, child := range d.Children {
			c.Children = append(c.Children, child.Clone())
		}
	}
	return &c
}

// Float returns a pointer to v, for fx/fy literals
func Float(v float64) *float64 {
	return &v
}

// Bool returns a pointer to v
func Bool(v bool) *bool {
	return &v
}
