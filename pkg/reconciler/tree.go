package reconciler

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/utils"
)

var (
	// ErrUnknownDevice is returned when an edit names a device not in the tree
	ErrUnknownDevice = errors.New("unknown device")
	// ErrDuplicateDevice is returned when adding an id that already exists
	ErrDuplicateDevice = errors.New("device already exists")
)

// DeviceUpdate carries the editable fields; nil fields are left alone
type DeviceUpdate struct {
	Name              *string `json:"name,omitempty"`
	Role              *string `json:"role,omitempty"`
	IP                *string `json:"ip,omitempty"`
	Hostname          *string `json:"hostname,omitempty"`
	ParentID          *string `json:"parentId,omitempty"`
	ConnectionSpeed   *string `json:"connectionSpeed,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	Version           *string `json:"version,omitempty"`
	MonitoringEnabled *bool   `json:"monitoringEnabled,omitempty"`
}

// TreeReconciler edits one device tree in place
type TreeReconciler struct {
	root   *models.DeviceNode
	logger *utils.Logger
	now    func() time.Time
}

// NewTreeReconciler creates a reconciler for root
func NewTreeReconciler(root *models.DeviceNode, logger *utils.Logger) *TreeReconciler {
	return &TreeReconciler{
		root:   root,
		logger: utils.OrNop(logger),
		now:    time.Now,
	}
}

// SetClock overrides the change-history clock
func (tr *TreeReconciler) SetClock(now func() time.Time) {
	tr.now = now
}

// AddDevice files a new device under the group for its role
func (tr *TreeReconciler) AddDevice(node *models.DeviceNode) error {
	if node == nil || node.ID == "" {
		return fmt.Errorf("device id is required")
	}
	if node.IsGroup() {
		return fmt.Errorf("cannot add group %s as a device", node.ID)
	}
	if tr.root.Find(node.ID) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateDevice, node.ID)
	}

	group := tr.root.Group(models.GroupFor(node.Role))
	group.Children = append(group.Children, node)
	node.History = append(node.History, models.ChangeEntry{At: tr.now(), Field: "created", To: node.ID})

	tr.logger.Debug("Added device %s (%s) to %s", node.ID, node.Role, group.ID)
	return nil
}

// UpdateDevice applies u to the device and appends one history entry per
// changed field. A role change refiles the device into its new group.
func (tr *TreeReconciler) UpdateDevice(id string, u DeviceUpdate) ([]models.ChangeEntry, error) {
	node := tr.device(id)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, id)
	}

	var changes []models.ChangeEntry
	set := func(field string, dst *string, v *string) {
		if v == nil || *dst == *v {
			return
		}
		changes = append(changes, models.ChangeEntry{At: tr.now(), Field: field, From: *dst, To: *v})
		*dst = *v
	}

	set("name", &node.Name, u.Name)
	set("ip", &node.IP, u.IP)
	set("hostname", &node.Hostname, u.Hostname)
	set("parent_id", &node.ParentID, u.ParentID)
	set("connection_speed", &node.ConnectionSpeed, u.ConnectionSpeed)
	set("notes", &node.Notes, u.Notes)
	set("version", &node.Version, u.Version)

	if u.Role != nil {
		role := models.ParseRole(*u.Role)
		if role.IsGroup() {
			return nil, fmt.Errorf("cannot turn device %s into a group", id)
		}
		if role != node.Role {
			changes = append(changes, models.ChangeEntry{At: tr.now(), Field: "role", From: node.Role.String(), To: role.String()})
			node.Role = role
			tr.refile(node)
		}
	}

	if u.MonitoringEnabled != nil && *u.MonitoringEnabled != node.IsMonitored() {
		changes = append(changes, models.ChangeEntry{
			At:    tr.now(),
			Field: "monitoring_enabled",
			From:  strconv.FormatBool(node.IsMonitored()),
			To:    strconv.FormatBool(*u.MonitoringEnabled),
		})
		node.MonitoringEnabled = models.Bool(*u.MonitoringEnabled)
	}

	node.History = append(node.History, changes...)
	if len(changes) > 0 {
		tr.logger.Debug("Updated device %s: %d changes", id, len(changes))
	}
	return changes, nil
}

// RemoveDevice deletes the device. Nested children move up into the removed
// device's container and every device that named it as parent is
// reparented to the root; nothing else leaves the tree.
func (tr *TreeReconciler) RemoveDevice(id string) ([]string, error) {
	if id == tr.root.ID {
		return nil, fmt.Errorf("cannot remove the root device")
	}
	node := tr.device(id)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, id)
	}

	container, i := tr.root.Container(id)
	rest := append([]*models.DeviceNode{}, container.Children[:i]...)
	rest = append(rest, node.Children...)
	rest = append(rest, container.Children[i+1:]...)
	container.Children = rest

	var reparented []string
	tr.root.Walk(func(n *models.DeviceNode) bool {
		if n.ParentID == id {
			n.History = append(n.History, models.ChangeEntry{At: tr.now(), Field: "parent_id", From: id})
			n.ParentID = ""
			reparented = append(reparented, n.ID)
		}
		return true
	})

	tr.logger.Debug("Removed device %s, reparented %d to root", id, len(reparented))
	return reparented, nil
}

func (tr *TreeReconciler) device(id string) *models.DeviceNode {
	n := tr.root.Find(id)
	if n == nil || n.IsGroup() {
		return nil
	}
	return n
}

// refile moves a device that lives directly in a group into the group
// matching its role. Devices nested elsewhere stay put.
func (tr *TreeReconciler) refile(node *models.DeviceNode) {
	container, i := tr.root.Container(node.ID)
	if container == nil || !container.IsGroup() {
		return
	}
	target := models.GroupFor(node.Role)
	if container.ID == target {
		return
	}

	container.Children = append(container.Children[:i], container.Children[i+1:]...)
	group := tr.root.Group(target)
	group.Children = append(group.Children, node)
}
