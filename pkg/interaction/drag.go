// Package interaction turns pointer gestures into selections, node moves
// or camera pans.
package interaction

import (
	"fmt"
	"strings"

	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/positions"
	"github.com/braunma/netmap/pkg/utils"
	"github.com/braunma/netmap/pkg/viewport"
)

// Mode is the surface interaction mode
type Mode string

const (
	ModeEdit Mode = "edit"
	ModePan  Mode = "pan"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeEdit:
		return ModeEdit, nil
	case ModePan:
		return ModePan, nil
	default:
		return "", fmt.Errorf("unknown interaction mode %q", s)
	}
}

// Events receives the outcome of a finished gesture
type Events interface {
	NodeSelected(id string)
	NodePositionChanged(id string, x, y float64)
}

// NodeLookup resolves a device by id
type NodeLookup func(id string) (*models.DeviceNode, bool)

// Outcome is what a finished gesture turned into
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSelect
	OutcomeMove
	OutcomePan
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSelect:
		return "select"
	case OutcomeMove:
		return "move"
	case OutcomePan:
		return "pan"
	default:
		return "none"
	}
}

type dragState int

const (
	stateIdle dragState = iota
	stateDragging
)

// DragController is the idle -> dragging -> idle gesture state machine.
// Distances are measured in content coordinates, using the camera
// transform captured when the gesture started.
type DragController struct {
	store     *positions.Store
	camera    *viewport.Controller
	lookup    NodeLookup
	events    Events
	logger    *utils.Logger
	threshold float64
	mode      Mode

	state      dragState
	nodeID     string
	panning    bool
	transform  viewport.Transform
	origin     viewport.Point
	current    viewport.Point
	lastScreen viewport.Point
	nodeStart  positions.Position
}

// NewDragController wires the controller to the shared store and camera.
// A threshold <= 0 uses the default click threshold.
func NewDragController(store *positions.Store, camera *viewport.Controller, lookup NodeLookup, events Events, threshold float64, logger *utils.Logger) *DragController {
	if threshold <= 0 {
		threshold = constants.DefaultClickThreshold
	}
	return &DragController{
		store:     store,
		camera:    camera,
		lookup:    lookup,
		events:    events,
		logger:    utils.OrNop(logger),
		threshold: threshold,
		mode:      ModeEdit,
	}
}

// Mode returns the interaction mode
func (d *DragController) Mode() Mode {
	return d.mode
}

// SetMode switches between edit and pan. A gesture in flight is dropped.
func (d *DragController) SetMode(m Mode) {
	if m != d.mode {
		d.cancel()
	}
	d.mode = m
}

// Threshold returns the click distance limit
func (d *DragController) Threshold() float64 {
	return d.threshold
}

// Dragging reports whether a gesture is in flight
func (d *DragController) Dragging() bool {
	return d.state == stateDragging
}

// PointerDown starts a gesture on a node, or on the canvas when nodeID is
// empty. Returns false when the node is unknown.
func (d *DragController) PointerDown(nodeID string, screen viewport.Point) bool {
	if d.state == stateDragging {
		d.cancel()
	}

	d.transform = d.camera.Current()
	x, y := d.transform.Invert(screen.X, screen.Y)

	d.nodeID = nodeID
	d.origin = viewport.Point{X: x, Y: y}
	d.current = d.origin
	d.lastScreen = screen
	d.panning = nodeID == "" || d.mode == ModePan

	if nodeID != "" {
		start, ok := d.positionOf(nodeID)
		if !ok {
			d.logger.Debug("Pointer down on unknown node %s", nodeID)
			d.cancel()
			return false
		}
		d.nodeStart = start
	}

	d.state = stateDragging
	return true
}

// PointerMove updates the gesture; panning gestures move the camera
func (d *DragController) PointerMove(screen viewport.Point) {
	if d.state != stateDragging {
		return
	}

	x, y := d.transform.Invert(screen.X, screen.Y)
	d.current = viewport.Point{X: x, Y: y}

	if d.panning {
		d.camera.PanBy(screen.X-d.lastScreen.X, screen.Y-d.lastScreen.Y)
	}
	d.lastScreen = screen
}

// PointerUp ends the gesture. Within the threshold it is a click and
// selects; beyond it a node drag writes the new position and reports it.
func (d *DragController) PointerUp(screen viewport.Point) Outcome {
	if d.state != stateDragging {
		return OutcomeNone
	}
	d.PointerMove(screen)
	defer d.cancel()

	dist := utils.Distance(d.origin.X, d.origin.Y, d.current.X, d.current.Y)
	if dist <= d.threshold {
		if d.events != nil {
			d.events.NodeSelected(d.nodeID)
		}
		return OutcomeSelect
	}

	if d.panning {
		return OutcomePan
	}

	pos := d.dragged()
	if d.store != nil {
		d.store.Set(d.nodeID, pos)
	}
	if n, ok := d.node(d.nodeID); ok {
		n.SetPosition(pos.X, pos.Y)
	}
	d.logger.Debug("Moved %s to (%.1f, %.1f)", d.nodeID, pos.X, pos.Y)
	if d.events != nil {
		d.events.NodePositionChanged(d.nodeID, pos.X, pos.Y)
	}
	return OutcomeMove
}

// Preview returns the in-flight position of a node being dragged
func (d *DragController) Preview() (string, positions.Position, bool) {
	if d.state != stateDragging || d.panning || d.nodeID == "" {
		return "", positions.Position{}, false
	}
	return d.nodeID, d.dragged(), true
}

func (d *DragController) dragged() positions.Position {
	return positions.Position{
		X: d.nodeStart.X + d.current.X - d.origin.X,
		Y: d.nodeStart.Y + d.current.Y - d.origin.Y,
	}
}

func (d *DragController) positionOf(id string) (positions.Position, bool) {
	if d.store != nil {
		if pos, ok := d.store.Get(id); ok {
			return pos, true
		}
	}
	n, ok := d.node(id)
	if !ok {
		return positions.Position{}, false
	}
	if n.HasManualPosition() {
		return positions.Position{X: *n.FX, Y: *n.FY}, true
	}
	return positions.Position{}, true
}

func (d *DragController) node(id string) (*models.DeviceNode, bool) {
	if d.lookup == nil {
		return nil, false
	}
	return d.lookup(id)
}

func (d *DragController) cancel() {
	d.state = stateIdle
	d.nodeID = ""
	d.panning = false
}
