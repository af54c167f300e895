// Package view owns one loaded network view: the device tree, its position
// store, the camera, the drag controller, selection and health overlay.
// All calls are serialised by one mutex, the way a UI event loop would.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/braunma/netmap/pkg/interaction"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/positions"
	"github.com/braunma/netmap/pkg/render"
	"github.com/braunma/netmap/pkg/topology"
	"github.com/braunma/netmap/pkg/utils"
	"github.com/braunma/netmap/pkg/viewport"
)

// ErrUnknownNode is returned by operations naming a node that is not drawn
var ErrUnknownNode = errors.New("unknown node")

// Listener receives selection and position events
type Listener interface {
	NodeSelected(id string)
	NodePositionChanged(id string, x, y float64)
}

// Options configures a view
type Options struct {
	Layout         topology.Config
	Viewport       viewport.Config
	ClickThreshold float64
	Now            func() time.Time
	Logger         *utils.Logger
}

// DefaultOptions returns the built-in geometry
func DefaultOptions() Options {
	return Options{
		Layout:   topology.DefaultConfig(),
		Viewport: viewport.DefaultConfig(),
	}
}

type event struct {
	selected bool
	id       string
	x, y     float64
}

// renderKey captures every input a frame depends on
type renderKey struct {
	tree        uint64
	store       uint64
	selected    string
	mode        interaction.Mode
	transform   viewport.Transform
	fingerprint string
	previewID   string
	preview     positions.Position
}

// View is the facade collaborators talk to
type View struct {
	mu sync.Mutex

	tree   *models.DeviceNode
	store  *positions.Store
	camera *viewport.Controller
	drag   *interaction.DragController
	layout topology.Config
	logger *utils.Logger
	now    func() time.Time

	selected    string
	health      map[string]models.HealthStatus
	fingerprint string

	listeners []Listener
	pending   []event

	treeVersion   uint64
	layoutKey     [2]uint64
	result        *topology.Result
	scene         *render.Scene
	sceneKey      renderKey
	sceneRendered bool
	renders       int
}

// New creates a view over tree. A nil store keeps positions in memory.
func New(tree *models.DeviceNode, store *positions.Store, opts Options) *View {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := utils.OrNop(opts.Logger)
	if store == nil {
		store = positions.NewStore(nil, logger)
	}

	v := &View{
		tree:   tree,
		store:  store,
		layout: opts.Layout,
		logger: logger,
		now:    opts.Now,
		camera: viewport.NewController(opts.Viewport, opts.Now),
	}
	v.drag = interaction.NewDragController(store, v.camera, v.lookupNode, (*emitter)(v), opts.ClickThreshold, logger)
	v.treeVersion = 1
	return v
}

// emitter queues drag events so listeners run after the lock is released
type emitter View

func (e *emitter) NodeSelected(id string) {
	v := (*View)(e)
	v.selected = id
	v.pending = append(v.pending, event{selected: true, id: id})
}

func (e *emitter) NodePositionChanged(id string, x, y float64) {
	v := (*View)(e)
	v.pending = append(v.pending, event{id: id, x: x, y: y})
}

// AddListener registers l for selection and position events
func (v *View) AddListener(l Listener) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, l)
}

// unlock releases the mutex, then delivers queued events
func (v *View) unlock() {
	events := v.pending
	v.pending = nil
	listeners := append([]Listener(nil), v.listeners...)
	v.mu.Unlock()

	for _, e := range events {
		for _, l := range listeners {
			if e.selected {
				l.NodeSelected(e.id)
			} else {
				l.NodePositionChanged(e.id, e.x, e.y)
			}
		}
	}
}

func (v *View) lookupNode(id string) (*models.DeviceNode, bool) {
	if v.tree == nil {
		return nil, false
	}
	n := v.tree.Find(id)
	if n == nil || n.IsGroup() {
		return nil, false
	}
	return n, true
}

// Store returns the position store
func (v *View) Store() *positions.Store {
	return v.store
}

// Tree returns the live tree. Callers must not modify it concurrently.
func (v *View) Tree() *models.DeviceNode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tree
}

// SetTree replaces the device tree. Stored positions are kept, keyed by id.
func (v *View) SetTree(tree *models.DeviceNode) {
	v.mu.Lock()
	defer v.unlock()

	v.tree = tree
	v.treeChanged()
	if v.selected != "" {
		if _, ok := v.lookupNode(v.selected); !ok && (tree == nil || tree.ID != v.selected) {
			(*emitter)(v).NodeSelected("")
		}
	}
}

func (v *View) treeChanged() {
	v.treeVersion++
}

// relayout runs the pipeline when the tree or the store changed
func (v *View) relayout() *topology.Result {
	key := [2]uint64{v.treeVersion, v.store.Version()}
	if v.result != nil && key == v.layoutKey {
		return v.result
	}

	v.result = topology.Run(v.tree, v.store, v.layout, v.logger)
	v.layoutKey = [2]uint64{v.treeVersion, v.store.Version()}
	return v.result
}

// Layout returns the current layout pass
func (v *View) Layout() *topology.Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.relayout()
}

// Scene returns the current frame, rendering only when an input changed
func (v *View) Scene() *render.Scene {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sceneLocked()
}

func (v *View) sceneLocked() *render.Scene {
	res := v.relayout()

	key := renderKey{
		tree:        v.treeVersion,
		store:       v.store.Version(),
		selected:    v.selected,
		mode:        v.drag.Mode(),
		transform:   v.camera.Current(),
		fingerprint: v.fingerprint,
	}
	previewID, previewPos, previewing := v.drag.Preview()
	if previewing {
		key.previewID, key.preview = previewID, previewPos
	}

	if v.sceneRendered && key == v.sceneKey {
		return v.scene
	}

	nodes, links := res.Nodes, res.Links
	if previewing {
		nodes, links = withPreview(res, previewID, previewPos)
	}

	cfg := v.camera.Config()
	v.scene = render.Render(render.Input{
		Nodes:     nodes,
		Links:     links,
		Selected:  v.selected,
		Health:    v.health,
		Transform: key.transform,
		Width:     cfg.Width,
		Height:    cfg.Height,
	})
	v.sceneKey = key
	v.sceneRendered = true
	v.renders++
	return v.scene
}

// withPreview swaps the dragged node for a copy at the in-flight position
func withPreview(res *topology.Result, id string, pos positions.Position) ([]*topology.DrawNode, []topology.DrawLink) {
	orig, ok := res.Node(id)
	if !ok {
		return res.Nodes, res.Links
	}
	moved := *orig
	moved.X, moved.Y = pos.X, pos.Y

	nodes := make([]*topology.DrawNode, len(res.Nodes))
	for i, n := range res.Nodes {
		if n == orig {
			n = &moved
		}
		nodes[i] = n
	}
	links := make([]topology.DrawLink, len(res.Links))
	for i, l := range res.Links {
		if l.Source == orig {
			l.Source = &moved
		}
		if l.Target == orig {
			l.Target = &moved
		}
		links[i] = l
	}
	return nodes, links
}

// RenderCount returns how many frames have been rendered
func (v *View) RenderCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

// Select sets the selection and emits NodeSelected. Empty deselects.
func (v *View) Select(id string) error {
	v.mu.Lock()
	defer v.unlock()

	if id != "" {
		if _, ok := v.relayout().Node(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
	}
	(*emitter)(v).NodeSelected(id)
	return nil
}

// Selected returns the selected node id
func (v *View) Selected() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// Mode returns the interaction mode
func (v *View) Mode() interaction.Mode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.drag.Mode()
}

// SetMode switches between edit and pan
func (v *View) SetMode(m interaction.Mode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drag.SetMode(m)
}

// SetHealth installs a health payload. Returns false when the statuses are
// unchanged, in which case nothing re-renders.
func (v *View) SetHealth(metrics []models.HealthMetric) bool {
	fp := render.Fingerprint(metrics)

	v.mu.Lock()
	defer v.mu.Unlock()

	if fp == v.fingerprint && v.health != nil {
		return false
	}
	v.fingerprint = fp
	v.health = models.HealthByIP(metrics)
	return true
}

// Fingerprint returns the fingerprint of the current health payload
func (v *View) Fingerprint() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fingerprint
}

// Save persists the position store
func (v *View) Save(ctx context.Context) error {
	return v.store.Save(ctx)
}

// ClearLayout drops every stored and manual position and regenerates the grid
func (v *View) ClearLayout(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.store.Clear(ctx); err != nil {
		return err
	}
	if v.tree != nil {
		v.tree.Walk(func(n *models.DeviceNode) bool {
			n.ClearPosition()
			return true
		})
	}
	v.treeChanged()
	v.relayout()
	v.logger.Info("Layout cleared")
	return nil
}
