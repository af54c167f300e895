package view

import (
	"fmt"

	"github.com/braunma/netmap/pkg/interaction"
	"github.com/braunma/netmap/pkg/viewport"
)

// ZoomIn zooms around the viewport center
func (v *View) ZoomIn() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera.ZoomIn()
}

// ZoomOut zooms out around the viewport center
func (v *View) ZoomOut() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera.ZoomOut()
}

// ResetView returns the camera to scale 1 at the origin
func (v *View) ResetView() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera.Reset()
}

// FitToView frames every drawn node. Returns false when nothing is drawn.
func (v *View) FitToView() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	res := v.relayout()
	points := make([]viewport.Point, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		points = append(points, viewport.Point{X: n.X, Y: n.Y})
	}
	return v.camera.FitToBounds(points)
}

// CenterOn centers the camera on a node
func (v *View) CenterOn(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	res := v.relayout()
	if !v.camera.CenterOn(id, res.Position) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return nil
}

// Transform returns the current (interpolated) camera transform
func (v *View) Transform() viewport.Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera.Current()
}

// TargetTransform returns the transform the camera is heading to
func (v *View) TargetTransform() viewport.Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.camera.Target()
}

// SetTransform jumps the camera, e.g. to a saved viewport
func (v *View) SetTransform(t viewport.Transform) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera.Set(t)
}

// Resize changes the viewport size used by the camera and renderer
func (v *View) Resize(width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera.Resize(width, height)
}

// PanBy moves the camera by a screen delta
func (v *View) PanBy(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera.PanBy(dx, dy)
}

// ZoomAt zooms around a screen point (wheel and pinch)
func (v *View) ZoomAt(x, y, factor float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera.ZoomAt(x, y, factor)
}

// PointerDown starts a gesture on a node, or on the canvas when id is empty
func (v *View) PointerDown(id string, x, y float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.relayout()
	if !v.drag.PointerDown(id, viewport.Point{X: x, Y: y}) {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return nil
}

// PointerMove continues the gesture
func (v *View) PointerMove(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drag.PointerMove(viewport.Point{X: x, Y: y})
}

// PointerUp finishes the gesture and emits its event
func (v *View) PointerUp(x, y float64) interaction.Outcome {
	v.mu.Lock()
	defer v.unlock()
	return v.drag.PointerUp(viewport.Point{X: x, Y: y})
}
