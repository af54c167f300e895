package view

import (
	"fmt"

	"github.com/braunma/netmap/pkg/layoutdoc"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/reconciler"
	"github.com/braunma/netmap/pkg/viewport"
)

// AddDevice adds a device to the tree
func (v *View) AddDevice(node *models.DeviceNode) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.tree == nil {
		return fmt.Errorf("no tree loaded")
	}
	if err := v.reconciler().AddDevice(node); err != nil {
		return err
	}
	v.treeChanged()
	return nil
}

// UpdateDevice edits a device and returns the recorded changes
func (v *View) UpdateDevice(id string, u reconciler.DeviceUpdate) ([]models.ChangeEntry, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.tree == nil {
		return nil, fmt.Errorf("no tree loaded")
	}
	changes, err := v.reconciler().UpdateDevice(id, u)
	if err != nil {
		return nil, err
	}
	if len(changes) > 0 {
		v.treeChanged()
	}
	return changes, nil
}

// RemoveDevice deletes a device, reparenting its dependants to the root.
// Its stored position is kept so re-adding the same id restores it.
func (v *View) RemoveDevice(id string) ([]string, error) {
	v.mu.Lock()
	defer v.unlock()

	if v.tree == nil {
		return nil, fmt.Errorf("no tree loaded")
	}
	reparented, err := v.reconciler().RemoveDevice(id)
	if err != nil {
		return nil, err
	}
	if v.selected == id {
		(*emitter)(v).NodeSelected("")
	}
	v.treeChanged()
	return reparented, nil
}

func (v *View) reconciler() *reconciler.TreeReconciler {
	tr := reconciler.NewTreeReconciler(v.tree, v.logger)
	tr.SetClock(v.now)
	return tr
}

// Export snapshots the tree, positions and camera as a layout document
func (v *View) Export() *models.LayoutDocument {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.relayout()
	t := v.camera.Target()
	return layoutdoc.Export(v.tree, v.store, &models.ViewportState{X: t.X, Y: t.Y, K: t.K}, v.now())
}

// Import merges a layout document onto the live tree by id. Positions for
// ids present in both are restored; the live topology is kept.
func (v *View) Import(doc *models.LayoutDocument) (reconciler.MergeResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if doc == nil || doc.Root == nil {
		return reconciler.MergeResult{}, fmt.Errorf("empty layout document")
	}
	if err := layoutdoc.CheckVersion(doc.Version); err != nil {
		return reconciler.MergeResult{}, err
	}
	if v.tree == nil {
		v.tree = doc.Root.Clone()
	}

	result := reconciler.MergeLayout(v.tree, doc.Root, v.logger)
	for id, pos := range layoutdoc.Positions(doc) {
		if _, ok := result.Positions[id]; ok {
			v.store.Set(id, pos)
		}
	}
	if doc.Viewport != nil {
		v.camera.Set(viewport.Transform{X: doc.Viewport.X, Y: doc.Viewport.Y, K: doc.Viewport.K})
	}

	for _, id := range result.Stale {
		v.logger.Debug("Saved position for %s has no matching device", id)
	}
	v.treeChanged()
	return result, nil
}
