// Package reconciler applies changes onto a live device tree: saved layouts
// merged by id, and device add, update and remove edits.
package reconciler

import (
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/utils"
)

// MergeResult summarises a layout merge
type MergeResult struct {
	Applied   int                   `json:"applied"`
	Stale     []string              `json:"stale,omitempty"`
	Unplaced  int                   `json:"unplaced"`
	Positions map[string][2]float64 `json:"-"`
}

// MergeLayout copies fx/fy from a saved tree onto the live tree, matching by
// id. Topology always comes from the live tree: saved ids that no longer
// exist are reported as stale, live nodes without a saved position are
// left for the placer.
func MergeLayout(live, saved *models.DeviceNode, logger *utils.Logger) MergeResult {
	logger = utils.OrNop(logger)
	result := MergeResult{Positions: make(map[string][2]float64)}
	if live == nil || saved == nil {
		return result
	}

	savedPos := make(map[string][2]float64)
	saved.Walk(func(n *models.DeviceNode) bool {
		if !n.IsGroup() && n.HasManualPosition() {
			savedPos[n.ID] = [2]float64{*n.FX, *n.FY}
		}
		return true
	})

	seen := make(map[string]bool)
	live.Walk(func(n *models.DeviceNode) bool {
		if n.IsGroup() || seen[n.ID] {
			return true
		}
		seen[n.ID] = true

		pos, ok := savedPos[n.ID]
		if !ok {
			result.Unplaced++
			return true
		}
		n.SetPosition(pos[0], pos[1])
		result.Positions[n.ID] = pos
		result.Applied++
		return true
	})

	for id := range savedPos {
		if !seen[id] {
			result.Stale = append(result.Stale, id)
		}
	}

	logger.Debug("Merged layout: %d applied, %d stale, %d unplaced", result.Applied, len(result.Stale), result.Unplaced)
	return result
}
