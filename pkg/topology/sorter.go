package topology

import (
	"sort"

	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/utils"
)

// Ordering is the per-depth order produced by Sort.
// Levels[0] holds depth 1, Levels[1] depth 2, and so on.
type Ordering struct {
	Levels [][]*models.DeviceNode
	Ranks  map[string]int
}

// Rank returns the position of id within its level. The root ranks 0.
func (o *Ordering) Rank(id string) int {
	return o.Ranks[id]
}

// Level returns the nodes at depth d (d >= 1)
func (o *Ordering) Level(d int) []*models.DeviceNode {
	if d < 1 || d > len(o.Levels) {
		return nil
	}
	return o.Levels[d-1]
}

// Address returns the address a node is ordered and joined by: its IP,
// or its id when no IP is recorded (ids are usually addresses).
func Address(n *models.DeviceNode) string {
	if n.IP != "" {
		return n.IP
	}
	return n.ID
}

// Sort groups nodes by depth and orders each level by the rank of the
// effective parent, then by numeric IPv4, then by document order.
func Sort(idx *Index) *Ordering {
	ord := &Ordering{Ranks: make(map[string]int)}
	if idx.root == nil {
		return ord
	}
	ord.Ranks[idx.root.ID] = 0

	levels := make([][]*models.DeviceNode, idx.MaxDepth())
	for _, n := range idx.order {
		d := idx.Depth(n.ID)
		levels[d-1] = append(levels[d-1], n)
	}

	for _, level := range levels {
		sort.SliceStable(level, func(i, j int) bool {
			pi := ord.Ranks[idx.EffectiveParent(level[i].ID)]
			pj := ord.Ranks[idx.EffectiveParent(level[j].ID)]
			if pi != pj {
				return pi < pj
			}
			return utils.CompareIPv4(Address(level[i]), Address(level[j])) < 0
		})
		for i, n := range level {
			ord.Ranks[n.ID] = i
		}
	}

	ord.Levels = levels
	return ord
}
