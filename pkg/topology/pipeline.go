package topology

import (
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/positions"
	"github.com/braunma/netmap/pkg/utils"
)

// Result is one complete layout pass
type Result struct {
	Index    *Index
	Ordering *Ordering
	Root     *DrawNode
	Nodes    []*DrawNode
	Links    []DrawLink

	byID map[string]*DrawNode
}

// Run indexes, sorts, places and links the tree in one synchronous pass
func Run(root *models.DeviceNode, store *positions.Store, cfg Config, logger *utils.Logger) *Result {
	logger = utils.OrNop(logger)

	idx := NewIndex(root)
	for _, id := range idx.Duplicates() {
		logger.Warning("Duplicate device id %s, keeping the first occurrence", id)
	}

	ord := Sort(idx)
	nodes := Place(idx, ord, store, cfg)

	res := &Result{
		Index:    idx,
		Ordering: ord,
		Nodes:    nodes,
		byID:     make(map[string]*DrawNode, len(nodes)),
	}
	for _, n := range nodes {
		res.byID[n.ID] = n
	}
	if len(nodes) > 0 {
		res.Root = nodes[0]
	}
	res.Links = ResolveLinks(res.Root, nodes, logger)

	logger.Debug("Layout: %d nodes, %d links, %d levels", len(nodes), len(res.Links), len(ord.Levels))
	return res
}

// Node returns the draw node for id
func (r *Result) Node(id string) (*DrawNode, bool) {
	n, ok := r.byID[id]
	return n, ok
}

// Position returns the placed coordinates of id
func (r *Result) Position(id string) (x, y float64, ok bool) {
	n, ok := r.byID[id]
	if !ok {
		return 0, 0, false
	}
	return n.X, n.Y, true
}

// Inbound returns the link ending at id, if any
func (r *Result) Inbound(id string) (DrawLink, bool) {
	for _, l := range r.Links {
		if l.Target.ID == id {
			return l, true
		}
	}
	return DrawLink{}, false
}
