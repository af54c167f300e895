// Package topology turns a device tree into render-ready geometry:
// depth indexing, per-depth ordering, column placement and link resolution.
package topology

import (
	"github.com/braunma/netmap/pkg/models"
)

// FallbackReason explains why a node was attached to the root
type FallbackReason string

const (
	FallbackNone     FallbackReason = ""
	FallbackDangling FallbackReason = "dangling"
	FallbackCycle    FallbackReason = "cycle"
)

// Fallback records a node whose declared parent could not be used
type Fallback struct {
	ID       string
	ParentID string
	Reason   FallbackReason
}

// Index is the id lookup and depth table for one tree.
// Group nodes are walked through but never indexed.
type Index struct {
	root       *models.DeviceNode
	nodes      map[string]*models.DeviceNode
	order      []*models.DeviceNode
	depth      map[string]int
	parent     map[string]string
	reasons    map[string]FallbackReason
	fallbacks  []Fallback
	duplicates []string
}

// NewIndex indexes every non-group node below root and resolves all depths
func NewIndex(root *models.DeviceNode) *Index {
	idx := &Index{
		root:    root,
		nodes:   make(map[string]*models.DeviceNode),
		depth:   make(map[string]int),
		parent:  make(map[string]string),
		reasons: make(map[string]FallbackReason),
	}
	if root == nil {
		return idx
	}

	idx.nodes[root.ID] = root
	idx.depth[root.ID] = 0

	for _, n := range root.Devices() {
		if _, exists := idx.nodes[n.ID]; exists {
			idx.duplicates = append(idx.duplicates, n.ID)
			continue
		}
		idx.nodes[n.ID] = n
		idx.order = append(idx.order, n)
	}

	for _, n := range idx.order {
		idx.resolve(n.ID)
	}

	return idx
}

// resolve walks up the parent chain without recursion. The walk stops at
// the root, an already resolved node, an unknown parent or a revisit.
// The last two attach the chain end directly to the root.
func (idx *Index) resolve(id string) {
	if _, done := idx.depth[id]; done {
		return
	}

	rootID := idx.root.ID
	visited := make(map[string]bool)
	var chain []string

	base := 0
	anchor := rootID
	cur := id
	for {
		visited[cur] = true
		chain = append(chain, cur)

		p := idx.nodes[cur].ParentID
		if p == "" || p == rootID {
			break
		}
		if _, known := idx.nodes[p]; !known {
			idx.fallback(cur, p, FallbackDangling)
			break
		}
		if visited[p] {
			idx.fallback(cur, p, FallbackCycle)
			break
		}
		if d, done := idx.depth[p]; done {
			base = d
			anchor = p
			break
		}
		cur = p
	}

	d := base
	parent := anchor
	for i := len(chain) - 1; i >= 0; i-- {
		d++
		idx.depth[chain[i]] = d
		idx.parent[chain[i]] = parent
		parent = chain[i]
	}
}

func (idx *Index) fallback(id, parentID string, reason FallbackReason) {
	idx.reasons[id] = reason
	idx.fallbacks = append(idx.fallbacks, Fallback{ID: id, ParentID: parentID, Reason: reason})
}

// Root returns the indexed root
func (idx *Index) Root() *models.DeviceNode {
	return idx.root
}

// Lookup returns the node with the given id (root included)
func (idx *Index) Lookup(id string) (*models.DeviceNode, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

// Nodes returns the indexed non-root nodes in document order
func (idx *Index) Nodes() []*models.DeviceNode {
	return idx.order
}

// Len returns the number of indexed nodes, root included
func (idx *Index) Len() int {
	return len(idx.nodes)
}

// Depth returns the depth of id: 0 for the root, >= 1 for every other
// indexed node, -1 for ids not in the tree.
func (idx *Index) Depth(id string) int {
	d, ok := idx.depth[id]
	if !ok {
		return -1
	}
	return d
}

// MaxDepth returns the deepest level in the tree
func (idx *Index) MaxDepth() int {
	deepest := 0
	for _, d := range idx.depth {
		if d > deepest {
			deepest = d
		}
	}
	return deepest
}

// EffectiveParent returns the parent used for layout and links.
// It differs from ParentID when the declared parent was dangling or cyclic.
func (idx *Index) EffectiveParent(id string) string {
	return idx.parent[id]
}

// FallbackReason returns why id was attached to the root, if it was
func (idx *Index) FallbackReason(id string) FallbackReason {
	return idx.reasons[id]
}

// Fallbacks lists every node attached to the root by the guard, in resolution order
func (idx *Index) Fallbacks() []Fallback {
	return idx.fallbacks
}

// Duplicates lists ids that appeared more than once; only the first is indexed
func (idx *Index) Duplicates() []string {
	return idx.duplicates
}
