package topology

import (
	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/positions"
)

// DrawNode is the render-ready projection of a device for one layout pass
type DrawNode struct {
	ID       string
	Name     string
	Role     models.Role
	IP       string
	Depth    int
	Rank     int
	X        float64
	Y        float64
	ParentID string
	Fallback FallbackReason
	Source   *models.DeviceNode
}

// Config holds the column grid geometry
type Config struct {
	MarginX        float64
	ColumnWidth    float64
	RowGap         float64
	ViewportHeight float64
}

// DefaultConfig returns the built-in grid
func DefaultConfig() Config {
	return Config{
		MarginX:        constants.DefaultMarginX,
		ColumnWidth:    constants.DefaultColumnWidth,
		RowGap:         constants.DefaultRowGap,
		ViewportHeight: constants.DefaultViewportHeight,
	}
}

// ColumnX returns the x coordinate of depth d
func (c Config) ColumnX(depth int) float64 {
	return c.MarginX + float64(depth)*c.ColumnWidth
}

// RowY returns the y coordinate of row i in a column of n nodes,
// the column being centered on half the viewport height.
func (c Config) RowY(i, n int) float64 {
	start := c.ViewportHeight/2 - float64(n-1)*c.RowGap/2
	return start + float64(i)*c.RowGap
}

// Place assigns coordinates to the root and every ordered node.
// A node's own fx/fy wins, then the store entry, then the grid slot.
// The chosen position is written back to both node and store so it
// stays frozen across later passes. The root is returned first.
func Place(idx *Index, ord *Ordering, store *positions.Store, cfg Config) []*DrawNode {
	root := idx.Root()
	if root == nil {
		return nil
	}

	nodes := make([]*DrawNode, 0, idx.Len())

	rootNode := &DrawNode{
		ID:     root.ID,
		Name:   root.Name,
		Role:   root.Role,
		IP:     root.IP,
		Source: root,
	}
	place(rootNode, store, cfg.MarginX, cfg.ViewportHeight/2)
	nodes = append(nodes, rootNode)

	for i, level := range ord.Levels {
		depth := i + 1
		x := cfg.ColumnX(depth)
		for row, n := range level {
			dn := &DrawNode{
				ID:       n.ID,
				Name:     n.Name,
				Role:     n.Role,
				IP:       n.IP,
				Depth:    depth,
				Rank:     row,
				ParentID: idx.EffectiveParent(n.ID),
				Fallback: idx.FallbackReason(n.ID),
				Source:   n,
			}
			place(dn, store, x, cfg.RowY(row, len(level)))
			nodes = append(nodes, dn)
		}
	}

	return nodes
}

func place(dn *DrawNode, store *positions.Store, x, y float64) {
	src := dn.Source
	switch {
	case src.HasManualPosition():
		x, y = *src.FX, *src.FY
	case store != nil && store.Has(dn.ID):
		pos, _ := store.Get(dn.ID)
		x, y = pos.X, pos.Y
	}

	dn.X, dn.Y = x, y
	src.SetPosition(x, y)
	if store != nil {
		store.Set(dn.ID, positions.Position{X: x, Y: y})
	}
}
