package topology

import (
	"github.com/braunma/netmap/pkg/utils"
)

// DrawLink connects a node to its effective parent
type DrawLink struct {
	Source   *DrawNode
	Target   *DrawNode
	Fallback bool
}

// ResolveLinks produces exactly one inbound link per non-root node.
// Nodes whose parent cannot be resolved are linked to the root and the
// link is flagged, so a broken parent chain never hides a node.
func ResolveLinks(root *DrawNode, nodes []*DrawNode, logger *utils.Logger) []DrawLink {
	if root == nil {
		return nil
	}
	logger = utils.OrNop(logger)

	byID := make(map[string]*DrawNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	links := make([]DrawLink, 0, len(nodes))
	for _, n := range nodes {
		if n == root || n.ID == root.ID {
			continue
		}

		if parent, ok := byID[n.ParentID]; ok && parent != n {
			link := DrawLink{Source: parent, Target: n}
			if n.Fallback != FallbackNone {
				link.Fallback = true
				logger.Warning("Device %s has %s parent %q, linked to root", n.ID, n.Fallback, n.Source.ParentID)
			}
			links = append(links, link)
			continue
		}

		if n.Depth == 1 {
			links = append(links, DrawLink{Source: root, Target: n})
			continue
		}

		logger.Warning("Device %s (depth %d) has no resolvable parent %q, linked to root", n.ID, n.Depth, n.ParentID)
		links = append(links, DrawLink{Source: root, Target: n, Fallback: true})
	}

	return links
}
