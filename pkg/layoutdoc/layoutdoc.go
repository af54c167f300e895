// Package layoutdoc reads and writes layout documents: the full device tree
// with per-node fx/fy and the camera, as JSON.
package layoutdoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-version"

	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/positions"
)

// ErrUnsupportedVersion is returned for documents outside the readable range
var ErrUnsupportedVersion = errors.New("unsupported layout document version")

var supported = version.MustConstraints(version.NewConstraint(constants.LayoutDocConstraint))

// Export snapshots the tree with every stored position written into fx/fy.
// The live tree is not modified.
func Export(root *models.DeviceNode, store *positions.Store, vp *models.ViewportState, now time.Time) *models.LayoutDocument {
	tree := root.Clone()
	if store != nil {
		tree.Walk(func(n *models.DeviceNode) bool {
			if n.IsGroup() {
				return true
			}
			if pos, ok := store.Get(n.ID); ok {
				n.SetPosition(pos.X, pos.Y)
			}
			return true
		})
	}

	return &models.LayoutDocument{
		Version:  constants.LayoutDocVersion,
		SavedAt:  now.UTC(),
		Root:     tree,
		Viewport: vp,
	}
}

// Positions collects fx/fy from the document tree, keyed by device id
func Positions(doc *models.LayoutDocument) map[string]positions.Position {
	out := make(map[string]positions.Position)
	if doc == nil || doc.Root == nil {
		return out
	}
	doc.Root.Walk(func(n *models.DeviceNode) bool {
		if !n.IsGroup() && n.HasManualPosition() {
			out[n.ID] = positions.Position{X: *n.FX, Y: *n.FY}
		}
		return true
	})
	return out
}

// CheckVersion validates a document version. Documents without one predate
// versioning and are read as 1.0.
func CheckVersion(v string) error {
	if v == "" {
		return nil
	}
	parsed, err := version.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, v)
	}
	if !supported.Check(parsed) {
		return fmt.Errorf("%w: %s (want %s)", ErrUnsupportedVersion, v, constants.LayoutDocConstraint)
	}
	return nil
}

// Marshal encodes a document as indented JSON
func Marshal(doc *models.LayoutDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout document: %w", err)
	}
	return data, nil
}

// Import decodes and validates a document
func Import(data []byte) (*models.LayoutDocument, error) {
	var doc models.LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse layout document: %w", err)
	}
	if err := CheckVersion(doc.Version); err != nil {
		return nil, err
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("layout document has no root")
	}
	return &doc, nil
}

// SaveFile writes doc to path
func SaveFile(path string, doc *models.LayoutDocument) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create layout directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write layout document: %w", err)
	}
	return nil
}

// LoadFile reads and validates the document at path
func LoadFile(path string) (*models.LayoutDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout document: %w", err)
	}
	return Import(data)
}
