package models

import "time"

// ViewportState is the camera transform saved alongside a layout
type ViewportState struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	K float64 `yaml:"k" json:"k"`
}

// LayoutDocument is the persisted layout: the full tree with per-node fx/fy
type LayoutDocument struct {
	Version  string         `yaml:"version" json:"version"`
	SavedAt  time.Time      `yaml:"saved_at" json:"savedAt"`
	Root     *DeviceNode    `yaml:"root" json:"root"`
	Viewport *ViewportState `yaml:"viewport,omitempty" json:"viewport,omitempty"`
}
