// Package render turns a layout pass into a drawable scene. Render is a
// pure function of its input.
package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/topology"
	"github.com/braunma/netmap/pkg/utils"
	"github.com/braunma/netmap/pkg/viewport"
)

// Input is everything a scene depends on
type Input struct {
	Nodes     []*topology.DrawNode
	Links     []topology.DrawLink
	Selected  string
	Health    map[string]models.HealthStatus
	Transform viewport.Transform
	Width     float64
	Height    float64
}

// NodeShape is one drawn device
type NodeShape struct {
	ID       string              `json:"id"`
	Label    string              `json:"label"`
	Role     models.Role         `json:"role"`
	Icon     string              `json:"icon"`
	X        float64             `json:"x"`
	Y        float64             `json:"y"`
	Depth    int                 `json:"depth"`
	Radius   float64             `json:"radius"`
	Ring     string              `json:"ring"`
	Selected bool                `json:"selected"`
	Halo     string              `json:"halo,omitempty"`
	Status   models.HealthStatus `json:"status,omitempty"`
	Glow     string              `json:"glow,omitempty"`
}

// EdgeLabel is a speed label placed on the curve midpoint
type EdgeLabel struct {
	Text  string  `json:"text"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// EdgeShape is one drawn link: a cubic curve from source to target
type EdgeShape struct {
	Source   string     `json:"source"`
	Target   string     `json:"target"`
	Path     string     `json:"path"`
	Fallback bool       `json:"fallback,omitempty"`
	Label    *EdgeLabel `json:"label,omitempty"`
}

// Scene is a full frame
type Scene struct {
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Transform viewport.Transform `json:"transform"`
	Nodes     []NodeShape        `json:"nodes"`
	Edges     []EdgeShape        `json:"edges"`
}

// Render builds the scene for one frame
func Render(in Input) *Scene {
	scene := &Scene{
		Width:     in.Width,
		Height:    in.Height,
		Transform: in.Transform,
		Nodes:     make([]NodeShape, 0, len(in.Nodes)),
		Edges:     make([]EdgeShape, 0, len(in.Links)),
	}

	for _, l := range in.Links {
		if l.Source == nil || l.Target == nil {
			continue
		}
		scene.Edges = append(scene.Edges, edgeShape(l))
	}

	for _, n := range in.Nodes {
		scene.Nodes = append(scene.Nodes, nodeShape(n, in))
	}

	return scene
}

func nodeShape(n *topology.DrawNode, in Input) NodeShape {
	v := VisualFor(n.Role)
	shape := NodeShape{
		ID:     n.ID,
		Label:  nodeLabel(n),
		Role:   n.Role,
		Icon:   v.Icon,
		X:      n.X,
		Y:      n.Y,
		Depth:  n.Depth,
		Radius: constants.NodeRadius,
		Ring:   v.Ring,
	}

	if in.Selected != "" && n.ID == in.Selected {
		shape.Selected = true
		shape.Halo = constants.SelectionColor
	}

	shape.Status, shape.Glow = glow(n, in.Health)
	return shape
}

func nodeLabel(n *topology.DrawNode) string {
	switch {
	case n.Name != "":
		return n.Name
	case n.Source != nil && n.Source.Hostname != "":
		return n.Source.Hostname
	case n.IP != "":
		return n.IP
	default:
		return n.ID
	}
}

// glow picks the health overlay color. Devices with monitoring disabled,
// or with no metric for their address, get none.
func glow(n *topology.DrawNode, health map[string]models.HealthStatus) (models.HealthStatus, string) {
	if n.Source == nil || !n.Source.IsMonitored() || len(health) == 0 {
		return "", ""
	}
	status, ok := health[topology.Address(n.Source)]
	if !ok {
		return "", ""
	}
	return status, utils.GetStatusColor(string(status))
}

func edgeShape(l topology.DrawLink) EdgeShape {
	x1, y1 := l.Source.X, l.Source.Y
	x2, y2 := l.Target.X, l.Target.Y

	edge := EdgeShape{
		Source:   l.Source.ID,
		Target:   l.Target.ID,
		Path:     CurvePath(x1, y1, x2, y2),
		Fallback: l.Fallback,
	}

	if l.Target.Source != nil && l.Target.Source.ConnectionSpeed != "" {
		x, y, angle := LabelPlacement(x1, y1, x2, y2)
		edge.Label = &EdgeLabel{Text: l.Target.Source.ConnectionSpeed, X: x, Y: y, Angle: angle}
	}

	return edge
}

// CurvePath is the horizontal-bias cubic from (x1,y1) to (x2,y2): both
// control points sit on the vertical through the horizontal midpoint.
func CurvePath(x1, y1, x2, y2 float64) string {
	mx := (x1 + x2) / 2
	return fmt.Sprintf("M%s,%s C%s,%s %s,%s %s,%s",
		num(x1), num(y1), num(mx), num(y1), num(mx), num(y2), num(x2), num(y2))
}

// LabelPlacement returns the curve midpoint and the tangent angle there
// in degrees, flipped so text never reads upside down.
func LabelPlacement(x1, y1, x2, y2 float64) (x, y, angle float64) {
	x = (x1 + x2) / 2
	y = (y1 + y2) / 2

	dx := 0.75 * (x2 - x1)
	dy := 1.5 * (y2 - y1)
	if dx == 0 && dy == 0 {
		return x, y, 0
	}

	angle = math.Atan2(dy, dx) * 180 / math.Pi
	if angle > 90 {
		angle -= 180
	} else if angle < -90 {
		angle += 180
	}
	return x, y, angle
}

// Fingerprint reduces a health payload to sorted ip:status pairs joined by |.
// Two payloads with the same statuses have the same fingerprint.
func Fingerprint(metrics []models.HealthMetric) string {
	byIP := models.HealthByIP(metrics)

	pairs := make([]string, 0, len(byIP))
	for ip, status := range byIP {
		pairs = append(pairs, ip+":"+string(status))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
