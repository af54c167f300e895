package render

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/topology"
	"github.com/braunma/netmap/pkg/viewport"
)

func TestRoleVisualsTotal(t *testing.T) {
	for _, r := range models.Roles() {
		v := VisualFor(r)
		if v.Icon == "" || v.Ring == "" || v.Label == "" {
			t.Errorf("role %v has incomplete visual %+v", r, v)
		}
	}
	if VisualFor(models.Role(42)) != VisualFor(models.RoleUnknown) {
		t.Error("out-of-range role did not fall back to unknown")
	}
}

func TestCurvePath(t *testing.T) {
	got := CurvePath(0, 0, 100, 50)
	expected := "M0.00,0.00 C50.00,0.00 50.00,50.00 100.00,50.00"
	if got != expected {
		t.Errorf("CurvePath() = %q, expected %q", got, expected)
	}
}

func TestLabelPlacement(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		x, y, angle    float64
	}{
		{name: "horizontal", x1: 0, y1: 0, x2: 100, y2: 0, x: 50, y: 0, angle: 0},
		{name: "descending", x1: 0, y1: 0, x2: 100, y2: 50, x: 50, y: 25, angle: 45},
		{name: "leftward flipped upright", x1: 100, y1: 0, x2: 0, y2: 0, x: 50, y: 0, angle: 0},
		{name: "leftward descending", x1: 100, y1: 0, x2: 0, y2: 50, x: 50, y: 25, angle: -45},
		{name: "degenerate", x1: 7, y1: 7, x2: 7, y2: 7, x: 7, y: 7, angle: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, angle := LabelPlacement(tt.x1, tt.y1, tt.x2, tt.y2)
			if x != tt.x || y != tt.y || math.Abs(angle-tt.angle) > 1e-9 {
				t.Errorf("LabelPlacement() = (%v, %v, %v), expected (%v, %v, %v)", x, y, angle, tt.x, tt.y, tt.angle)
			}
			if angle > 90 || angle < -90 {
				t.Errorf("angle %v is upside down", angle)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]models.HealthMetric{
		{IP: "10.0.0.2", Status: models.StatusDegraded},
		{IP: "10.0.0.1", Status: models.StatusHealthy},
	})
	b := Fingerprint([]models.HealthMetric{
		{IP: "10.0.0.1", Status: models.StatusHealthy},
		{IP: "10.0.0.2", Status: models.StatusDegraded},
	})

	expected := "10.0.0.1:healthy|10.0.0.2:degraded"
	if a != expected {
		t.Errorf("Fingerprint() = %q, expected %q", a, expected)
	}
	if a != b {
		t.Errorf("payload order changed the fingerprint: %q vs %q", a, b)
	}
	if Fingerprint(nil) != "" {
		t.Errorf("Fingerprint(nil) = %q, expected empty", Fingerprint(nil))
	}
}

func testInput() Input {
	root := &topology.DrawNode{ID: "r", Name: "R", Role: models.RoleGateway, X: 80, Y: 400,
		Source: &models.DeviceNode{ID: "r"}}
	sw := &topology.DrawNode{ID: "10.0.0.1", Role: models.RoleSwitch, Depth: 1, X: 300, Y: 400, ParentID: "r",
		Source: &models.DeviceNode{ID: "10.0.0.1", ConnectionSpeed: "10G"}}
	quiet := &topology.DrawNode{ID: "10.0.0.2", Name: "nas <primary>", Role: models.RoleNAS, Depth: 2, X: 520, Y: 400, ParentID: "10.0.0.1",
		Source: &models.DeviceNode{ID: "10.0.0.2", MonitoringEnabled: models.Bool(false)}}
	unmatched := &topology.DrawNode{ID: "client-a", Role: models.RoleClient, Depth: 1, X: 300, Y: 490, ParentID: "r",
		Source: &models.DeviceNode{ID: "client-a", Hostname: "laptop"}}

	return Input{
		Nodes: []*topology.DrawNode{root, sw, quiet, unmatched},
		Links: []topology.DrawLink{
			{Source: root, Target: sw},
			{Source: sw, Target: quiet},
			{Source: root, Target: unmatched, Fallback: true},
		},
		Selected: "10.0.0.1",
		Health: map[string]models.HealthStatus{
			"10.0.0.1": models.StatusUnhealthy,
			"10.0.0.2": models.StatusHealthy,
			"r":        models.StatusUnknown,
		},
		Transform: viewport.Identity(),
		Width:     800,
		Height:    600,
	}
}

func TestRenderNodes(t *testing.T) {
	scene := Render(testInput())

	if len(scene.Nodes) != 4 || len(scene.Edges) != 3 {
		t.Fatalf("scene has %d nodes and %d edges, expected 4 and 3", len(scene.Nodes), len(scene.Edges))
	}

	byID := make(map[string]NodeShape)
	for _, n := range scene.Nodes {
		byID[n.ID] = n
	}

	tests := []struct {
		id       string
		label    string
		glow     string
		selected bool
	}{
		{id: "r", label: "R", glow: "9ca3af"},
		{id: "10.0.0.1", label: "10.0.0.1", glow: "ef4444", selected: true},
		{id: "10.0.0.2", label: "nas <primary>", glow: ""},
		{id: "client-a", label: "laptop", glow: ""},
	}
	for _, tt := range tests {
		n := byID[tt.id]
		if n.Label != tt.label {
			t.Errorf("node %q label = %q, expected %q", tt.id, n.Label, tt.label)
		}
		if n.Glow != tt.glow {
			t.Errorf("node %q glow = %q, expected %q", tt.id, n.Glow, tt.glow)
		}
		if n.Selected != tt.selected {
			t.Errorf("node %q selected = %v, expected %v", tt.id, n.Selected, tt.selected)
		}
	}
	if byID["10.0.0.1"].Ring != VisualFor(models.RoleSwitch).Ring {
		t.Errorf("switch ring = %q", byID["10.0.0.1"].Ring)
	}
}

func TestRenderEdgeLabels(t *testing.T) {
	scene := Render(testInput())

	labelled := 0
	for _, e := range scene.Edges {
		if e.Label == nil {
			continue
		}
		labelled++
		if e.Target != "10.0.0.1" || e.Label.Text != "10G" {
			t.Errorf("unexpected label %+v on %s -> %s", e.Label, e.Source, e.Target)
		}
		if e.Label.X != 190 || e.Label.Y != 400 {
			t.Errorf("label at (%v, %v), expected (190, 400)", e.Label.X, e.Label.Y)
		}
	}
	if labelled != 1 {
		t.Errorf("%d labelled edges, expected 1", labelled)
	}
}

func TestRenderIsPure(t *testing.T) {
	in := testInput()
	a := Render(in)
	b := Render(in)

	var bufA, bufB bytes.Buffer
	if err := WriteSVG(&bufA, a); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	if err := WriteSVG(&bufB, b); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	if bufA.String() != bufB.String() {
		t.Error("two renders of the same input differ")
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, Render(testInput())); err != nil {
		t.Fatalf("WriteSVG() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`transform="translate(0.00,0.00) scale(1.00)"`,
		`data-id="10.0.0.1" data-role="switch"`,
		`class="halo"`,
		`stroke-dasharray="6,4"`,
		`>10G</text>`,
		`nas &lt;primary&gt;`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Count(out, `class="halo"`) != 1 {
		t.Errorf("expected exactly one halo")
	}
	if strings.Count(out, `class="glow"`) != 2 {
		t.Errorf("expected two glows, got %d", strings.Count(out, `class="glow"`))
	}
}
