package models

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Role
	}{
		{
			name:     "gateway",
			input:    "gateway",
			expected: RoleGateway,
		},
		{
			name:     "router alias",
			input:    "router",
			expected: RoleGateway,
		},
		{
			name:     "ap alias",
			input:    "AP",
			expected: RoleSwitch,
		},
		{
			name:     "nas with whitespace",
			input:    "  nas ",
			expected: RoleNAS,
		},
		{
			name:     "group",
			input:    "group",
			expected: RoleGroup,
		},
		{
			name:     "unrecognised",
			input:    "toaster",
			expected: RoleUnknown,
		},
		{
			name:     "empty",
			input:    "",
			expected: RoleUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseRole(tt.input)
			if result != tt.expected {
				t.Errorf("ParseRole(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoleStringRoundTrip(t *testing.T) {
	for _, r := range Roles() {
		if got := ParseRole(r.String()); got != r {
			t.Errorf("ParseRole(%q) = %v, expected %v", r.String(), got, r)
		}
	}
	if Role(99).String() != "unknown" {
		t.Errorf("Role(99).String() = %q, expected %q", Role(99).String(), "unknown")
	}
}

func TestDeviceNodeJSONRole(t *testing.T) {
	data := []byte(`{"id":"10.0.0.2","name":"core","role":"switch","parentId":"10.0.0.1","fx":10,"fy":20}`)

	var node DeviceNode
	if err := json.Unmarshal(data, &node); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if node.Role != RoleSwitch {
		t.Errorf("Role = %v, expected %v", node.Role, RoleSwitch)
	}
	if node.ParentID != "10.0.0.1" {
		t.Errorf("ParentID = %q, expected %q", node.ParentID, "10.0.0.1")
	}
	if !node.HasManualPosition() || *node.FX != 10 || *node.FY != 20 {
		t.Errorf("manual position = (%v, %v), expected (10, 20)", node.FX, node.FY)
	}

	out, err := json.Marshal(&node)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if raw["role"] != "switch" {
		t.Errorf("marshalled role = %v, expected %q", raw["role"], "switch")
	}
}

func TestDeviceNodeYAML(t *testing.T) {
	data := []byte(`
id: nas-01
name: Storage
role: storage
ip: 10.0.0.40
parent_id: 10.0.0.2
monitoring_enabled: false
`)

	var node DeviceNode
	if err := yaml.Unmarshal(data, &node); err != nil {
		t.Fatalf("yaml.Unmarshal failed: %v", err)
	}
	if node.Role != RoleNAS {
		t.Errorf("Role = %v, expected %v", node.Role, RoleNAS)
	}
	if node.IsMonitored() {
		t.Error("IsMonitored() = true, expected false")
	}
}

func TestIsMonitoredDefault(t *testing.T) {
	node := DeviceNode{ID: "a"}
	if !node.IsMonitored() {
		t.Error("IsMonitored() should default to true")
	}
}

func testTree() *DeviceNode {
	return &DeviceNode{
		ID:   "r",
		Role: RoleGateway,
		Children: []*DeviceNode{
			{
				ID:   "group:infrastructure",
				Role: RoleGroup,
				Children: []*DeviceNode{
					{ID: "10.0.0.1", Role: RoleSwitch},
					{ID: "10.0.0.2", Role: RoleSwitch, ParentID: "10.0.0.1"},
				},
			},
			{
				ID:   "group:clients",
				Role: RoleGroup,
				Children: []*DeviceNode{
					{ID: "10.0.0.50", Role: RoleClient},
				},
			},
		},
	}
}

func TestDevicesDocumentOrder(t *testing.T) {
	devices := testTree().Devices()

	expected := []string{"10.0.0.1", "10.0.0.2", "10.0.0.50"}
	if len(devices) != len(expected) {
		t.Fatalf("Devices() returned %d nodes, expected %d", len(devices), len(expected))
	}
	for i, d := range devices {
		if d.ID != expected[i] {
			t.Errorf("Devices()[%d] = %q, expected %q", i, d.ID, expected[i])
		}
	}
}

func TestFind(t *testing.T) {
	tree := testTree()

	if n := tree.Find("10.0.0.50"); n == nil || n.Role != RoleClient {
		t.Errorf("Find(10.0.0.50) = %v", n)
	}
	if n := tree.Find("missing"); n != nil {
		t.Errorf("Find(missing) = %v, expected nil", n)
	}
}

func TestCloneIsDeep(t *testing.T) {
	tree := testTree()
	tree.Find("10.0.0.1").SetPosition(1, 2)

	clone := tree.Clone()
	clone.Find("10.0.0.1").SetPosition(5, 6)
	*clone.Find("10.0.0.1").FX = 7

	orig := tree.Find("10.0.0.1")
	if *orig.FX != 1 || *orig.FY != 2 {
		t.Errorf("original position changed to (%v, %v)", *orig.FX, *orig.FY)
	}
}

func TestParseHealthStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected HealthStatus
	}{
		{input: "healthy", expected: StatusHealthy},
		{input: "Degraded", expected: StatusDegraded},
		{input: "UNHEALTHY", expected: StatusUnhealthy},
		{input: "down", expected: StatusUnknown},
		{input: "", expected: StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseHealthStatus(tt.input); got != tt.expected {
				t.Errorf("ParseHealthStatus(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHealthByIP(t *testing.T) {
	byIP := HealthByIP([]HealthMetric{
		{IP: "10.0.0.1", Status: StatusHealthy},
		{IP: "", Status: StatusUnhealthy},
		{IP: "10.0.0.1", Status: StatusDegraded},
	})

	if len(byIP) != 1 {
		t.Fatalf("HealthByIP() returned %d entries, expected 1", len(byIP))
	}
	if byIP["10.0.0.1"] != StatusDegraded {
		t.Errorf("status = %q, expected %q", byIP["10.0.0.1"], StatusDegraded)
	}
}

func TestGroupFor(t *testing.T) {
	tests := []struct {
		role     Role
		expected string
	}{
		{role: RoleGateway, expected: "group:infrastructure"},
		{role: RoleFirewall, expected: "group:infrastructure"},
		{role: RoleNAS, expected: "group:servers"},
		{role: RoleService, expected: "group:servers"},
		{role: RoleClient, expected: "group:clients"},
		{role: RoleUnknown, expected: "group:clients"},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			if got := GroupFor(tt.role); got != tt.expected {
				t.Errorf("GroupFor(%v) = %q, expected %q", tt.role, got, tt.expected)
			}
		})
	}
}

func TestContainer(t *testing.T) {
	tree := testTree()

	c, i := tree.Container("10.0.0.2")
	if c == nil || c.ID != "group:infrastructure" || i != 1 {
		t.Errorf("Container(10.0.0.2) = %v, %d", c, i)
	}
	if c, _ := tree.Container("r"); c != nil {
		t.Errorf("Container(root) = %v, expected nil", c)
	}
}

func TestGroupCreatesOnce(t *testing.T) {
	tree := testTree()

	g := tree.Group("group:servers")
	if g.Name != "Servers" || !g.IsGroup() {
		t.Errorf("Group() = %+v", g)
	}
	if tree.Group("group:servers") != g {
		t.Error("Group() created a second container")
	}
	if tree.Group("group:clients") != tree.Children[1] {
		t.Error("Group() did not return the existing container")
	}
}
