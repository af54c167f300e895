package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/utils"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestDataLoaderInitialization(t *testing.T) {
	logger := utils.NewLogger(true)
	loader := NewDataLoader("/test/path", logger)

	if loader == nil {
		t.Fatal("NewDataLoader() returned nil")
	}

	if loader.logger == nil {
		t.Error("DataLoader logger is nil")
	}
}

func TestLoadDevicesKeepsFileOrder(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "devices", "a-core.yaml"), `
- id: 10.0.0.1
  name: core
  role: switch
- ip: 10.0.0.2
  name: edge
  role: ap
  parent_id: 10.0.0.1
`)
	writeFile(t, filepath.Join(base, "devices", "b", "servers.yml"), `
- id: 10.0.0.10
  role: server
- name: nameless
- hostname: Backup NAS
  role: nas
`)
	writeFile(t, filepath.Join(base, "devices", "notes.txt"), "ignored")

	loader := NewDataLoader(base, nil)
	devices, err := loader.LoadDevices(context.Background(), "devices")
	if err != nil {
		t.Fatalf("LoadDevices() error = %v", err)
	}

	expected := []string{"10.0.0.1", "10.0.0.2", "10.0.0.10", "backup-nas"}
	if len(devices) != len(expected) {
		t.Fatalf("LoadDevices() returned %d devices, expected %d", len(devices), len(expected))
	}
	for i, d := range devices {
		if d.ID != expected[i] {
			t.Errorf("devices[%d] = %q, expected %q", i, d.ID, expected[i])
		}
	}
	if devices[1].Role != models.RoleSwitch {
		t.Errorf("ap alias parsed as %v, expected %v", devices[1].Role, models.RoleSwitch)
	}
}

func TestLoadDevicesMissingFolder(t *testing.T) {
	loader := NewDataLoader(t.TempDir(), nil)
	devices, err := loader.LoadDevices(context.Background(), "nope")
	if err != nil || devices != nil {
		t.Errorf("LoadDevices(missing) = %v, %v; expected nil, nil", devices, err)
	}
}

func TestLoadDevicesBadYAML(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "devices", "bad.yaml"), "id: [unterminated")

	loader := NewDataLoader(base, nil)
	if _, err := loader.LoadDevices(context.Background(), "devices"); err == nil {
		t.Error("LoadDevices() with bad YAML returned nil error")
	}
}

func TestBuildTree(t *testing.T) {
	tests := []struct {
		name     string
		devices  []*models.DeviceNode
		rootID   string
		groupIDs []string
	}{
		{
			name: "marked root",
			devices: []*models.DeviceNode{
				{ID: "10.0.0.50", Role: models.RoleClient},
				{ID: "10.0.0.254", Role: models.RoleGateway, Root: true},
				{ID: "10.0.0.10", Role: models.RoleServer},
			},
			rootID:   "10.0.0.254",
			groupIDs: []string{"group:servers", "group:clients"},
		},
		{
			name: "synthetic root",
			devices: []*models.DeviceNode{
				{ID: "10.0.0.1", Role: models.RoleSwitch},
				{ID: "10.0.0.40", Role: models.RoleNAS},
				{ID: "x", Role: models.RoleUnknown},
			},
			rootID:   "gateway",
			groupIDs: []string{"group:infrastructure", "group:servers", "group:clients"},
		},
		{
			name:     "empty",
			rootID:   "gateway",
			groupIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := BuildTree(tt.devices)
			if root.ID != tt.rootID {
				t.Errorf("root = %q, expected %q", root.ID, tt.rootID)
			}
			if len(root.Children) != len(tt.groupIDs) {
				t.Fatalf("root has %d groups, expected %d", len(root.Children), len(tt.groupIDs))
			}
			for i, g := range root.Children {
				if g.ID != tt.groupIDs[i] || !g.IsGroup() {
					t.Errorf("group[%d] = %q, expected %q", i, g.ID, tt.groupIDs[i])
				}
			}
			if got := len(root.Devices()); got != len(tt.devices)-boolToInt(tt.rootID != "gateway") {
				t.Errorf("tree holds %d devices", got)
			}
		})
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestParseTree(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		rootID  string
		wantErr bool
	}{
		{
			name:   "scan result",
			data:   `{"id":"r","role":"gateway","children":[{"id":"10.0.0.1","role":"switch"}]}`,
			rootID: "r",
		},
		{
			name:   "layout document",
			data:   `{"version":"1.1.0","root":{"id":"gw","children":[{"id":"a","fx":1,"fy":2}]}}`,
			rootID: "gw",
		},
		{name: "no id", data: `{"name":"x"}`, wantErr: true},
		{name: "garbage", data: `nope`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := ParseTree([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTree() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && root.ID != tt.rootID {
				t.Errorf("root = %q, expected %q", root.ID, tt.rootID)
			}
		})
	}
}

func TestLoadTreeYAML(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "tree.yaml"), `
id: r
role: router
children:
  - id: 10.0.0.1
    role: firewall
`)

	root, err := NewDataLoader(base, nil).LoadTree("tree.yaml")
	if err != nil {
		t.Fatalf("LoadTree() error = %v", err)
	}
	if root.Role != models.RoleGateway || len(root.Children) != 1 || root.Children[0].Role != models.RoleFirewall {
		t.Errorf("tree = %+v", root)
	}
}

func TestLoadHealth(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "health.yaml"), `
- ip: 10.0.0.1
  status: healthy
- ip: 10.0.0.2
  status: DOWN
`)
	writeFile(t, filepath.Join(base, "health.json"), `{"metrics":[{"ip":"10.0.0.3","status":"degraded"}]}`)
	writeFile(t, filepath.Join(base, "list.json"), `[{"ip":"10.0.0.4","status":"unhealthy"}]`)

	loader := NewDataLoader(base, nil)

	tests := []struct {
		file     string
		ip       string
		expected models.HealthStatus
	}{
		{file: "health.yaml", ip: "10.0.0.2", expected: models.StatusUnknown},
		{file: "health.json", ip: "10.0.0.3", expected: models.StatusDegraded},
		{file: "list.json", ip: "10.0.0.4", expected: models.StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			metrics, err := loader.LoadHealth(tt.file)
			if err != nil {
				t.Fatalf("LoadHealth() error = %v", err)
			}
			if got := models.HealthByIP(metrics)[tt.ip]; got != tt.expected {
				t.Errorf("status of %s = %q, expected %q", tt.ip, got, tt.expected)
			}
		})
	}
}
