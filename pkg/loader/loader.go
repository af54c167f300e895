package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/utils"
)

// DataLoader handles loading device inventories and health payloads
type DataLoader struct {
	basePath    string
	logger      *utils.Logger
	concurrency int
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string, logger *utils.Logger) *DataLoader {
	return &DataLoader{
		basePath:    basePath,
		logger:      utils.OrNop(logger),
		concurrency: 4,
	}
}

// LoadDevices loads device lists from every YAML file below folder.
// Files are parsed concurrently; devices keep file order, then list order.
func (dl *DataLoader) LoadDevices(ctx context.Context, folder string) ([]*models.DeviceNode, error) {
	targetDir := filepath.Join(dl.basePath, folder)

	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		dl.logger.Warning("Folder %s not found, skipping", folder)
		return nil, nil
	}

	yamlFiles, err := dl.findYAMLFiles(targetDir)
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files in %s: %w", targetDir, err)
	}

	if len(yamlFiles) == 0 {
		dl.logger.Warning("No YAML files found in %s", folder)
		return nil, nil
	}

	perFile := make([][]*models.DeviceNode, len(yamlFiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dl.concurrency)

	for i, file := range yamlFiles {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			devices, err := dl.loadFile(file)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", file, err)
			}
			perFile[i] = devices
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var devices []*models.DeviceNode
	for _, list := range perFile {
		devices = append(devices, list...)
	}

	dl.logger.Debug("Loaded %d devices from %s", len(devices), folder)
	return devices, nil
}

// LoadInventory loads a device folder and builds the tree
func (dl *DataLoader) LoadInventory(ctx context.Context, folder string) (*models.DeviceNode, error) {
	devices, err := dl.LoadDevices(ctx, folder)
	if err != nil {
		return nil, err
	}
	return BuildTree(devices), nil
}

// loadFile loads a single YAML file holding a list of devices
func (dl *DataLoader) loadFile(path string) ([]*models.DeviceNode, error) {
	content, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var devices []*models.DeviceNode
	if err := yaml.Unmarshal(content, &devices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	kept := devices[:0]
	for _, d := range devices {
		if d == nil {
			continue
		}
		if d.ID == "" {
			d.ID = d.IP
		}
		if d.ID == "" {
			d.ID = utils.Slugify(d.Hostname)
		}
		if d.ID == "" {
			dl.logger.Warning("Skipping device %q in %s: no id, ip or hostname", d.Name, filepath.Base(path))
			continue
		}
		kept = append(kept, d)
	}
	return kept, nil
}

// BuildTree files a flat device list under a root. The first device marked
// root becomes the root; without one a synthetic gateway is used. Every
// other device goes into the infrastructure, servers or clients group.
func BuildTree(devices []*models.DeviceNode) *models.DeviceNode {
	var root *models.DeviceNode
	for _, d := range devices {
		if d.Root {
			root = d
			break
		}
	}
	if root == nil {
		root = &models.DeviceNode{
			ID:   constants.DefaultRootID,
			Name: constants.DefaultRootName,
			Role: models.RoleGateway,
		}
	}

	groups := make(map[string][]*models.DeviceNode)
	for _, d := range devices {
		if d == root || d.IsGroup() {
			continue
		}
		id := models.GroupFor(d.Role)
		groups[id] = append(groups[id], d)
	}

	for _, id := range []string{constants.GroupInfrastructure, constants.GroupServers, constants.GroupClients} {
		if len(groups[id]) == 0 {
			continue
		}
		g := root.Group(id)
		g.Children = append(g.Children, groups[id]...)
	}

	return root
}

// LoadTree reads a device tree from a scan result (JSON) or YAML file.
// A layout document is accepted too; its tree is returned.
func (dl *DataLoader) LoadTree(path string) (*models.DeviceNode, error) {
	content, err := readFile(dl.resolve(path))
	if err != nil {
		return nil, err
	}

	var root *models.DeviceNode
	if isYAML(path) {
		root, err = ParseTreeYAML(content)
	} else {
		root, err = ParseTree(content)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tree %s: %w", path, err)
	}

	dl.logger.Debug("Loaded tree %s with %d devices", path, len(root.Devices()))
	return root, nil
}

// ParseTree decodes a JSON device tree, or the tree inside a layout document
func ParseTree(data []byte) (*models.DeviceNode, error) {
	var probe struct {
		Root *models.DeviceNode `json:"root"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if probe.Root != nil {
		return probe.Root, nil
	}

	var root models.DeviceNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if root.ID == "" {
		return nil, fmt.Errorf("tree root has no id")
	}
	return &root, nil
}

// ParseTreeYAML decodes a YAML device tree
func ParseTreeYAML(data []byte) (*models.DeviceNode, error) {
	var root models.DeviceNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if root.ID == "" {
		return nil, fmt.Errorf("tree root has no id")
	}
	return &root, nil
}

// LoadHealth reads a list of health metrics from a JSON or YAML file
func (dl *DataLoader) LoadHealth(path string) ([]models.HealthMetric, error) {
	content, err := readFile(dl.resolve(path))
	if err != nil {
		return nil, err
	}

	var metrics []models.HealthMetric
	if isYAML(path) {
		err = yaml.Unmarshal(content, &metrics)
	} else {
		metrics, err = ParseHealth(content)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load health %s: %w", path, err)
	}

	dl.logger.Debug("Loaded %d health metrics from %s", len(metrics), path)
	return metrics, nil
}

// ParseHealth decodes a JSON health payload: either a bare list or
// {"metrics": [...]}
func ParseHealth(data []byte) ([]models.HealthMetric, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var wrapped struct {
			Metrics []models.HealthMetric `json:"metrics"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return wrapped.Metrics, nil
	}

	var metrics []models.HealthMetric
	if err := json.Unmarshal(data, &metrics); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return metrics, nil
}

func (dl *DataLoader) resolve(path string) string {
	if filepath.IsAbs(path) || dl.basePath == "" {
		return path
	}
	return filepath.Join(dl.basePath, path)
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

func isYAML(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// findYAMLFiles recursively finds all YAML files in a directory, sorted
func (dl *DataLoader) findYAMLFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && isYAML(path) {
			files = append(files, path)
		}

		return nil
	})

	sort.Strings(files)
	return files, err
}
