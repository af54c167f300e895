// Package config holds netmap settings: a TOML file overlaid by environment
// variables (optionally loaded from a .env file).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/topology"
	"github.com/braunma/netmap/pkg/utils"
	"github.com/braunma/netmap/pkg/viewport"
)

// Config holds netmap configuration.
type Config struct {
	Layout      LayoutConfig      `toml:"layout"`
	Viewport    ViewportConfig    `toml:"viewport"`
	Interaction InteractionConfig `toml:"interaction"`
	Store       StoreConfig       `toml:"store"`
	Server      ServerConfig      `toml:"server"`
	Source      SourceConfig      `toml:"source"`
}

// LayoutConfig is the column grid.
type LayoutConfig struct {
	MarginX     float64 `toml:"margin_x"`
	ColumnWidth float64 `toml:"column_width"`
	RowGap      float64 `toml:"row_gap"`
}

// ViewportConfig is the camera.
type ViewportConfig struct {
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	MinScale     float64 `toml:"min_scale"`
	MaxScale     float64 `toml:"max_scale"`
	ZoomFactor   float64 `toml:"zoom_factor"`
	CenterScale  float64 `toml:"center_scale"`
	FitPadding   float64 `toml:"fit_padding"`
	FitMaxScale  float64 `toml:"fit_max_scale"`
	TransitionMs int     `toml:"transition_ms"`
	ZoomMs       int     `toml:"zoom_ms"`
}

// InteractionConfig controls pointer handling.
type InteractionConfig struct {
	ClickThreshold float64 `toml:"click_threshold"`
	Mode           string  `toml:"mode"` // "edit" or "pan"
}

// StoreConfig selects the position store backend.
type StoreConfig struct {
	Backend       string `toml:"backend"` // "memory", "file", "redis"
	Path          string `toml:"path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisTLS      bool   `toml:"redis_tls"`
	RedisKey      string `toml:"redis_key"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Listen         string   `toml:"listen"`
	AllowedOrigins []string `toml:"allowed_origins"`
	AutoSave       bool     `toml:"auto_save"`
}

// SourceConfig points at the data layer.
type SourceConfig struct {
	URL              string `toml:"url"`
	Token            string `toml:"token"`
	Insecure         bool   `toml:"insecure"`
	HealthIntervalMs int    `toml:"health_interval_ms"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			MarginX:     constants.DefaultMarginX,
			ColumnWidth: constants.DefaultColumnWidth,
			RowGap:      constants.DefaultRowGap,
		},
		Viewport: ViewportConfig{
			Width:        constants.DefaultViewportWidth,
			Height:       constants.DefaultViewportHeight,
			MinScale:     constants.DefaultMinScale,
			MaxScale:     constants.DefaultMaxScale,
			ZoomFactor:   constants.DefaultZoomFactor,
			CenterScale:  constants.DefaultCenterScale,
			FitPadding:   constants.DefaultFitPadding,
			FitMaxScale:  constants.DefaultFitMaxScale,
			TransitionMs: constants.DefaultTransitionMs,
			ZoomMs:       constants.DefaultZoomMs,
		},
		Interaction: InteractionConfig{
			ClickThreshold: constants.DefaultClickThreshold,
			Mode:           "edit",
		},
		Store: StoreConfig{
			Backend:  constants.StoreBackendFile,
			Path:     filepath.Join(StateDir(), "positions.json"),
			RedisKey: constants.DefaultRedisKey,
		},
		Server: ServerConfig{
			Listen:         "127.0.0.1:8080",
			AllowedOrigins: []string{"*"},
			AutoSave:       true,
		},
		Source: SourceConfig{
			HealthIntervalMs: 30000,
		},
	}
}

// ConfigDir returns the netmap config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "netmap")
}

// StateDir returns where netmap keeps positions by default.
func StateDir() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "netmap")
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path over the defaults. A missing file is
// not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// LoadEnv loads a .env file (when present) into the process environment.
// Variables already set win over the file.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays NETMAP_* environment variables onto cfg.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("NETMAP_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("NETMAP_STORE_BACKEND"); v != "" {
		c.Store.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("NETMAP_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("NETMAP_REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv("NETMAP_REDIS_PASSWORD"); v != "" {
		c.Store.RedisPassword = v
	}
	if v := os.Getenv("NETMAP_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Store.RedisDB = db
		}
	}
	if v := os.Getenv("NETMAP_SOURCE_URL"); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv("NETMAP_SOURCE_TOKEN"); v != "" {
		c.Source.Token = v
	}
}

// Validate rejects settings the layout engine cannot work with.
func (c *Config) Validate() error {
	if c.Layout.ColumnWidth <= 0 || c.Layout.RowGap <= 0 {
		return fmt.Errorf("layout column_width and row_gap must be positive")
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport width and height must be positive")
	}
	if c.Viewport.MinScale <= 0 || c.Viewport.MinScale > c.Viewport.MaxScale {
		return fmt.Errorf("viewport min_scale must be positive and <= max_scale")
	}
	if c.Viewport.ZoomFactor <= 1 {
		return fmt.Errorf("viewport zoom_factor must be > 1")
	}
	if c.Viewport.CenterScale <= 0 || c.Viewport.FitMaxScale <= 0 {
		return fmt.Errorf("viewport center_scale and fit_max_scale must be positive")
	}
	if c.Viewport.FitPadding < 0 {
		return fmt.Errorf("viewport fit_padding must not be negative")
	}
	if c.Interaction.ClickThreshold <= 0 {
		return fmt.Errorf("interaction click_threshold must be positive")
	}
	if !utils.Contains([]string{"edit", "pan"}, strings.ToLower(c.Interaction.Mode)) {
		return fmt.Errorf("unknown interaction mode %q", c.Interaction.Mode)
	}

	switch c.Store.Backend {
	case constants.StoreBackendMemory:
	case constants.StoreBackendFile:
		if c.Store.Path == "" {
			return fmt.Errorf("store path required for the file backend")
		}
	case constants.StoreBackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("redis_addr required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// TopologyConfig converts to the placer's grid, sized to the viewport height.
func (c *Config) TopologyConfig() topology.Config {
	return topology.Config{
		MarginX:        c.Layout.MarginX,
		ColumnWidth:    c.Layout.ColumnWidth,
		RowGap:         c.Layout.RowGap,
		ViewportHeight: c.Viewport.Height,
	}
}

// CameraConfig converts to the camera settings.
func (c *Config) CameraConfig() viewport.Config {
	return viewport.Config{
		Width:        c.Viewport.Width,
		Height:       c.Viewport.Height,
		MinScale:     c.Viewport.MinScale,
		MaxScale:     c.Viewport.MaxScale,
		ZoomFactor:   c.Viewport.ZoomFactor,
		CenterScale:  c.Viewport.CenterScale,
		FitPadding:   c.Viewport.FitPadding,
		FitMaxScale:  c.Viewport.FitMaxScale,
		Transition:   time.Duration(c.Viewport.TransitionMs) * time.Millisecond,
		ZoomDuration: time.Duration(c.Viewport.ZoomMs) * time.Millisecond,
	}
}

// HealthInterval is the health polling period.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.Source.HealthIntervalMs) * time.Millisecond
}
