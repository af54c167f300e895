package main

import (
	"context"
	"fmt"
	"os"

	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/client"
	"github.com/braunma/netmap/pkg/config"
	"github.com/braunma/netmap/pkg/interaction"
	"github.com/braunma/netmap/pkg/loader"
	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/positions"
	"github.com/braunma/netmap/pkg/utils"
	"github.com/braunma/netmap/pkg/view"
)

// app is everything a command needs, built from flags and config
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	loader *loader.DataLoader
	source *client.SourceClient
	store  *positions.Store
	view   *view.View
	close  func()
}

// loadConfig reads .env, the TOML settings and the environment overlay
func loadConfig(logger *utils.Logger) (*config.Config, error) {
	if err := config.LoadEnv(envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(settingsFile)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if storeBackend != "" {
		cfg.Store.Backend = storeBackend
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug("Store backend: %s", cfg.Store.Backend)
	return cfg, nil
}

// newApp loads config, opens the position store and loads the tree
func newApp(ctx context.Context) (*app, error) {
	logger := utils.NewLogger(verbose)

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("Failed to load configuration", err)
		return nil, err
	}

	dir, err := resolveDataDir(dataDir, logger)
	if err != nil {
		logger.Error("Failed to resolve data directory", err)
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger,
		loader: loader.NewDataLoader(dir, logger),
		close:  func() {},
	}

	if cfg.Source.URL != "" {
		a.source, err = client.NewClient(cfg.Source.URL, cfg.Source.Token, cfg.Source.Insecure, logger)
		if err != nil {
			logger.Error("Failed to initialize source client", err)
			return nil, err
		}
	}

	backend, closeFn, err := openBackend(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("Failed to open position store", err)
		return nil, err
	}
	a.close = closeFn
	a.store = positions.NewStore(backend, logger)
	if err := a.store.Load(ctx); err != nil {
		a.close()
		logger.Error("Failed to load positions", err)
		return nil, err
	}
	logger.Debug("Loaded %d stored positions", a.store.Len())

	tree, err := a.loadTree(ctx)
	if err != nil {
		a.close()
		logger.Error("Failed to load device tree", err)
		return nil, err
	}

	a.view = view.New(tree, a.store, view.Options{
		Layout:         cfg.TopologyConfig(),
		Viewport:       cfg.CameraConfig(),
		ClickThreshold: cfg.Interaction.ClickThreshold,
		Logger:         logger,
	})
	mode, err := interaction.ParseMode(cfg.Interaction.Mode)
	if err != nil {
		a.close()
		return nil, err
	}
	a.view.SetMode(mode)

	if err := a.loadHealth(ctx); err != nil {
		logger.Warning("Health overlay unavailable: %v", err)
	}

	return a, nil
}

// openBackend builds the configured persistence backend
func openBackend(ctx context.Context, sc config.StoreConfig, logger *utils.Logger) (positions.Backend, func(), error) {
	noop := func() {}

	switch sc.Backend {
	case constants.StoreBackendMemory:
		return positions.NewMemoryBackend(), noop, nil
	case constants.StoreBackendFile:
		fb := positions.NewFileBackend(sc.Path)
		logger.Debug("Positions file: %s", fb.Path())
		return fb, noop, nil
	case constants.StoreBackendRedis:
		rb, err := positions.NewRedisBackend(ctx, positions.RedisOptions{
			Address:  sc.RedisAddr,
			Password: sc.RedisPassword,
			DB:       sc.RedisDB,
			UseTLS:   sc.RedisTLS,
			Key:      sc.RedisKey,
		})
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("Positions hash %s on %s", rb.Key(), sc.RedisAddr)
		return rb, func() { _ = rb.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}

// loadTree picks the tree source: --tree file, --inventory folder, then the
// configured data layer
func (a *app) loadTree(ctx context.Context) (*models.DeviceNode, error) {
	switch {
	case treeFile != "":
		return a.loader.LoadTree(treeFile)
	case inventoryDir != "":
		return a.loader.LoadInventory(ctx, inventoryDir)
	case a.source != nil:
		a.logger.Info("Fetching device tree from %s", a.cfg.Source.URL)
		return a.source.FetchTree(ctx)
	default:
		return nil, fmt.Errorf("no device tree: pass --tree or --inventory, or set NETMAP_SOURCE_URL")
	}
}

func (a *app) loadHealth(ctx context.Context) error {
	var (
		metrics []models.HealthMetric
		err     error
	)
	switch {
	case healthFile != "":
		metrics, err = a.loader.LoadHealth(healthFile)
	case a.source != nil:
		metrics, err = a.source.FetchHealth(ctx)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	a.view.SetHealth(metrics)
	a.logger.Debug("Applied %d health metrics", len(metrics))
	return nil
}

// resolveDataDir checks that the base directory for relative paths exists
func resolveDataDir(dir string, logger *utils.Logger) (string, error) {
	if dir == "" {
		dir = "."
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("data directory %s is not a directory", dir)
	}
	logger.Debug("Using data directory: %s", dir)
	return dir, nil
}
