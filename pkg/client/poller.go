package client

import (
	"context"
	"time"

	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/utils"
)

// HealthSource is anything that can produce a health payload
type HealthSource interface {
	FetchHealth(ctx context.Context) ([]models.HealthMetric, error)
}

// Poller fetches health on an interval and delivers only payloads whose
// fingerprint changed
type Poller struct {
	source   HealthSource
	cache    *HealthCache
	interval time.Duration
	onChange func([]models.HealthMetric)
	logger   *utils.Logger
}

// NewPoller creates a poller. onChange runs on the polling goroutine.
func NewPoller(source HealthSource, cache *HealthCache, interval time.Duration, onChange func([]models.HealthMetric), logger *utils.Logger) *Poller {
	if cache == nil {
		cache = NewHealthCache()
	}
	return &Poller{
		source:   source,
		cache:    cache,
		interval: interval,
		onChange: onChange,
		logger:   utils.OrNop(logger),
	}
}

// Cache returns the poller's cache
func (p *Poller) Cache() *HealthCache {
	return p.cache
}

// Poll fetches once and reports whether the statuses changed
func (p *Poller) Poll(ctx context.Context) (bool, error) {
	metrics, err := p.source.FetchHealth(ctx)
	if err != nil {
		return false, err
	}

	if !p.cache.Update(metrics, time.Now()) {
		p.logger.Debug("Health unchanged (%d metrics)", len(metrics))
		return false, nil
	}

	p.logger.Debug("Health changed at %s: %s", p.cache.UpdatedAt().Format(time.RFC3339), p.cache.Fingerprint())
	if p.onChange != nil {
		p.onChange(metrics)
	}
	return true, nil
}

// Run polls immediately, then every interval until ctx is done.
// Fetch errors are logged and polling continues.
func (p *Poller) Run(ctx context.Context) error {
	if p.interval <= 0 {
		p.interval = time.Minute
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("Health poll failed", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
