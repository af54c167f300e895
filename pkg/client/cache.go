package client

import (
	"sync"
	"time"

	"github.com/braunma/netmap/pkg/models"
	"github.com/braunma/netmap/pkg/render"
)

// HealthCache keeps the latest health payload and its fingerprint
type HealthCache struct {
	mu          sync.RWMutex
	metrics     []models.HealthMetric
	fingerprint string
	updatedAt   time.Time
	loaded      bool
}

// NewHealthCache creates an empty cache
func NewHealthCache() *HealthCache {
	return &HealthCache{}
}

// Update stores metrics and reports whether any status changed
func (hc *HealthCache) Update(metrics []models.HealthMetric, now time.Time) bool {
	fp := render.Fingerprint(metrics)

	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.updatedAt = now
	if hc.loaded && fp == hc.fingerprint {
		return false
	}

	hc.metrics = append([]models.HealthMetric(nil), metrics...)
	hc.fingerprint = fp
	hc.loaded = true
	return true
}

// Metrics returns a copy of the cached metrics
func (hc *HealthCache) Metrics() []models.HealthMetric {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	return append([]models.HealthMetric(nil), hc.metrics...)
}

// Fingerprint returns the fingerprint of the cached metrics
func (hc *HealthCache) Fingerprint() string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	return hc.fingerprint
}

// UpdatedAt returns when the cache last received a payload
func (hc *HealthCache) UpdatedAt() time.Time {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	return hc.updatedAt
}

// Size returns the number of cached metrics
func (hc *HealthCache) Size() int {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	return len(hc.metrics)
}

// Invalidate clears the cache so the next payload counts as a change
func (hc *HealthCache) Invalidate() {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.metrics = nil
	hc.fingerprint = ""
	hc.loaded = false
}
