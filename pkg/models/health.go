package models

import (
	"fmt"
	"strings"
)

// HealthStatus is the monitoring verdict for a device
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusUnknown   HealthStatus = "unknown"
)

// ParseHealthStatus normalises a status string. Unrecognised values are unknown.
func ParseHealthStatus(s string) HealthStatus {
	switch HealthStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusHealthy:
		return StatusHealthy
	case StatusDegraded:
		return StatusDegraded
	case StatusUnhealthy:
		return StatusUnhealthy
	default:
		return StatusUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *HealthStatus) UnmarshalText(text []byte) error {
	if s == nil {
		return fmt.Errorf("nil health status")
	}
	*s = ParseHealthStatus(string(text))
	return nil
}

// HealthMetric is one monitoring sample, joined to devices by IP
type HealthMetric struct {
	IP     string       `yaml:"ip" json:"ip" validate:"required"`
	Status HealthStatus `yaml:"status" json:"status"`
}

// HealthByIP indexes metrics by IP. Later entries win.
func HealthByIP(metrics []HealthMetric) map[string]HealthStatus {
	byIP := make(map[string]HealthStatus, len(metrics))
	for _, m := range metrics {
		if m.IP == "" {
			continue
		}
		byIP[m.IP] = m.Status
	}
	return byIP
}
