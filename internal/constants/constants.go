package constants

// Layout defaults (content coordinates, pixels)
const (
	DefaultMarginX        = 80.0
	DefaultColumnWidth    = 220.0
	DefaultRowGap         = 90.0
	DefaultViewportWidth  = 1200.0
	DefaultViewportHeight = 800.0
)

// Viewport defaults
const (
	DefaultMinScale     = 0.1
	DefaultMaxScale     = 4.0
	DefaultZoomFactor   = 1.3
	DefaultCenterScale  = 1.5
	DefaultFitPadding   = 60.0
	DefaultFitMaxScale  = 2.0
	DefaultTransitionMs = 750
	DefaultZoomMs       = 300
)

// Interaction defaults
const (
	DefaultClickThreshold = 5.0
)

// Render defaults
const (
	NodeRadius      = 22.0
	HaloPadding     = 8.0
	GlowPadding     = 5.0
	EdgeLabelOffset = 10.0
)

// Synthetic group containers. Structural only, never drawn.
const (
	GroupInfrastructure = "group:infrastructure"
	GroupServers        = "group:servers"
	GroupClients        = "group:clients"
)

// GroupNames maps group ids to display names
var GroupNames = map[string]string{
	GroupInfrastructure: "Infrastructure",
	GroupServers:        "Servers",
	GroupClients:        "Clients",
}

// Synthetic root used when an inventory does not mark one
const (
	DefaultRootID   = "gateway"
	DefaultRootName = "Gateway"
)

// Layout document format
const (
	LayoutDocVersion    = "1.1.0"
	LayoutDocConstraint = ">= 1.0, < 2.0"
)

// Store backends
const (
	StoreBackendMemory = "memory"
	StoreBackendFile   = "file"
	StoreBackendRedis  = "redis"
)

// DefaultRedisKey is the hash holding positions for the current view
const DefaultRedisKey = "netmap:positions"

// Health glow colors by status
var StatusColorMap = map[string]string{
	"healthy":   "22c55e",
	"degraded":  "f59e0b",
	"unhealthy": "ef4444",
	"unknown":   "9ca3af",
}

// Selection halo color
const SelectionColor = "3b82f6"

// Data-layer endpoints
const (
	SourceTreePath   = "/api/topology"
	SourceHealthPath = "/api/health"
)
