package viewport

import (
	"time"

	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/utils"
)

// Config holds the viewport size and camera limits
type Config struct {
	Width        float64
	Height       float64
	MinScale     float64
	MaxScale     float64
	ZoomFactor   float64
	CenterScale  float64
	FitPadding   float64
	FitMaxScale  float64
	Transition   time.Duration
	ZoomDuration time.Duration
}

// DefaultConfig returns the built-in camera settings
func DefaultConfig() Config {
	return Config{
		Width:        constants.DefaultViewportWidth,
		Height:       constants.DefaultViewportHeight,
		MinScale:     constants.DefaultMinScale,
		MaxScale:     constants.DefaultMaxScale,
		ZoomFactor:   constants.DefaultZoomFactor,
		CenterScale:  constants.DefaultCenterScale,
		FitPadding:   constants.DefaultFitPadding,
		FitMaxScale:  constants.DefaultFitMaxScale,
		Transition:   constants.DefaultTransitionMs * time.Millisecond,
		ZoomDuration: constants.DefaultZoomMs * time.Millisecond,
	}
}

// Lookup resolves a node id to its content position
type Lookup func(id string) (x, y float64, ok bool)

// Controller is the camera state machine. It is either idle or animating
// from one transform to another; a new request starts from wherever the
// running transition currently is and replaces it.
type Controller struct {
	cfg Config
	now func() time.Time

	from     Transform
	to       Transform
	start    time.Time
	duration time.Duration
}

// NewController creates an idle controller at the identity transform.
// now may be nil, in which case time.Now is used.
func NewController(cfg Config, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{
		cfg:  cfg,
		now:  now,
		from: Identity(),
		to:   Identity(),
	}
}

// Config returns the camera settings
func (c *Controller) Config() Config {
	return c.cfg
}

// Resize changes the viewport dimensions
func (c *Controller) Resize(width, height float64) {
	if width > 0 {
		c.cfg.Width = width
	}
	if height > 0 {
		c.cfg.Height = height
	}
}

// Current returns the transform at this instant, interpolated while animating
func (c *Controller) Current() Transform {
	if c.duration <= 0 {
		return c.to
	}
	elapsed := c.now().Sub(c.start)
	if elapsed >= c.duration {
		c.from = c.to
		c.duration = 0
		return c.to
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return interpolate(c.from, c.to, float64(elapsed)/float64(c.duration))
}

// Target returns the transform the camera will settle on
func (c *Controller) Target() Transform {
	return c.to
}

// Animating reports whether a transition is in flight
func (c *Controller) Animating() bool {
	c.Current()
	return c.duration > 0
}

// apply is the single path every transform change goes through.
// A zero duration applies t immediately.
func (c *Controller) apply(t Transform, d time.Duration) {
	t.K = c.clampScale(t.K)
	start := c.Current()

	if d <= 0 {
		c.from, c.to, c.duration = t, t, 0
		return
	}

	c.from = start
	c.to = t
	c.start = c.now()
	c.duration = d
}

func (c *Controller) clampScale(k float64) float64 {
	return utils.Clamp(k, c.cfg.MinScale, c.cfg.MaxScale)
}

// zoomAround scales base by factor keeping screen point (sx, sy) fixed
func (c *Controller) zoomAround(base Transform, sx, sy, factor float64) Transform {
	px, py := base.Invert(sx, sy)
	k := c.clampScale(base.K * factor)
	return Transform{X: sx - px*k, Y: sy - py*k, K: k}
}

// ZoomIn multiplies the scale by the zoom factor around the viewport center
func (c *Controller) ZoomIn() {
	t := c.zoomAround(c.to, c.cfg.Width/2, c.cfg.Height/2, c.cfg.ZoomFactor)
	c.apply(t, c.cfg.ZoomDuration)
}

// ZoomOut divides the scale by the zoom factor around the viewport center
func (c *Controller) ZoomOut() {
	t := c.zoomAround(c.to, c.cfg.Width/2, c.cfg.Height/2, 1/c.cfg.ZoomFactor)
	c.apply(t, c.cfg.ZoomDuration)
}

// Reset returns to the identity transform
func (c *Controller) Reset() {
	c.apply(Identity(), c.cfg.Transition)
}

// CenterOn moves the node to the viewport center at the center scale.
// Returns false when lookup does not know the id.
func (c *Controller) CenterOn(id string, lookup Lookup) bool {
	if lookup == nil {
		return false
	}
	x, y, ok := lookup(id)
	if !ok {
		return false
	}

	k := c.clampScale(c.cfg.CenterScale)
	c.apply(Transform{X: c.cfg.Width/2 - x*k, Y: c.cfg.Height/2 - y*k, K: k}, c.cfg.Transition)
	return true
}

// FitTransform computes the transform that fits points into the viewport.
// Returns false for an empty set.
func (c *Controller) FitTransform(points []Point) (Transform, bool) {
	b, ok := BoundsOf(points)
	if !ok {
		return Transform{}, false
	}

	pad := c.cfg.FitPadding
	k := c.cfg.Width / (b.Width() + 2*pad)
	if ky := c.cfg.Height / (b.Height() + 2*pad); ky < k {
		k = ky
	}
	if k > c.cfg.FitMaxScale {
		k = c.cfg.FitMaxScale
	}
	k = c.clampScale(k)

	cx, cy := b.Center()
	return Transform{X: c.cfg.Width/2 - k*cx, Y: c.cfg.Height/2 - k*cy, K: k}, true
}

// FitToBounds animates to the transform that shows every point.
// An empty set is a no-op and returns false.
func (c *Controller) FitToBounds(points []Point) bool {
	t, ok := c.FitTransform(points)
	if !ok {
		return false
	}
	c.apply(t, c.cfg.Transition)
	return true
}

// PanBy moves the camera by a screen-space delta, immediately
func (c *Controller) PanBy(dx, dy float64) {
	t := c.Current()
	t.X += dx
	t.Y += dy
	c.apply(t, 0)
}

// ZoomAt scales around a screen point, immediately (wheel and pinch)
func (c *Controller) ZoomAt(sx, sy, factor float64) {
	if factor <= 0 {
		return
	}
	c.apply(c.zoomAround(c.Current(), sx, sy, factor), 0)
}

// Set jumps to t, e.g. when restoring a saved viewport
func (c *Controller) Set(t Transform) {
	if t.K == 0 {
		t.K = 1
	}
	c.apply(t, 0)
}
