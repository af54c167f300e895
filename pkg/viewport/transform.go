// Package viewport owns the camera over the laid-out scene: a translate plus
// uniform scale, changed only through animated or immediate transitions.
package viewport

import "math"

// Transform maps content coordinates to screen coordinates:
// screen = content*K + (X, Y)
type Transform struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	K float64 `json:"k" yaml:"k"`
}

// Identity is the default camera
func Identity() Transform {
	return Transform{K: 1}
}

// Apply maps a content point to the screen
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point back into content coordinates
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	k := t.K
	if k == 0 {
		k = 1
	}
	return (sx - t.X) / k, (sy - t.Y) / k
}

// Equal compares two transforms within a small tolerance
func (t Transform) Equal(o Transform) bool {
	const eps = 1e-9
	return math.Abs(t.X-o.X) < eps && math.Abs(t.Y-o.Y) < eps && math.Abs(t.K-o.K) < eps
}

// Point is a content-space coordinate
type Point struct {
	X float64
	Y float64
}

// Bounds is an axis-aligned bounding box
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width of the box
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height of the box
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center of the box
func (b Bounds) Center() (float64, float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// BoundsOf returns the bounding box of points; false when empty
func BoundsOf(points []Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, true
}

// easeCubicInOut is the transition curve
func easeCubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func interpolate(from, to Transform, t float64) Transform {
	e := easeCubicInOut(t)
	return Transform{
		X: lerp(from.X, to.X, e),
		Y: lerp(from.Y, to.Y, e),
		K: lerp(from.K, to.K, e),
	}
}
