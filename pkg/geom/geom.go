// Package geom provides the planar geometry used by schematic placement:
// points, bounding boxes and affine transforms in millimeters.
package geom

import "math"

// Grid is the schematic pin grid pitch in millimeters. All placement
// directives advance the cursor in multiples of this value.
const Grid = 2.54

// Pt is a point in schematic coordinates. The y axis grows downward,
// matching the KiCad canvas.
type Pt struct {
	X float64
	Y float64
}

// Add returns the componentwise sum of p and q.
func (p Pt) Add(q Pt) Pt {
	return Pt{p.X + q.X, p.Y + q.Y}
}

// Sub returns the componentwise difference of p and q.
func (p Pt) Sub(q Pt) Pt {
	return Pt{p.X - q.X, p.Y - q.Y}
}

// Dist returns the euclidean distance between p and q.
func (p Pt) Dist(q Pt) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Eq reports whether p and q coincide within eps.
func (p Pt) Eq(q Pt, eps float64) bool {
	return math.Abs(p.X-q.X) < eps && math.Abs(p.Y-q.Y) < eps
}

// Pts is a polyline of points.
type Pts []Pt

// NormalizeAngle folds an angle in degrees into [0, 360).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// Snap rounds v to the nearest multiple of the grid pitch.
func Snap(v float64) float64 {
	return math.Round(v/Grid) * Grid
}

// BBox is an axis aligned bounding box. A zero BBox is empty until the
// first Union.
type BBox struct {
	Min   Pt
	Max   Pt
	valid bool
}

// Union grows the box to include p.
func (b *BBox) Union(p Pt) {
	if !b.valid {
		b.Min, b.Max = p, p
		b.valid = true
		return
	}
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
}

// UnionBox grows the box to include the other box.
func (b *BBox) UnionBox(o BBox) {
	if !o.valid {
		return
	}
	b.Union(o.Min)
	b.Union(o.Max)
}

// Expand returns the box grown by margin on every side. An empty box
// stays empty.
func (b BBox) Expand(margin float64) BBox {
	if !b.valid {
		return b
	}
	return BBox{
		Min:   Pt{X: b.Min.X - margin, Y: b.Min.Y - margin},
		Max:   Pt{X: b.Max.X + margin, Y: b.Max.Y + margin},
		valid: true,
	}
}

// Center returns the midpoint of the box.
func (b BBox) Center() Pt {
	return Pt{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Empty reports whether no point was added yet.
func (b BBox) Empty() bool {
	return !b.valid
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	if !b.valid {
		return 0
	}
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	if !b.valid {
		return 0
	}
	return b.Max.Y - b.Min.Y
}
