// Package plot renders schematics to vector output. The Plotter
// interface receives resolved canvas coordinates in millimeters; the
// SVG backend scales them on write.
package plot

import (
	"fmt"
	"io"

	"github.com/spielhuus/recad/pkg/geom"
)

// Color is an RGBA color.
type Color struct {
	R, G, B uint8
	A       float64
}

// None marks absent fill.
var None = Color{A: 0}

func (c Color) rgb() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Stroke styles an outline and optional fill.
type Stroke struct {
	Width float64
	Color Color
	Fill  Color
}

// Effects styles text output.
type Effects struct {
	Size    float64
	Color   Color
	Justify string // left, right or center
}

// Plotter is the rendering backend. Coordinates are canvas millimeters;
// the backend owns scaling and output encoding.
type Plotter interface {
	SetView(box geom.BBox)
	Line(pts geom.Pts, stroke Stroke)
	Rect(min, max geom.Pt, stroke Stroke)
	Circle(center geom.Pt, radius float64, stroke Stroke)
	Arc(start, mid, end geom.Pt, stroke Stroke)
	Text(at geom.Pt, text string, angle float64, effects Effects)
	Write(w io.Writer) error
}
