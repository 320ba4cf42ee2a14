package plot

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spielhuus/recad/pkg/geom"
)

// SVG is a Plotter emitting a standalone SVG document. Canvas
// millimeters map to user units; the scale factor multiplies the
// rendered size.
type SVG struct {
	scale float64
	box   geom.BBox
	body  strings.Builder
}

// NewSVG returns an SVG backend. A scale of 0 means 1.
func NewSVG(scale float64) *SVG {
	if scale <= 0 {
		scale = 1
	}
	return &SVG{scale: scale}
}

func (s *SVG) SetView(box geom.BBox) {
	s.box = box
}

func (s *SVG) Line(pts geom.Pts, stroke Stroke) {
	if len(pts) < 2 {
		return
	}
	var d strings.Builder
	for i, p := range pts {
		if i == 0 {
			fmt.Fprintf(&d, "M %s %s", f(p.X), f(p.Y))
		} else {
			fmt.Fprintf(&d, " L %s %s", f(p.X), f(p.Y))
		}
	}
	fmt.Fprintf(&s.body, "<path d=\"%s\" %s/>\n", d.String(), s.paint(stroke))
}

func (s *SVG) Rect(min, max geom.Pt, stroke Stroke) {
	x0, x1 := math.Min(min.X, max.X), math.Max(min.X, max.X)
	y0, y1 := math.Min(min.Y, max.Y), math.Max(min.Y, max.Y)
	fmt.Fprintf(&s.body, "<rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" %s/>\n",
		f(x0), f(y0), f(x1-x0), f(y1-y0), s.paint(stroke))
}

func (s *SVG) Circle(center geom.Pt, radius float64, stroke Stroke) {
	fmt.Fprintf(&s.body, "<circle cx=\"%s\" cy=\"%s\" r=\"%s\" %s/>\n",
		f(center.X), f(center.Y), f(radius), s.paint(stroke))
}

func (s *SVG) Arc(start, mid, end geom.Pt, stroke Stroke) {
	center, radius, ok := circumcenter(start, mid, end)
	if !ok {
		s.Line(geom.Pts{start, end}, stroke)
		return
	}
	large, sweep := arcFlags(center, start, mid, end)
	fmt.Fprintf(&s.body, "<path d=\"M %s %s A %s %s 0 %d %d %s %s\" %s/>\n",
		f(start.X), f(start.Y), f(radius), f(radius), large, sweep,
		f(end.X), f(end.Y), s.paint(stroke))
}

func (s *SVG) Text(at geom.Pt, text string, angle float64, effects Effects) {
	anchor := "start"
	switch effects.Justify {
	case "right":
		anchor = "end"
	case "center":
		anchor = "middle"
	}
	transform := ""
	if angle != 0 {
		transform = fmt.Sprintf(" transform=\"rotate(%s %s %s)\"", f(-angle), f(at.X), f(at.Y))
	}
	fmt.Fprintf(&s.body,
		"<text x=\"%s\" y=\"%s\" font-size=\"%s\" font-family=\"sans-serif\" fill=\"%s\" text-anchor=\"%s\"%s>%s</text>\n",
		f(at.X), f(at.Y), f(effects.Size), effects.Color.rgb(), anchor, transform, escape(text))
}

func (s *SVG) Write(w io.Writer) error {
	view := s.box.Expand(2.54)
	width := view.Width()
	height := view.Height()

	_, err := fmt.Fprintf(w,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%smm\" height=\"%smm\" viewBox=\"%s %s %s %s\">\n",
		f(width*s.scale), f(height*s.scale), f(view.Min.X), f(view.Min.Y), f(width), f(height))
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, s.body.String()); err != nil {
		return err
	}
	_, err = io.WriteString(w, "</svg>\n")
	return err
}

func (s *SVG) paint(stroke Stroke) string {
	fill := "none"
	if stroke.Fill.A > 0 {
		fill = stroke.Fill.rgb()
	}
	return fmt.Sprintf("fill=\"%s\" stroke=\"%s\" stroke-width=\"%s\"",
		fill, stroke.Color.rgb(), f(stroke.Width))
}

func f(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return textEscaper.Replace(s)
}

// circumcenter returns the center and radius of the circle through
// three points. ok is false when the points are collinear.
func circumcenter(a, b, c geom.Pt) (geom.Pt, float64, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-9 {
		return geom.Pt{}, 0, false
	}
	aa := a.X*a.X + a.Y*a.Y
	bb := b.X*b.X + b.Y*b.Y
	cc := c.X*c.X + c.Y*c.Y
	center := geom.Pt{
		X: (aa*(b.Y-c.Y) + bb*(c.Y-a.Y) + cc*(a.Y-b.Y)) / d,
		Y: (aa*(c.X-b.X) + bb*(a.X-c.X) + cc*(b.X-a.X)) / d,
	}
	return center, center.Dist(a), true
}

// arcFlags derives the SVG large-arc and sweep flags for the arc from
// start through mid to end around center.
func arcFlags(center, start, mid, end geom.Pt) (int, int) {
	a1 := math.Atan2(start.Y-center.Y, start.X-center.X)
	am := math.Atan2(mid.Y-center.Y, mid.X-center.X)
	a2 := math.Atan2(end.Y-center.Y, end.X-center.X)

	ccw := func(from, to float64) float64 {
		d := to - from
		for d < 0 {
			d += 2 * math.Pi
		}
		return d
	}
	sweepAngle := ccw(a1, a2)
	throughMid := ccw(a1, am) <= sweepAngle

	sweep := 1
	if !throughMid {
		sweep = 0
		sweepAngle = 2*math.Pi - sweepAngle
	}
	large := 0
	if sweepAngle > math.Pi {
		large = 1
	}
	return large, sweep
}
