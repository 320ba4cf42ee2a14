package schema

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/plot"
	"github.com/spielhuus/recad/pkg/symbols"
)

// Plot renders the document to SVG and returns the bytes.
func (s *Schema) Plot(scale float64) ([]byte, error) {
	svg := plot.NewSVG(scale)
	s.Render(svg, plot.DefaultTheme())
	var buf bytes.Buffer
	if err := svg.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PlotFile renders the document to SVG at path.
func (s *Schema) PlotFile(scale float64, path string) error {
	svg := plot.NewSVG(scale)
	s.Render(svg, plot.DefaultTheme())

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("schema: create %s: %w", path, err)
	}
	if err := svg.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render draws the document on a plotter: wires first, then junction
// dots and no-connect markers, then symbol bodies, labels and text on
// top.
func (s *Schema) Render(p plot.Plotter, theme plot.Theme) {
	p.SetView(s.BBox())

	for _, el := range s.elements {
		if w, ok := el.(*Wire); ok {
			p.Line(geom.Pts{w.Start, w.End}, theme.Wire)
		}
	}
	for _, el := range s.elements {
		switch e := el.(type) {
		case *Junction:
			r := e.Diameter / 2
			if r == 0 {
				r = 0.4572
			}
			p.Circle(e.At, r, theme.Junction)
		case *NoConnect:
			const a = 0.635
			p.Line(geom.Pts{{X: e.At.X - a, Y: e.At.Y - a}, {X: e.At.X + a, Y: e.At.Y + a}}, theme.NoConnect)
			p.Line(geom.Pts{{X: e.At.X - a, Y: e.At.Y + a}, {X: e.At.X + a, Y: e.At.Y - a}}, theme.NoConnect)
		}
	}
	for _, el := range s.elements {
		if sym, ok := el.(*Symbol); ok {
			s.renderSymbol(p, sym, theme)
		}
	}
	for _, el := range s.elements {
		switch e := el.(type) {
		case *LocalLabel:
			p.Text(e.At, e.Text, textAngle(e.Angle), theme.Label)
		case *GlobalLabel:
			p.Text(e.At, e.Text, textAngle(e.Angle), theme.Label)
		case *Text:
			p.Text(e.At, e.Text, textAngle(e.Angle), theme.Text)
		}
	}
}

// textAngle folds an orientation into [0, 180) so text never renders
// upside down.
func textAngle(angle float64) float64 {
	a := geom.NormalizeAngle(angle)
	if a >= 180 {
		a -= 180
	}
	return a
}

func (s *Schema) renderSymbol(p plot.Plotter, sym *Symbol, theme plot.Theme) {
	t := geom.NewTransform().
		Translate(sym.At).
		Rotate(sym.Angle).
		Mirror(sym.Mirror)
	local := func(pt geom.Pt) geom.Pt {
		return t.Apply(geom.Pt{X: pt.X, Y: -pt.Y})
	}

	for _, g := range sym.Def.UnitGraphics(sym.Unit) {
		stroke := theme.Outline
		if g.Stroke.Width > 0 {
			stroke.Width = g.Stroke.Width
		}
		if g.Fill == "background" {
			stroke.Fill = theme.Fill
		}
		switch g.Kind {
		case "rectangle":
			// a rotated rectangle is no longer axis aligned
			corners := geom.Pts{
				local(g.Start),
				local(geom.Pt{X: g.End.X, Y: g.Start.Y}),
				local(g.End),
				local(geom.Pt{X: g.Start.X, Y: g.End.Y}),
				local(g.Start),
			}
			p.Line(corners, stroke)
		case "polyline":
			pts := make(geom.Pts, len(g.Pts))
			for i, pt := range g.Pts {
				pts[i] = local(pt)
			}
			p.Line(pts, stroke)
		case "circle":
			p.Circle(local(g.Center), g.Radius, stroke)
		case "arc":
			p.Arc(local(g.Start), local(g.Mid), local(g.End), stroke)
		}
	}

	for _, pin := range sym.Def.UnitPins(sym.Unit) {
		if pin.Hidden || pin.Length == 0 {
			continue
		}
		rad := pin.Angle * math.Pi / 180
		tip := geom.Pt{
			X: pin.At.X + pin.Length*math.Cos(rad),
			Y: pin.At.Y + pin.Length*math.Sin(rad),
		}
		p.Line(geom.Pts{local(pin.At), local(tip)}, theme.Pin)
	}

	for _, prop := range sym.Properties {
		if prop.Hidden || prop.Value == "" {
			continue
		}
		p.Text(prop.At, prop.Value, textAngle(prop.Angle), theme.Property)
	}
}

// BBox returns the bounding box of all rendered geometry.
func (s *Schema) BBox() geom.BBox {
	var box geom.BBox
	pad := func(p geom.Pt, m float64) {
		box.Union(geom.Pt{X: p.X - m, Y: p.Y - m})
		box.Union(geom.Pt{X: p.X + m, Y: p.Y + m})
	}

	for _, el := range s.elements {
		switch e := el.(type) {
		case *Wire:
			box.Union(e.Start)
			box.Union(e.End)
		case *Junction:
			pad(e.At, 1)
		case *NoConnect:
			pad(e.At, 1)
		case *LocalLabel:
			pad(e.At, 2.54)
		case *GlobalLabel:
			pad(e.At, 2.54)
		case *Text:
			pad(e.At, 2.54)
		case *Symbol:
			t := geom.NewTransform().
				Translate(e.At).
				Rotate(e.Angle).
				Mirror(e.Mirror)
			for _, g := range e.Def.UnitGraphics(e.Unit) {
				for _, pt := range graphicPoints(g) {
					box.Union(t.Apply(geom.Pt{X: pt.X, Y: -pt.Y}))
				}
			}
			for _, pp := range e.Pins() {
				box.Union(pp.At)
			}
		}
	}
	if box.Empty() {
		box.Union(geom.Pt{})
	}
	return box
}

func graphicPoints(g symbols.Graphic) geom.Pts {
	switch g.Kind {
	case "rectangle":
		return geom.Pts{g.Start, g.End}
	case "polyline":
		return g.Pts
	case "circle":
		return geom.Pts{
			{X: g.Center.X - g.Radius, Y: g.Center.Y - g.Radius},
			{X: g.Center.X + g.Radius, Y: g.Center.Y + g.Radius},
		}
	case "arc":
		return geom.Pts{g.Start, g.Mid, g.End}
	}
	return nil
}
