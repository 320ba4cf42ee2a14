package schema

import (
	"strings"
	"testing"

	"github.com/spielhuus/recad/pkg/geom"
)

func TestPlotProducesSVG(t *testing.T) {
	s := buildOpAmp(t)
	out, err := s.Plot(1)
	if err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	svg := string(out)

	if !strings.HasPrefix(svg, "<svg ") || !strings.Contains(svg, "</svg>") {
		t.Fatal("Output is not an SVG document")
	}
	if !strings.Contains(svg, "viewBox=") {
		t.Error("Missing viewBox")
	}
	if strings.Count(svg, "<circle") < 2 {
		t.Error("Expected a filled dot per junction")
	}
	if strings.Count(svg, "<text") < 2 {
		t.Error("Expected text per label")
	}
	if !strings.Contains(svg, ">Vin</text>") || !strings.Contains(svg, ">Vout</text>") {
		t.Error("Label text missing")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("Expected wire paths")
	}
}

func TestPlotScale(t *testing.T) {
	s := newTestSchema(t, "scale")
	if err := s.Add(NewWire().Right().Length(4)); err != nil {
		t.Fatal(err)
	}
	one, err := s.Plot(1)
	if err != nil {
		t.Fatal(err)
	}
	two, err := s.Plot(2)
	if err != nil {
		t.Fatal(err)
	}
	if string(one) == string(two) {
		t.Error("Scale has no effect on output size")
	}
	if !strings.Contains(string(two), "width=\"30.48mm\"") {
		t.Errorf("Unexpected scaled width:\n%s", two)
	}
}

func TestPlotFile(t *testing.T) {
	s := buildOpAmp(t)
	path := t.TempDir() + "/opamp.svg"
	if err := s.PlotFile(1, path); err != nil {
		t.Fatalf("PlotFile failed: %v", err)
	}
}

func TestTextAngleFolding(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{90, 90},
		{180, 0},
		{270, 90},
	}
	for _, c := range cases {
		if got := textAngle(c.in); got != c.want {
			t.Errorf("textAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestBBoxCoversElements(t *testing.T) {
	s := newTestSchema(t, "bbox")
	s.MoveTo(geom.Pt{X: 10, Y: 10})
	if err := s.Add(
		NewWire().Right().Length(4),
		NewSymbol("R1", "1k", "Device:R").Rotate(90),
	); err != nil {
		t.Fatal(err)
	}
	box := s.BBox()
	if box.Empty() {
		t.Fatal("Empty bounding box")
	}
	if box.Min.X > 10 || box.Max.X < 20.16 {
		t.Errorf("Box does not cover the wire: %v %v", box.Min, box.Max)
	}
}
