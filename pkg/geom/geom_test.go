package geom

import (
	"math"
	"testing"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{450, 90},
		{-90, 270},
		{-360, 0},
		{720, 0},
	}
	for _, c := range cases {
		if got := NormalizeAngle(c.in); got != c.want {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSnap(t *testing.T) {
	if got := Snap(2.6); got != 2.54 {
		t.Errorf("Snap(2.6) = %v, want 2.54", got)
	}
	if got := Snap(3.9); got != 5.08 {
		t.Errorf("Snap(3.9) = %v, want 5.08", got)
	}
}

func TestTransformRotate90(t *testing.T) {
	tr := NewTransform().Translate(Pt{10, 10}).Rotate(90)
	got := tr.Apply(Pt{0, -3.81})
	want := Pt{6.19, 10}
	if !got.Eq(want, 1e-9) {
		t.Errorf("Rotate 90 pin position = %v, want %v", got, want)
	}
}

func TestTransformRotate180(t *testing.T) {
	tr := NewTransform().Rotate(180)
	got := tr.Apply(Pt{1, 2})
	if !got.Eq(Pt{-1, -2}, 1e-9) {
		t.Errorf("Rotate 180 = %v, want (-1, -2)", got)
	}
}

func TestTransformMirror(t *testing.T) {
	tr := NewTransform().Mirror("x")
	got := tr.Apply(Pt{1, 2})
	if !got.Eq(Pt{1, -2}, 1e-9) {
		t.Errorf("Mirror x = %v, want (1, -2)", got)
	}

	tr = NewTransform().Mirror("y")
	got = tr.Apply(Pt{1, 2})
	if !got.Eq(Pt{-1, 2}, 1e-9) {
		t.Errorf("Mirror y = %v, want (-1, 2)", got)
	}
}

func TestTransformMirrorBeforeRotate(t *testing.T) {
	// placement order: translate, then rotate, then mirror in local space
	tr := NewTransform().Translate(Pt{5, 5}).Rotate(90).Mirror("x")
	got := tr.Apply(Pt{0, 3.81})
	// mirror x negates local y, rotate 90 maps (0, -3.81) to (-3.81, 0)
	// on the downward y canvas this lands left of the origin
	want := Pt{5 - 3.81, 5}
	if !got.Eq(want, 1e-9) {
		t.Errorf("Mirrored rotated pin = %v, want %v", got, want)
	}
}

func TestTransformExactOnGrid(t *testing.T) {
	tr := NewTransform().Translate(Pt{50.8, 68.58}).Rotate(270)
	got := tr.Apply(Pt{0, -3.81})
	// rotating 270 maps (0, -3.81) to (3.81, 0); no drift from trig noise
	want := Pt{54.61, 68.58}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 {
		t.Errorf("Transform drifted off grid: %v, want %v", got, want)
	}
}

func TestBBox(t *testing.T) {
	var b BBox
	if !b.Empty() {
		t.Fatal("zero BBox should be empty")
	}
	b.Union(Pt{1, 2})
	b.Union(Pt{-3, 5})
	if b.Min != (Pt{-3, 2}) || b.Max != (Pt{1, 5}) {
		t.Errorf("Unexpected bounds: %v %v", b.Min, b.Max)
	}
	if b.Width() != 4 || b.Height() != 3 {
		t.Errorf("Width/Height = %v/%v", b.Width(), b.Height())
	}
	if c := b.Center(); c != (Pt{-1, 3.5}) {
		t.Errorf("Center = %v, want (-1, 3.5)", c)
	}
	e := b.Expand(1)
	if e.Min != (Pt{-4, 1}) || e.Max != (Pt{2, 6}) {
		t.Errorf("Expanded bounds: %v %v", e.Min, e.Max)
	}
	if (BBox{}).Expand(1).Empty() != true {
		t.Error("Expanding an empty box must keep it empty")
	}
}
