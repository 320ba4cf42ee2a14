package geom

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Transform is a 3x3 homogeneous matrix mapping symbol local coordinates
// to schematic coordinates. Build one with NewTransform and chain
// Translate, Rotate and Mirror in placement order.
type Transform struct {
	m *mat.Dense
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	m := mat.NewDense(3, 3, nil)
	m.Set(0, 0, 1)
	m.Set(1, 1, 1)
	m.Set(2, 2, 1)
	return Transform{m: m}
}

func (t Transform) mul(o *mat.Dense) Transform {
	r := mat.NewDense(3, 3, nil)
	r.Mul(t.m, o)
	return Transform{m: r}
}

// Translate composes a translation by p.
func (t Transform) Translate(p Pt) Transform {
	o := mat.NewDense(3, 3, []float64{
		1, 0, p.X,
		0, 1, p.Y,
		0, 0, 1,
	})
	return t.mul(o)
}

// Rotate composes a rotation by angle degrees. On the schematic canvas
// the y axis grows downward, so positive angles rotate counterclockwise
// as seen on screen.
func (t Transform) Rotate(angle float64) Transform {
	rad := angle * math.Pi / 180
	sin := round6(math.Sin(rad))
	cos := round6(math.Cos(rad))
	o := mat.NewDense(3, 3, []float64{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	})
	return t.mul(o)
}

// Mirror composes an axis mirror. Axis "x" flips across the horizontal
// axis (negating local y), "y" flips across the vertical axis (negating
// local x). Other values leave the transform unchanged.
func (t Transform) Mirror(axis string) Transform {
	sx, sy := 1.0, 1.0
	switch axis {
	case "x":
		sy = -1
	case "y":
		sx = -1
	default:
		return t
	}
	o := mat.NewDense(3, 3, []float64{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	})
	return t.mul(o)
}

// Apply maps a local point through the transform.
func (t Transform) Apply(p Pt) Pt {
	if t.m == nil {
		return p
	}
	v := mat.NewVecDense(3, []float64{p.X, p.Y, 1})
	r := mat.NewVecDense(3, nil)
	r.MulVec(t.m, v)
	return Pt{X: r.AtVec(0), Y: r.AtVec(1)}
}

// ApplyAll maps each point of a polyline through the transform.
func (t Transform) ApplyAll(pts Pts) Pts {
	out := make(Pts, len(pts))
	for i, p := range pts {
		out[i] = t.Apply(p)
	}
	return out
}

// PinPosition maps a pin offset from symbol library space to the
// schematic canvas. Library space has y growing upward, so the offset is
// flipped before the placement transform is applied.
func PinPosition(origin Pt, angle float64, mirror string, offset Pt) Pt {
	t := NewTransform().Translate(origin).Rotate(angle).Mirror(mirror)
	return t.Apply(Pt{X: offset.X, Y: -offset.Y})
}

// rounding the trig terms keeps right-angle transforms exact so pin
// positions land on the grid.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
