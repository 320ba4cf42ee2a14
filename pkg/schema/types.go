// Package schema holds the schematic document model: a placement engine
// that resolves chained directives into absolute elements, an
// incremental net model, and a codec for the KiCad schematic
// s-expression format.
package schema

import (
	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/symbols"
)

// Element is one resolved schematic item. The variant set is closed:
// the codec and the plotter switch over all implementations.
type Element interface {
	ID() string
	element()
}

// Wire is a straight conductor segment.
type Wire struct {
	Start geom.Pt
	End   geom.Pt
	UUID  string
}

func (w *Wire) ID() string { return w.UUID }
func (*Wire) element()     {}

// Junction marks crossing wires at a point as electrically connected.
type Junction struct {
	At       geom.Pt
	Diameter float64
	UUID     string
}

func (j *Junction) ID() string { return j.UUID }
func (*Junction) element()     {}

// NoConnect flags a pin as intentionally unconnected.
type NoConnect struct {
	At   geom.Pt
	UUID string
}

func (n *NoConnect) ID() string { return n.UUID }
func (*NoConnect) element()     {}

// LocalLabel names the net at its anchor point within the sheet.
type LocalLabel struct {
	Text  string
	At    geom.Pt
	Angle float64
	UUID  string
}

func (l *LocalLabel) ID() string { return l.UUID }
func (*LocalLabel) element()     {}

// GlobalLabel names a net across all sheets.
type GlobalLabel struct {
	Text  string
	Shape string
	At    geom.Pt
	Angle float64
	UUID  string
}

func (g *GlobalLabel) ID() string { return g.UUID }
func (*GlobalLabel) element()     {}

// Text is free schematic text with no electrical meaning.
type Text struct {
	Text  string
	At    geom.Pt
	Angle float64
	UUID  string
}

func (t *Text) ID() string { return t.UUID }
func (*Text) element()     {}

// Property is a symbol field such as Reference or Value.
type Property struct {
	Key     string
	Value   string
	At      geom.Pt
	Angle   float64
	Hidden  bool
	Justify string
}

// Symbol is a placed library symbol instance. At is the symbol origin on
// the canvas; pin positions derive from the library definition through
// the placement transform.
type Symbol struct {
	Ref        string
	Value      string
	LibID      string
	At         geom.Pt
	Angle      float64
	Mirror     string
	Unit       int
	InBOM      bool
	OnBoard    bool
	DNP        bool
	Properties []Property
	PinIDs     map[string]string
	Def        *symbols.Definition
	UUID       string
}

func (s *Symbol) ID() string { return s.UUID }
func (*Symbol) element()     {}

// PinPosition returns the absolute canvas position of a pin.
func (s *Symbol) PinPosition(number string) (geom.Pt, error) {
	pin, err := s.Def.Pin(number, s.Unit)
	if err != nil {
		return geom.Pt{}, err
	}
	return geom.PinPosition(s.At, s.Angle, s.Mirror, pin.At), nil
}

// Pins returns the pins of the placed unit with their absolute
// positions.
func (s *Symbol) Pins() []PlacedPin {
	defPins := s.Def.UnitPins(s.Unit)
	out := make([]PlacedPin, 0, len(defPins))
	for _, p := range defPins {
		out = append(out, PlacedPin{
			Pin: p,
			At:  geom.PinPosition(s.At, s.Angle, s.Mirror, p.At),
		})
	}
	return out
}

// Property returns the value of a named property, or "".
func (s *Symbol) Property(key string) string {
	for _, p := range s.Properties {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// PlacedPin is a library pin together with its absolute position.
type PlacedPin struct {
	Pin symbols.Pin
	At  geom.Pt
}
