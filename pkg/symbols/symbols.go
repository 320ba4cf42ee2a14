// Package symbols resolves schematic symbol definitions from KiCad
// symbol libraries (.kicad_sym files). Definitions are cached per
// library identifier, so repeated placements of the same part parse the
// library file once.
package symbols

import (
	"fmt"

	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/sexp"
)

// LookupError reports a symbol or pin that could not be resolved.
type LookupError struct {
	LibID string
	Pin   string
}

func (e *LookupError) Error() string {
	if e.Pin != "" {
		return fmt.Sprintf("symbols: no pin %q on %q", e.Pin, e.LibID)
	}
	return fmt.Sprintf("symbols: symbol %q not found", e.LibID)
}

// Pin is a connection point of a symbol unit, in library coordinates.
// Library space has the y axis growing upward, the opposite of the
// schematic canvas.
type Pin struct {
	Number string
	Name   string
	Type   string
	At     geom.Pt
	Angle  float64
	Length float64
	Unit   int
	Hidden bool
}

// Stroke describes the outline of a graphic item.
type Stroke struct {
	Width float64
	Type  string
}

// Graphic is one drawing primitive of a symbol body. Exactly one of the
// shape fields is set, selected by Kind.
type Graphic struct {
	Kind   string // "rectangle", "polyline", "circle", "arc"
	Unit   int
	Start  geom.Pt
	End    geom.Pt
	Mid    geom.Pt
	Center geom.Pt
	Radius float64
	Pts    geom.Pts
	Stroke Stroke
	Fill   string
}

// Definition is a resolved library symbol. Raw holds the unmodified
// parsed form so a schematic can embed the definition verbatim in its
// lib_symbols table.
type Definition struct {
	LibID      string
	Name       string
	Raw        *sexp.List
	Pins       []Pin
	Graphics   []Graphic
	Properties map[string]string
	HidePinNum bool
	UnitCount  int
}

// Pin returns the pin with the given number or name, restricted to the
// common unit and the requested unit. Numbers take precedence over
// names.
func (d *Definition) Pin(id string, unit int) (*Pin, error) {
	for i := range d.Pins {
		p := &d.Pins[i]
		if p.Number == id && (p.Unit == 0 || p.Unit == unit) {
			return p, nil
		}
	}
	for i := range d.Pins {
		p := &d.Pins[i]
		if p.Name == id && (p.Unit == 0 || p.Unit == unit) {
			return p, nil
		}
	}
	return nil, &LookupError{LibID: d.LibID, Pin: id}
}

// UnitPins returns all pins belonging to unit, including common pins.
func (d *Definition) UnitPins(unit int) []Pin {
	var out []Pin
	for _, p := range d.Pins {
		if p.Unit == 0 || p.Unit == unit {
			out = append(out, p)
		}
	}
	return out
}

// UnitGraphics returns the drawing primitives for unit, including the
// common unit body.
func (d *Definition) UnitGraphics(unit int) []Graphic {
	var out []Graphic
	for _, g := range d.Graphics {
		if g.Unit == 0 || g.Unit == unit {
			out = append(out, g)
		}
	}
	return out
}

// IsPower reports whether the symbol is a power symbol such as a ground
// or rail flag.
func (d *Definition) IsPower() bool {
	raw := d.Raw
	if raw == nil {
		return false
	}
	_, found := sexp.Find(raw, "power")
	return found
}
