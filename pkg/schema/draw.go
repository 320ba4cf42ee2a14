package schema

import (
	"sort"
	"strconv"

	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/symbols"
)

// Directive is a staged placement. Builders carry value receivers and
// return copies, so a half-configured chain never leaks state into
// another. Nothing happens until Schema.Add resolves the directive
// against the cursor.
type Directive interface {
	resolve(*Schema) error
}

// place holds the configuration shared by all builders.
type place struct {
	dir     Direction
	hasDir  bool
	length  float64
	hasLen  bool
	angle   float64
	mirror  string
	anchor  string
	atRef   string
	atPin   string
	atPt    geom.Pt
	hasAtPt bool
	toxRef  string
	toxPin  string
	toyRef  string
	toyPin  string
	err     error
}

// start resolves the placement point: an absolute reference when given,
// the cursor otherwise.
func (p place) start(s *Schema) (geom.Pt, error) {
	switch {
	case p.atRef != "":
		return s.pinPosition(p.atRef, p.atPin)
	case p.hasAtPt:
		return p.atPt, nil
	default:
		return s.cursor.Pos, nil
	}
}

// constrain applies a tox/toy constraint to the placement point.
func (p place) constrain(s *Schema, from geom.Pt) (geom.Pt, bool, error) {
	if p.toxRef != "" {
		target, err := s.pinPosition(p.toxRef, p.toxPin)
		if err != nil {
			return geom.Pt{}, false, err
		}
		return geom.Pt{X: target.X, Y: from.Y}, true, nil
	}
	if p.toyRef != "" {
		target, err := s.pinPosition(p.toyRef, p.toyPin)
		if err != nil {
			return geom.Pt{}, false, err
		}
		return geom.Pt{X: from.X, Y: target.Y}, true, nil
	}
	return geom.Pt{}, false, nil
}

func (p *place) setMirror(axis string) {
	switch axis {
	case "x", "y":
		p.mirror = axis
	default:
		if p.err == nil {
			p.err = &ValueError{Arg: "mirror axis", Value: axis}
		}
	}
}

// WireDraw stages a wire segment.
type WireDraw struct {
	p place
}

// NewWire stages a wire starting at the cursor, traveling in the
// cursor's direction for one grid unit unless configured otherwise.
func NewWire() WireDraw { return WireDraw{} }

func (d WireDraw) Up() WireDraw    { d.p.dir, d.p.hasDir = DirUp, true; return d }
func (d WireDraw) Down() WireDraw  { d.p.dir, d.p.hasDir = DirDown, true; return d }
func (d WireDraw) Left() WireDraw  { d.p.dir, d.p.hasDir = DirLeft, true; return d }
func (d WireDraw) Right() WireDraw { d.p.dir, d.p.hasDir = DirRight, true; return d }

// Length sets the segment length in grid units of 2.54 mm.
func (d WireDraw) Length(units float64) WireDraw {
	d.p.length, d.p.hasLen = units, true
	return d
}

// At starts the wire at a placed symbol's pin instead of the cursor.
func (d WireDraw) At(ref, pin string) WireDraw {
	d.p.atRef, d.p.atPin = ref, pin
	return d
}

// AtPt starts the wire at an absolute point.
func (d WireDraw) AtPt(pt geom.Pt) WireDraw {
	d.p.atPt, d.p.hasAtPt = pt, true
	return d
}

// Tox ends the wire at the x coordinate of the target pin, keeping the
// start's y.
func (d WireDraw) Tox(ref, pin string) WireDraw {
	d.p.toxRef, d.p.toxPin = ref, pin
	return d
}

// Toy ends the wire at the y coordinate of the target pin, keeping the
// start's x.
func (d WireDraw) Toy(ref, pin string) WireDraw {
	d.p.toyRef, d.p.toyPin = ref, pin
	return d
}

func (d WireDraw) resolve(s *Schema) error {
	if d.p.err != nil {
		return d.p.err
	}
	start, err := d.p.start(s)
	if err != nil {
		return err
	}
	dir := s.cursor.Dir
	if d.p.hasDir {
		dir = d.p.dir
	}
	end, constrained, err := d.p.constrain(s, start)
	if err != nil {
		return err
	}
	if !constrained {
		units := 1.0
		if d.p.hasLen {
			units = d.p.length
		}
		v := dir.Vector()
		end = start.Add(geom.Pt{X: v.X * units * geom.Grid, Y: v.Y * units * geom.Grid})
	}
	s.append(&Wire{Start: start, End: end, UUID: newID()})
	s.nets.AddWire(start, end)
	s.cursor = Cursor{Pos: end, Dir: dir}
	return nil
}

// JunctionDraw stages a junction dot.
type JunctionDraw struct {
	p place
}

// NewJunction stages a junction at the cursor.
func NewJunction() JunctionDraw { return JunctionDraw{} }

func (d JunctionDraw) At(ref, pin string) JunctionDraw {
	d.p.atRef, d.p.atPin = ref, pin
	return d
}

func (d JunctionDraw) AtPt(pt geom.Pt) JunctionDraw {
	d.p.atPt, d.p.hasAtPt = pt, true
	return d
}

func (d JunctionDraw) resolve(s *Schema) error {
	at, err := d.p.start(s)
	if err != nil {
		return err
	}
	s.append(&Junction{At: at, UUID: newID()})
	s.nets.AddJunction(at)
	return nil
}

// LabelDraw stages a local net label.
type LabelDraw struct {
	text string
	p    place
}

// NewLabel stages a local label anchored at the cursor.
func NewLabel(text string) LabelDraw { return LabelDraw{text: text} }

// Rotate sets the label orientation in degrees.
func (d LabelDraw) Rotate(deg float64) LabelDraw {
	d.p.angle = deg
	return d
}

func (d LabelDraw) At(ref, pin string) LabelDraw {
	d.p.atRef, d.p.atPin = ref, pin
	return d
}

func (d LabelDraw) AtPt(pt geom.Pt) LabelDraw {
	d.p.atPt, d.p.hasAtPt = pt, true
	return d
}

func (d LabelDraw) resolve(s *Schema) error {
	at, err := d.p.start(s)
	if err != nil {
		return err
	}
	s.append(&LocalLabel{
		Text:  d.text,
		At:    at,
		Angle: geom.NormalizeAngle(d.p.angle),
		UUID:  newID(),
	})
	s.nets.AddLabel(at, d.text)
	return nil
}

// GlobalLabelDraw stages a global net label.
type GlobalLabelDraw struct {
	text  string
	shape string
	p     place
}

// NewGlobalLabel stages a global label anchored at the cursor.
func NewGlobalLabel(text string) GlobalLabelDraw {
	return GlobalLabelDraw{text: text, shape: "input"}
}

// Shape sets the label outline, one of input, output, bidirectional,
// tri_state or passive.
func (d GlobalLabelDraw) Shape(shape string) GlobalLabelDraw {
	d.shape = shape
	return d
}

func (d GlobalLabelDraw) Rotate(deg float64) GlobalLabelDraw {
	d.p.angle = deg
	return d
}

func (d GlobalLabelDraw) At(ref, pin string) GlobalLabelDraw {
	d.p.atRef, d.p.atPin = ref, pin
	return d
}

func (d GlobalLabelDraw) AtPt(pt geom.Pt) GlobalLabelDraw {
	d.p.atPt, d.p.hasAtPt = pt, true
	return d
}

func (d GlobalLabelDraw) resolve(s *Schema) error {
	at, err := d.p.start(s)
	if err != nil {
		return err
	}
	s.append(&GlobalLabel{
		Text:  d.text,
		Shape: d.shape,
		At:    at,
		Angle: geom.NormalizeAngle(d.p.angle),
		UUID:  newID(),
	})
	s.nets.AddLabel(at, d.text)
	return nil
}

// NoConnectDraw stages a no-connect marker.
type NoConnectDraw struct {
	p place
}

// NewNoConnect stages a no-connect marker at the cursor.
func NewNoConnect() NoConnectDraw { return NoConnectDraw{} }

func (d NoConnectDraw) At(ref, pin string) NoConnectDraw {
	d.p.atRef, d.p.atPin = ref, pin
	return d
}

func (d NoConnectDraw) AtPt(pt geom.Pt) NoConnectDraw {
	d.p.atPt, d.p.hasAtPt = pt, true
	return d
}

func (d NoConnectDraw) resolve(s *Schema) error {
	at, err := d.p.start(s)
	if err != nil {
		return err
	}
	s.append(&NoConnect{At: at, UUID: newID()})
	return nil
}

// TextDraw stages free schematic text.
type TextDraw struct {
	text string
	p    place
}

// NewText stages free text at the cursor.
func NewText(text string) TextDraw { return TextDraw{text: text} }

func (d TextDraw) Rotate(deg float64) TextDraw {
	d.p.angle = deg
	return d
}

func (d TextDraw) AtPt(pt geom.Pt) TextDraw {
	d.p.atPt, d.p.hasAtPt = pt, true
	return d
}

func (d TextDraw) resolve(s *Schema) error {
	at, err := d.p.start(s)
	if err != nil {
		return err
	}
	s.append(&Text{
		Text:  d.text,
		At:    at,
		Angle: geom.NormalizeAngle(d.p.angle),
		UUID:  newID(),
	})
	return nil
}

// SymbolDraw stages a library symbol placement.
type SymbolDraw struct {
	ref   string
	value string
	libid string
	unit  int
	p     place
}

// NewSymbol stages a symbol placement. The anchor pin (pin "1" unless
// overridden) lands on the placement point.
func NewSymbol(ref, value, libid string) SymbolDraw {
	return SymbolDraw{ref: ref, value: value, libid: libid, unit: 1}
}

// Unit selects the symbol unit for multi-unit parts.
func (d SymbolDraw) Unit(unit int) SymbolDraw {
	d.unit = unit
	return d
}

// Rotate sets the footprint rotation. The cursor travel direction is
// unaffected.
func (d SymbolDraw) Rotate(deg float64) SymbolDraw {
	d.p.angle = geom.NormalizeAngle(deg)
	return d
}

// Mirror flips the footprint about its local origin. Only "x" and "y"
// are valid axes.
func (d SymbolDraw) Mirror(axis string) SymbolDraw {
	d.p.setMirror(axis)
	return d
}

// Anchor chooses the pin that lands on the placement point.
func (d SymbolDraw) Anchor(pin string) SymbolDraw {
	d.p.anchor = pin
	return d
}

func (d SymbolDraw) At(ref, pin string) SymbolDraw {
	d.p.atRef, d.p.atPin = ref, pin
	return d
}

func (d SymbolDraw) AtPt(pt geom.Pt) SymbolDraw {
	d.p.atPt, d.p.hasAtPt = pt, true
	return d
}

// Tox aligns the placement point's x coordinate with the target pin.
func (d SymbolDraw) Tox(ref, pin string) SymbolDraw {
	d.p.toxRef, d.p.toxPin = ref, pin
	return d
}

// Toy aligns the placement point's y coordinate with the target pin.
func (d SymbolDraw) Toy(ref, pin string) SymbolDraw {
	d.p.toyRef, d.p.toyPin = ref, pin
	return d
}

func (d SymbolDraw) resolve(s *Schema) error {
	if d.p.err != nil {
		return d.p.err
	}
	if _, dup := s.byRef[d.ref]; dup {
		return &DuplicateRefError{Ref: d.ref}
	}
	def, err := s.library().Resolve(d.libid)
	if err != nil {
		return err
	}

	at, err := d.p.start(s)
	if err != nil {
		return err
	}
	if constrained, ok, cerr := d.p.constrain(s, at); cerr != nil {
		return cerr
	} else if ok {
		at = constrained
	}

	unit := d.unit
	if unit < 1 {
		unit = 1
	}
	pins := def.UnitPins(unit)

	anchor := d.p.anchor
	if anchor == "" && len(pins) > 0 {
		anchor = pins[0].Number
		for _, p := range pins {
			if p.Number == "1" {
				anchor = "1"
				break
			}
		}
	}

	origin := at
	if anchor != "" {
		pin, perr := def.Pin(anchor, unit)
		if perr != nil {
			return perr
		}
		local := geom.NewTransform().
			Rotate(d.p.angle).
			Mirror(d.p.mirror).
			Apply(geom.Pt{X: pin.At.X, Y: -pin.At.Y})
		origin = at.Sub(local)
	}

	sym := &Symbol{
		Ref:        d.ref,
		Value:      d.value,
		LibID:      def.LibID,
		At:         origin,
		Angle:      d.p.angle,
		Mirror:     d.p.mirror,
		Unit:       unit,
		InBOM:      !def.IsPower(),
		OnBoard:    true,
		Properties: defaultProperties(def, d.ref, d.value, origin),
		PinIDs:     make(map[string]string, len(pins)),
		Def:        def,
		UUID:       newID(),
	}
	for _, p := range pins {
		sym.PinIDs[p.Number] = newID()
	}
	s.append(sym)
	s.registerSymbol(sym)

	for _, pp := range sym.Pins() {
		if def.IsPower() {
			s.nets.AddPower(pp.At, sym.Value)
		} else {
			s.nets.AddPin(pp.At)
		}
	}

	s.cursor.Pos = exitPoint(sym, pins, anchor)
	return nil
}

// exitPoint picks where the cursor continues after a symbol commit: the
// unit's output pin when it has one, otherwise the pin numerically after
// the anchor, wrapping around. A pinless symbol leaves the cursor at the
// origin.
func exitPoint(sym *Symbol, pins []symbols.Pin, anchor string) geom.Pt {
	if len(pins) == 0 {
		return sym.At
	}
	for _, p := range pins {
		if p.Type == "output" {
			if at, err := sym.PinPosition(p.Number); err == nil {
				return at
			}
		}
	}

	ordered := make([]string, 0, len(pins))
	for _, p := range pins {
		ordered = append(ordered, p.Number)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, aerr := strconv.Atoi(ordered[i])
		b, berr := strconv.Atoi(ordered[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return ordered[i] < ordered[j]
	})
	next := ordered[0]
	for i, num := range ordered {
		if num == anchor {
			next = ordered[(i+1)%len(ordered)]
			break
		}
	}
	if at, err := sym.PinPosition(next); err == nil {
		return at
	}
	return sym.At
}

// defaultProperties synthesizes the standard symbol fields, positioned
// beside the body the way the schematic editor does on drop.
func defaultProperties(def *symbols.Definition, ref, value string, origin geom.Pt) []Property {
	hideRef := def.IsPower()
	props := []Property{
		{
			Key:    "Reference",
			Value:  ref,
			At:     geom.Pt{X: origin.X + 2.54, Y: origin.Y - 1.27},
			Hidden: hideRef,
		},
		{
			Key:   "Value",
			Value: value,
			At:    geom.Pt{X: origin.X + 2.54, Y: origin.Y + 1.27},
		},
	}
	for _, key := range []string{"Footprint", "Datasheet"} {
		if v, ok := def.Properties[key]; ok {
			props = append(props, Property{Key: key, Value: v, At: origin, Hidden: true})
		}
	}
	return props
}
