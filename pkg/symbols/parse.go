package symbols

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/sexp"
)

// ParseLibrary reads a .kicad_sym file and returns its symbol
// definitions keyed by symbol name.
func ParseLibrary(r io.Reader, libName string) (map[string]*Definition, error) {
	nodes, err := sexp.Parse(r)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("symbols: %s is not a symbol library", libName)
	}
	root, isList := nodes[0].(*sexp.List)
	if !isList || sexp.Name(root) != "kicad_symbol_lib" {
		return nil, fmt.Errorf("symbols: %s is not a symbol library", libName)
	}

	defs := make(map[string]*Definition)
	for _, child := range root.Elements {
		sub, isList := child.(*sexp.List)
		if !isList || sexp.Name(child) != "symbol" {
			continue
		}
		def, err := parseSymbol(sub, libName)
		if err != nil {
			return nil, err
		}
		defs[def.Name] = def
	}
	return defs, nil
}

// ParseDefinition parses a single (symbol ...) node whose name is a full
// library identifier, as found in a schematic's lib_symbols table.
func ParseDefinition(node *sexp.List) (*Definition, error) {
	name, ok := sexp.StringAt(node, 1)
	if !ok {
		return nil, fmt.Errorf("symbols: unnamed symbol in lib_symbols")
	}
	libName, _, _ := strings.Cut(name, ":")
	return parseSymbol(node, libName)
}

func parseSymbol(node *sexp.List, libName string) (*Definition, error) {
	name, ok := sexp.StringAt(node, 1)
	if !ok {
		return nil, fmt.Errorf("symbols: unnamed symbol in %s", libName)
	}
	libID := name
	if !strings.Contains(name, ":") {
		libID = libName + ":" + name
	} else if idx := strings.LastIndex(name, ":"); idx >= 0 {
		name = name[idx+1:]
	}
	def := &Definition{
		LibID:      libID,
		Name:       name,
		Raw:        node,
		Properties: make(map[string]string),
		UnitCount:  1,
	}
	if pn, found := sexp.Find(node, "pin_numbers"); found {
		def.HidePinNum = sexp.HasFlag(pn, "hide")
	}

	for _, child := range node.Elements {
		sub, isList := child.(*sexp.List)
		if !isList {
			continue
		}
		switch sexp.Name(child) {
		case "property":
			key, _ := sexp.StringAt(child, 1)
			val, _ := sexp.StringAt(child, 2)
			def.Properties[key] = val
		case "symbol":
			// sub-symbol name encodes unit and body style: NAME_unit_style
			subName, _ := sexp.StringAt(child, 1)
			unit := parseUnit(subName, name)
			if unit > def.UnitCount {
				def.UnitCount = unit
			}
			if err := parseUnitBody(sub, unit, def); err != nil {
				return nil, err
			}
		}
	}
	return def, nil
}

func parseUnit(subName, symName string) int {
	rest := strings.TrimPrefix(subName, symName+"_")
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) == 0 {
		return 0
	}
	unit, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	return unit
}

func parseUnitBody(node *sexp.List, unit int, def *Definition) error {
	for _, child := range node.Elements {
		if _, isList := child.(*sexp.List); !isList {
			continue
		}
		switch sexp.Name(child) {
		case "pin":
			pin, err := parsePin(child.(*sexp.List), unit)
			if err != nil {
				return err
			}
			def.Pins = append(def.Pins, pin)
		case "rectangle":
			g := Graphic{Kind: "rectangle", Unit: unit}
			g.Start = parseXY(child, "start")
			g.End = parseXY(child, "end")
			g.Stroke, g.Fill = parseStrokeFill(child)
			def.Graphics = append(def.Graphics, g)
		case "polyline":
			g := Graphic{Kind: "polyline", Unit: unit}
			if pts, found := sexp.Find(child, "pts"); found {
				for _, xy := range sexp.FindAll(pts, "xy") {
					x, _ := sexp.FloatAt(xy, 1)
					y, _ := sexp.FloatAt(xy, 2)
					g.Pts = append(g.Pts, geom.Pt{X: x, Y: y})
				}
			}
			g.Stroke, g.Fill = parseStrokeFill(child)
			def.Graphics = append(def.Graphics, g)
		case "circle":
			g := Graphic{Kind: "circle", Unit: unit}
			g.Center = parseXY(child, "center")
			if rn, found := sexp.Find(child, "radius"); found {
				g.Radius, _ = sexp.FloatAt(rn, 1)
			}
			g.Stroke, g.Fill = parseStrokeFill(child)
			def.Graphics = append(def.Graphics, g)
		case "arc":
			g := Graphic{Kind: "arc", Unit: unit}
			g.Start = parseXY(child, "start")
			g.Mid = parseXY(child, "mid")
			g.End = parseXY(child, "end")
			g.Stroke, g.Fill = parseStrokeFill(child)
			def.Graphics = append(def.Graphics, g)
		}
	}
	return nil
}

func parsePin(node *sexp.List, unit int) (Pin, error) {
	pin := Pin{Unit: unit}
	pin.Type, _ = sexp.StringAt(node, 1)
	pin.Hidden = sexp.HasFlag(node, "hide")

	at, found := sexp.Find(node, "at")
	if !found {
		return pin, fmt.Errorf("symbols: pin without position")
	}
	pin.At.X, _ = sexp.FloatAt(at, 1)
	pin.At.Y, _ = sexp.FloatAt(at, 2)
	pin.Angle, _ = sexp.FloatAt(at, 3)

	if ln, found := sexp.Find(node, "length"); found {
		pin.Length, _ = sexp.FloatAt(ln, 1)
	}
	if nn, found := sexp.Find(node, "name"); found {
		pin.Name, _ = sexp.StringAt(nn, 1)
	}
	if num, found := sexp.Find(node, "number"); found {
		pin.Number, _ = sexp.StringAt(num, 1)
	}
	return pin, nil
}

func parseXY(node sexp.Node, key string) geom.Pt {
	sub, found := sexp.Find(node, key)
	if !found {
		return geom.Pt{}
	}
	x, _ := sexp.FloatAt(sub, 1)
	y, _ := sexp.FloatAt(sub, 2)
	return geom.Pt{X: x, Y: y}
}

func parseStrokeFill(node sexp.Node) (Stroke, string) {
	var stroke Stroke
	fill := "none"
	if sn, found := sexp.Find(node, "stroke"); found {
		if wn, ok := sexp.Find(sn, "width"); ok {
			stroke.Width, _ = sexp.FloatAt(wn, 1)
		}
		if tn, ok := sexp.Find(sn, "type"); ok {
			stroke.Type, _ = sexp.StringAt(tn, 1)
		}
	}
	if fn, found := sexp.Find(node, "fill"); found {
		if tn, ok := sexp.Find(fn, "type"); ok {
			fill, _ = sexp.StringAt(tn, 1)
		}
	}
	return stroke, fill
}
