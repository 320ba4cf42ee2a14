package schema

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/sexp"
	"github.com/spielhuus/recad/pkg/symbols"
)

// Load reads a schematic file. A missing path reports ErrNotFound,
// malformed content a *FormatError. No partial document is ever
// returned.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("schema: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		var ferr *FormatError
		if errors.As(err, &ferr) && ferr.Path == "" {
			ferr.Path = path
		}
		return nil, err
	}
	return s, nil
}

// Parse reads a schematic document from r.
func Parse(r io.Reader) (*Schema, error) {
	nodes, err := sexp.Parse(r)
	if err != nil {
		return nil, &FormatError{Msg: err.Error()}
	}
	if len(nodes) != 1 {
		return nil, &FormatError{Msg: "not a kicad_sch document"}
	}
	root, isList := nodes[0].(*sexp.List)
	if !isList || sexp.Name(root) != "kicad_sch" {
		return nil, &FormatError{Msg: "not a kicad_sch document"}
	}

	s := &Schema{
		Generator: Generator,
		byRef:     make(map[string]*Symbol),
		libSyms:   make(map[string]*symbols.Definition),
		nets:      NewNetlist(),
	}

	for _, child := range root.Elements[1:] {
		list, isList := child.(*sexp.List)
		if !isList {
			s.extras = append(s.extras, child)
			continue
		}
		var perr error
		switch sexp.Name(child) {
		case "version":
			v, ok := sexp.IntAt(child, 1)
			if !ok {
				return nil, &FormatError{Msg: "malformed version node"}
			}
			s.Version = v
		case "generator":
			s.Generator, _ = sexp.StringAt(child, 1)
		case "generator_version":
			// informational, regenerated on write
		case "uuid":
			s.UUID, _ = sexp.StringAt(child, 1)
		case "paper":
			s.Paper, _ = sexp.StringAt(child, 1)
		case "title_block":
			s.parseTitleBlock(list)
		case "lib_symbols":
			perr = s.parseLibSymbols(list)
		case "wire":
			perr = s.parseWire(list)
		case "junction":
			perr = s.parseJunction(list)
		case "no_connect":
			perr = s.parseNoConnect(list)
		case "label":
			perr = s.parseLabel(list)
		case "global_label":
			perr = s.parseGlobalLabel(list)
		case "text":
			perr = s.parseText(list)
		case "symbol":
			perr = s.parseSymbolInstance(list)
		case "sheet_instances":
			// synthesized on write
		default:
			// unknown constructs pass through load and write untouched
			s.extras = append(s.extras, child)
		}
		if perr != nil {
			return nil, perr
		}
	}

	if s.Version == 0 {
		return nil, &FormatError{Msg: "missing version"}
	}
	if s.Version < MinimumVersion {
		return nil, &FormatError{Msg: fmt.Sprintf("unsupported format version %d, need %d or newer", s.Version, MinimumVersion)}
	}
	return s, nil
}

func (s *Schema) parseTitleBlock(node *sexp.List) {
	if n, ok := sexp.Find(node, "title"); ok {
		s.Title, _ = sexp.StringAt(n, 1)
	}
	if n, ok := sexp.Find(node, "date"); ok {
		s.Date, _ = sexp.StringAt(n, 1)
	}
	if n, ok := sexp.Find(node, "rev"); ok {
		s.Rev, _ = sexp.StringAt(n, 1)
	}
	if n, ok := sexp.Find(node, "company"); ok {
		s.Company, _ = sexp.StringAt(n, 1)
	}
}

func (s *Schema) parseLibSymbols(node *sexp.List) error {
	for _, child := range node.Elements {
		sub, isList := child.(*sexp.List)
		if !isList || sexp.Name(child) != "symbol" {
			continue
		}
		def, err := symbols.ParseDefinition(sub)
		if err != nil {
			return &FormatError{Msg: err.Error()}
		}
		if _, ok := s.libSyms[def.LibID]; !ok {
			s.libSyms[def.LibID] = def
			s.libOrder = append(s.libOrder, def.LibID)
		}
	}
	return nil
}

func readAt(node sexp.Node) (geom.Pt, float64, error) {
	at, ok := sexp.Find(node, "at")
	if !ok {
		return geom.Pt{}, 0, &FormatError{Msg: fmt.Sprintf("%s without position", sexp.Name(node))}
	}
	x, okx := sexp.FloatAt(at, 1)
	y, oky := sexp.FloatAt(at, 2)
	if !okx || !oky {
		return geom.Pt{}, 0, &FormatError{Msg: "malformed at node"}
	}
	angle, _ := sexp.FloatAt(at, 3)
	return geom.Pt{X: x, Y: y}, angle, nil
}

func readUUID(node sexp.Node) string {
	if n, ok := sexp.Find(node, "uuid"); ok {
		id, _ := sexp.StringAt(n, 1)
		return id
	}
	return newID()
}

func (s *Schema) parseWire(node *sexp.List) error {
	pts, ok := sexp.Find(node, "pts")
	if !ok {
		return &FormatError{Msg: "wire without points"}
	}
	xy := sexp.FindAll(pts, "xy")
	if len(xy) != 2 {
		return &FormatError{Msg: fmt.Sprintf("wire with %d points", len(xy))}
	}
	var ends [2]geom.Pt
	for i, n := range xy {
		x, okx := sexp.FloatAt(n, 1)
		y, oky := sexp.FloatAt(n, 2)
		if !okx || !oky {
			return &FormatError{Msg: "malformed wire point"}
		}
		ends[i] = geom.Pt{X: x, Y: y}
	}
	s.append(&Wire{Start: ends[0], End: ends[1], UUID: readUUID(node)})
	s.nets.AddWire(ends[0], ends[1])
	return nil
}

func (s *Schema) parseJunction(node *sexp.List) error {
	at, _, err := readAt(node)
	if err != nil {
		return err
	}
	j := &Junction{At: at, UUID: readUUID(node)}
	if d, ok := sexp.Find(node, "diameter"); ok {
		j.Diameter, _ = sexp.FloatAt(d, 1)
	}
	s.append(j)
	s.nets.AddJunction(at)
	return nil
}

func (s *Schema) parseNoConnect(node *sexp.List) error {
	at, _, err := readAt(node)
	if err != nil {
		return err
	}
	s.append(&NoConnect{At: at, UUID: readUUID(node)})
	return nil
}

func (s *Schema) parseLabel(node *sexp.List) error {
	text, ok := sexp.StringAt(node, 1)
	if !ok {
		return &FormatError{Msg: "label without text"}
	}
	at, angle, err := readAt(node)
	if err != nil {
		return err
	}
	s.append(&LocalLabel{Text: text, At: at, Angle: angle, UUID: readUUID(node)})
	s.nets.AddLabel(at, text)
	return nil
}

func (s *Schema) parseGlobalLabel(node *sexp.List) error {
	text, ok := sexp.StringAt(node, 1)
	if !ok {
		return &FormatError{Msg: "global_label without text"}
	}
	at, angle, err := readAt(node)
	if err != nil {
		return err
	}
	g := &GlobalLabel{Text: text, Shape: "input", At: at, Angle: angle, UUID: readUUID(node)}
	if sh, ok := sexp.Find(node, "shape"); ok {
		g.Shape, _ = sexp.StringAt(sh, 1)
	}
	s.append(g)
	s.nets.AddLabel(at, text)
	return nil
}

func (s *Schema) parseText(node *sexp.List) error {
	text, ok := sexp.StringAt(node, 1)
	if !ok {
		return &FormatError{Msg: "text without content"}
	}
	at, angle, err := readAt(node)
	if err != nil {
		return err
	}
	s.append(&Text{Text: text, At: at, Angle: angle, UUID: readUUID(node)})
	return nil
}

func (s *Schema) parseSymbolInstance(node *sexp.List) error {
	libNode, ok := sexp.Find(node, "lib_id")
	if !ok {
		return &FormatError{Msg: "symbol without lib_id"}
	}
	libID, _ := sexp.StringAt(libNode, 1)
	def, ok := s.libSyms[libID]
	if !ok {
		return &FormatError{Msg: fmt.Sprintf("symbol %q not in lib_symbols", libID)}
	}

	at, angle, err := readAt(node)
	if err != nil {
		return err
	}

	sym := &Symbol{
		LibID:   libID,
		At:      at,
		Angle:   angle,
		Unit:    1,
		InBOM:   true,
		OnBoard: true,
		PinIDs:  make(map[string]string),
		Def:     def,
		UUID:    readUUID(node),
	}
	if m, ok := sexp.Find(node, "mirror"); ok {
		sym.Mirror, _ = sexp.StringAt(m, 1)
	}
	if u, ok := sexp.Find(node, "unit"); ok {
		if v, okv := sexp.IntAt(u, 1); okv {
			sym.Unit = v
		}
	}
	if n, ok := sexp.Find(node, "in_bom"); ok {
		v, _ := sexp.StringAt(n, 1)
		sym.InBOM = v == "yes"
	}
	if n, ok := sexp.Find(node, "on_board"); ok {
		v, _ := sexp.StringAt(n, 1)
		sym.OnBoard = v == "yes"
	}
	if n, ok := sexp.Find(node, "dnp"); ok {
		v, _ := sexp.StringAt(n, 1)
		sym.DNP = v == "yes"
	}

	for _, child := range node.Elements {
		sub, isList := child.(*sexp.List)
		if !isList {
			continue
		}
		switch sexp.Name(child) {
		case "property":
			prop, perr := parseProperty(sub)
			if perr != nil {
				return perr
			}
			sym.Properties = append(sym.Properties, prop)
		case "pin":
			num, _ := sexp.StringAt(child, 1)
			if num != "" {
				sym.PinIDs[num] = readUUID(child)
			}
		}
	}

	sym.Ref = sym.Property("Reference")
	sym.Value = sym.Property("Value")
	if sym.Ref == "" {
		return &FormatError{Msg: fmt.Sprintf("symbol %q without Reference property", libID)}
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
	return nil
}

func parseProperty(node *sexp.List) (Property, error) {
	key, okk := sexp.StringAt(node, 1)
	val, okv := sexp.StringAt(node, 2)
	if !okk || !okv {
		return Property{}, &FormatError{Msg: "malformed property"}
	}
	prop := Property{Key: key, Value: val}
	if at, ok := sexp.Find(node, "at"); ok {
		prop.At.X, _ = sexp.FloatAt(at, 1)
		prop.At.Y, _ = sexp.FloatAt(at, 2)
		prop.Angle, _ = sexp.FloatAt(at, 3)
	}
	if eff, ok := sexp.Find(node, "effects"); ok {
		prop.Hidden = sexp.HasFlag(eff, "hide")
		if just, okj := sexp.Find(eff, "justify"); okj {
			fields := []string{}
			if list, isList := just.(*sexp.List); isList {
				for _, f := range list.Elements[1:] {
					if sym, isSym := f.(sexp.Symbol); isSym {
						fields = append(fields, string(sym))
					}
				}
			}
			prop.Justify = strings.Join(fields, " ")
		}
	}
	return prop, nil
}
