package schema

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/sexp"
	"github.com/spielhuus/recad/pkg/symbols"
)

// WriteFile serializes the document to path.
func (s *Schema) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("schema: create %s: %w", path, err)
	}
	if err := s.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write serializes the document. Output is deterministic: elements
// appear in append order, the header is synthesized even for documents
// never loaded from a file, and coordinates are quantized to KiCad's
// canonical precision.
func (s *Schema) Write(w io.Writer) error {
	root := sexp.L("kicad_sch",
		sexp.L("version", sexp.Int(s.Version)),
		sexp.L("generator", sexp.Str(s.Generator)),
		sexp.L("uuid", sexp.Str(s.UUID)),
		sexp.L("paper", sexp.Str(s.Paper)),
	)
	if tb := s.titleBlock(); tb != nil {
		root.Elements = append(root.Elements, tb)
	}
	root.Elements = append(root.Elements, s.libSymbolsNode())

	for _, el := range s.elements {
		root.Elements = append(root.Elements, s.elementNode(el))
	}
	root.Elements = append(root.Elements, s.extras...)
	root.Elements = append(root.Elements,
		sexp.L("sheet_instances",
			sexp.L("path", sexp.Str("/"),
				sexp.L("page", sexp.Str("1")))))

	return sexp.Write(w, root)
}

func (s *Schema) titleBlock() *sexp.List {
	if s.Title == "" && s.Date == "" && s.Rev == "" && s.Company == "" {
		return nil
	}
	tb := sexp.L("title_block")
	if s.Title != "" {
		tb.Elements = append(tb.Elements, sexp.L("title", sexp.Str(s.Title)))
	}
	if s.Date != "" {
		tb.Elements = append(tb.Elements, sexp.L("date", sexp.Str(s.Date)))
	}
	if s.Rev != "" {
		tb.Elements = append(tb.Elements, sexp.L("rev", sexp.Str(s.Rev)))
	}
	if s.Company != "" {
		tb.Elements = append(tb.Elements, sexp.L("company", sexp.Str(s.Company)))
	}
	return tb
}

// libSymbolsNode emits the embedded definitions with their full library
// id as the symbol name, the way the schematic format stores them.
func (s *Schema) libSymbolsNode() *sexp.List {
	node := sexp.L("lib_symbols")
	for _, def := range s.LibSymbols() {
		node.Elements = append(node.Elements, renamedDefinition(def))
	}
	return node
}

func renamedDefinition(def *symbols.Definition) *sexp.List {
	out := &sexp.List{Elements: make([]sexp.Node, len(def.Raw.Elements))}
	copy(out.Elements, def.Raw.Elements)
	if len(out.Elements) > 1 {
		out.Elements[1] = sexp.Str(def.LibID)
	}
	return out
}

func (s *Schema) elementNode(el Element) sexp.Node {
	switch e := el.(type) {
	case *Wire:
		return sexp.L("wire",
			sexp.L("pts", xy(e.Start), xy(e.End)),
			sexp.L("stroke",
				sexp.L("width", sexp.Num(0)),
				sexp.L("type", sexp.Symbol("default"))),
			uuidNode(e.UUID))
	case *Junction:
		return sexp.L("junction",
			at(e.At),
			sexp.L("diameter", sexp.Num(e.Diameter)),
			sexp.L("color", sexp.Num(0), sexp.Num(0), sexp.Num(0), sexp.Num(0)),
			uuidNode(e.UUID))
	case *NoConnect:
		return sexp.L("no_connect", at(e.At), uuidNode(e.UUID))
	case *LocalLabel:
		return sexp.L("label", sexp.Str(e.Text),
			atAngle(e.At, e.Angle),
			effects(false, labelJustify(e.Angle)),
			uuidNode(e.UUID))
	case *GlobalLabel:
		return sexp.L("global_label", sexp.Str(e.Text),
			sexp.L("shape", sexp.Symbol(e.Shape)),
			atAngle(e.At, e.Angle),
			effects(false, labelJustify(e.Angle)),
			uuidNode(e.UUID))
	case *Text:
		return sexp.L("text", sexp.Str(e.Text),
			atAngle(e.At, e.Angle),
			effects(false, ""),
			uuidNode(e.UUID))
	case *Symbol:
		return s.symbolNode(e)
	}
	// the variant set is closed; reaching this is a bug
	panic(fmt.Sprintf("schema: unknown element %T", el))
}

func (s *Schema) symbolNode(sym *Symbol) *sexp.List {
	node := sexp.L("symbol",
		sexp.L("lib_id", sexp.Str(sym.LibID)),
		atAngle(sym.At, sym.Angle))
	if sym.Mirror != "" {
		node.Elements = append(node.Elements,
			sexp.L("mirror", sexp.Symbol(sym.Mirror)))
	}
	node.Elements = append(node.Elements,
		sexp.L("unit", sexp.Int(sym.Unit)),
		sexp.L("in_bom", sexp.YesNo(sym.InBOM)),
		sexp.L("on_board", sexp.YesNo(sym.OnBoard)),
		sexp.L("dnp", sexp.YesNo(sym.DNP)),
		uuidNode(sym.UUID))

	for i, p := range sym.Properties {
		node.Elements = append(node.Elements, propertyNode(p, i))
	}

	numbers := make([]string, 0, len(sym.PinIDs))
	for num := range sym.PinIDs {
		numbers = append(numbers, num)
	}
	sort.Strings(numbers)
	for _, num := range numbers {
		node.Elements = append(node.Elements,
			sexp.L("pin", sexp.Str(num), uuidNode(sym.PinIDs[num])))
	}

	node.Elements = append(node.Elements,
		sexp.L("instances",
			sexp.L("project", sexp.Str(s.Generator),
				sexp.L("path", sexp.Str("/"+s.UUID),
					sexp.L("reference", sexp.Str(sym.Ref)),
					sexp.L("unit", sexp.Int(sym.Unit))))))
	return node
}

func propertyNode(p Property, id int) *sexp.List {
	node := sexp.L("property", sexp.Str(p.Key), sexp.Str(p.Value),
		sexp.L("id", sexp.Int(id)),
		atAngle(p.At, p.Angle),
		effects(p.Hidden, p.Justify))
	return node
}

func effects(hidden bool, justify string) *sexp.List {
	node := sexp.L("effects",
		sexp.L("font", sexp.L("size", sexp.Num(1.27), sexp.Num(1.27))))
	if justify != "" {
		just := sexp.L("justify")
		for _, f := range strings.Fields(justify) {
			just.Elements = append(just.Elements, sexp.Symbol(f))
		}
		node.Elements = append(node.Elements, just)
	}
	if hidden {
		node.Elements = append(node.Elements, sexp.Symbol("hide"))
	}
	return node
}

// labelJustify anchors label text away from its attachment point.
// Orientations of 180 and above render as folded text flowing the other
// way, so the anchor flips to the right edge.
func labelJustify(angle float64) string {
	if geom.NormalizeAngle(angle) >= 180 {
		return "right bottom"
	}
	return "left bottom"
}

func xy(p geom.Pt) *sexp.List {
	return sexp.L("xy", sexp.Num(p.X), sexp.Num(p.Y))
}

func at(p geom.Pt) *sexp.List {
	return sexp.L("at", sexp.Num(p.X), sexp.Num(p.Y))
}

func atAngle(p geom.Pt, angle float64) *sexp.List {
	return sexp.L("at", sexp.Num(p.X), sexp.Num(p.Y), sexp.Num(angle))
}

func uuidNode(id string) *sexp.List {
	return sexp.L("uuid", sexp.Str(id))
}
