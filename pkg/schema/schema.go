package schema

import (
	"time"

	"github.com/google/uuid"

	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/sexp"
	"github.com/spielhuus/recad/pkg/symbols"
)

// SchemaVersion is the file format version written by this package,
// KiCad 7.0. Files from KiCad 6.0 (20211014) and later are accepted on
// load.
const (
	SchemaVersion  = 20231120
	MinimumVersion = 20211014
	Generator      = "recad"
)

// Direction is the cursor travel direction.
type Direction int

const (
	DirRight Direction = iota
	DirLeft
	DirUp
	DirDown
)

// Vector returns the unit step of the direction on the canvas. The y
// axis grows downward, so DirUp steps negative y.
func (d Direction) Vector() geom.Pt {
	switch d {
	case DirLeft:
		return geom.Pt{X: -1}
	case DirUp:
		return geom.Pt{Y: -1}
	case DirDown:
		return geom.Pt{Y: 1}
	default:
		return geom.Pt{X: 1}
	}
}

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return "right"
	}
}

// Cursor is the engine's placement state: where the next relative
// directive starts and which way it travels.
type Cursor struct {
	Pos geom.Pt
	Dir Direction
}

// Schema is the schematic document: an ordered element list, a symbol
// reference index, the placement cursor and the incremental net model.
// It is built through Add and MoveTo, and exported through Write and
// Plot.
type Schema struct {
	Version   int
	Generator string
	UUID      string
	Paper     string
	Title     string
	Date      string
	Rev       string
	Company   string

	elements []Element
	byRef    map[string]*Symbol
	libSyms  map[string]*symbols.Definition
	libOrder []string
	extras   []sexp.Node
	cursor   Cursor
	nets     *Netlist
	lib      *symbols.Library
}

// New creates an empty A4 document with the given title and the cursor
// at the origin pointing right.
func New(title string) *Schema {
	return &Schema{
		Version:   SchemaVersion,
		Generator: Generator,
		UUID:      uuid.NewString(),
		Paper:     "A4",
		Title:     title,
		Date:      time.Now().Format("2006-01-02"),
		byRef:     make(map[string]*Symbol),
		libSyms:   make(map[string]*symbols.Definition),
		nets:      NewNetlist(),
	}
}

// SetLibrary replaces the symbol resolver used by subsequent
// placements. The process wide default is used when unset.
func (s *Schema) SetLibrary(lib *symbols.Library) {
	s.lib = lib
}

func (s *Schema) library() *symbols.Library {
	if s.lib != nil {
		return s.lib
	}
	return symbols.Default()
}

// MoveTo resets the cursor position without placing anything.
func (s *Schema) MoveTo(p geom.Pt) *Schema {
	s.cursor.Pos = p
	return s
}

// Cursor returns the current placement state.
func (s *Schema) Cursor() Cursor {
	return s.cursor
}

// Elements returns the document's elements in append order. The slice
// is shared; callers must not modify it.
func (s *Schema) Elements() []Element {
	return s.elements
}

// SymbolByRef returns the placed symbol with the given reference.
func (s *Schema) SymbolByRef(ref string) (*Symbol, bool) {
	sym, ok := s.byRef[ref]
	return sym, ok
}

// Symbols returns all placed symbols in append order.
func (s *Schema) Symbols() []*Symbol {
	var out []*Symbol
	for _, el := range s.elements {
		if sym, ok := el.(*Symbol); ok {
			out = append(out, sym)
		}
	}
	return out
}

// LibSymbols returns the embedded symbol definitions in first-use order.
func (s *Schema) LibSymbols() []*symbols.Definition {
	out := make([]*symbols.Definition, 0, len(s.libOrder))
	for _, id := range s.libOrder {
		out = append(out, s.libSyms[id])
	}
	return out
}

// Netlist returns the finalized net nodes.
func (s *Schema) Netlist() []*Net {
	return s.nets.Nets()
}

// Warnings returns non-fatal connectivity findings, such as labels with
// no wire or pin underneath.
func (s *Schema) Warnings() []string {
	return s.nets.Warnings()
}

// Add commits staged directives in order. Each directive resolves
// against the current cursor into exactly one absolute element. The
// first failure aborts the remaining directives and leaves the document
// at its last valid state.
func (s *Schema) Add(directives ...Directive) error {
	for _, d := range directives {
		if err := d.resolve(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) append(el Element) {
	s.elements = append(s.elements, el)
}

func (s *Schema) registerSymbol(sym *Symbol) {
	s.byRef[sym.Ref] = sym
	if _, ok := s.libSyms[sym.LibID]; !ok {
		s.libSyms[sym.LibID] = sym.Def
		s.libOrder = append(s.libOrder, sym.LibID)
	}
}

// pinPosition resolves a (ref, pin) pair against already placed
// symbols.
func (s *Schema) pinPosition(ref, pin string) (geom.Pt, error) {
	sym, ok := s.byRef[ref]
	if !ok {
		return geom.Pt{}, &ReferenceError{Ref: ref}
	}
	p, err := sym.PinPosition(pin)
	if err != nil {
		return geom.Pt{}, &ReferenceError{Ref: ref, Pin: pin}
	}
	return p, nil
}

func newID() string {
	return uuid.NewString()
}
