package sexp

import "strconv"

// L builds a list node with a leading name symbol.
func L(name string, children ...Node) *List {
	elements := make([]Node, 0, len(children)+1)
	elements = append(elements, Symbol(name))
	elements = append(elements, children...)
	return &List{Elements: elements}
}

// Num builds a numeric atom using the canonical coordinate formatting.
func Num(f float64) Symbol {
	return Symbol(FormatFloat(f))
}

// Int builds an integer atom.
func Int(i int) Symbol {
	return Symbol(strconv.Itoa(i))
}

// YesNo builds the yes/no symbol KiCad uses for boolean flags.
func YesNo(b bool) Symbol {
	if b {
		return Symbol("yes")
	}
	return Symbol("no")
}
