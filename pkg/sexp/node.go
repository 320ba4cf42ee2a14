// Package sexp provides the s-expression infrastructure shared by the
// schematic codec and the symbol library loader. It contains a streaming
// lexer and parser for the KiCad file dialect, a node model that keeps the
// distinction between bare symbols and quoted strings, and a deterministic
// writer that reproduces the layout KiCad itself emits.
package sexp

import (
	"strconv"
	"strings"
)

// Node is an s-expression node: a Symbol, a Str, or a *List.
type Node interface {
	// IsLeaf returns true for atoms (Symbol, Str).
	IsLeaf() bool

	// String returns the serialized form of the node.
	String() string
}

// Symbol is an unquoted atom (identifier, keyword, number).
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) String() string { return string(s) }

// Str is a quoted string atom. The value is stored unescaped.
type Str string

func (s Str) IsLeaf() bool { return true }

func (s Str) String() string {
	return `"` + escape(string(s)) + `"`
}

// List is a parenthesized sequence of nodes.
type List struct {
	Elements []Node
}

func (l *List) IsLeaf() bool { return false }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, e := range l.Elements {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Get returns the element at index, or nil when out of bounds.
func (l *List) Get(index int) Node {
	if index < 0 || index >= len(l.Elements) {
		return nil
	}
	return l.Elements[index]
}

// Len returns the number of elements in the list.
func (l *List) Len() int { return len(l.Elements) }

// Name returns the first symbol of a list (the node type). An atom returns
// its own text.
func Name(n Node) string {
	switch v := n.(type) {
	case Symbol:
		return string(v)
	case Str:
		return string(v)
	case *List:
		if len(v.Elements) > 0 {
			if sym, ok := v.Elements[0].(Symbol); ok {
				return string(sym)
			}
		}
	}
	return ""
}

// Find searches the direct children of a list for a sub-list whose first
// symbol matches key. A bare symbol child matching key is returned as well,
// so boolean flags like (pin ... hide) can be located uniformly.
func Find(n Node, key string) (Node, bool) {
	list, ok := n.(*List)
	if !ok {
		return nil, false
	}
	for _, item := range list.Elements {
		switch v := item.(type) {
		case Symbol:
			if string(v) == key {
				return v, true
			}
		case *List:
			if Name(v) == key {
				return v, true
			}
		}
	}
	return nil, false
}

// FindAll returns all direct sub-lists whose first symbol matches key.
func FindAll(n Node, key string) []Node {
	list, ok := n.(*List)
	if !ok {
		return nil
	}
	var out []Node
	for _, item := range list.Elements {
		if sub, ok := item.(*List); ok && Name(sub) == key {
			out = append(out, sub)
		}
	}
	return out
}

// HasFlag reports whether a list contains the bare symbol flag.
func HasFlag(n Node, flag string) bool {
	list, ok := n.(*List)
	if !ok {
		return false
	}
	for _, item := range list.Elements {
		if sym, ok := item.(Symbol); ok && string(sym) == flag {
			return true
		}
	}
	return false
}

// StringAt returns the text of the atom at index in a list. Index 0 is the
// node name, 1 the first value. Both symbols and quoted strings qualify.
func StringAt(n Node, index int) (string, bool) {
	list, ok := n.(*List)
	if !ok {
		return "", false
	}
	switch v := list.Get(index).(type) {
	case Symbol:
		return string(v), true
	case Str:
		return string(v), true
	}
	return "", false
}

// FloatAt parses the atom at index as a float64.
func FloatAt(n Node, index int) (float64, bool) {
	s, ok := StringAt(n, index)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IntAt parses the atom at index as an int.
func IntAt(n Node, index int) (int, bool) {
	s, ok := StringAt(n, index)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
