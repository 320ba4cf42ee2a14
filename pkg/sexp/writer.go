package sexp

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// FormatFloat renders a coordinate the way KiCad does: quantized to four
// decimals (the native millimeter precision of the format) with trailing
// zeros trimmed.
func FormatFloat(f float64) string {
	q := math.Round(f*10000) / 10000
	if q == 0 {
		// Avoid "-0"
		q = 0
	}
	s := strconv.FormatFloat(q, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// Write serializes a top-level node in the KiCad layout: every sub-list on
// its own line, tab indentation, values inline after the node name.
func Write(w io.Writer, root Node) error {
	if err := writeNode(w, root, 0); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeNode(w io.Writer, n Node, indent int) error {
	list, ok := n.(*List)
	if !ok {
		_, err := io.WriteString(w, n.String())
		return err
	}

	if _, err := io.WriteString(w, strings.Repeat("\t", indent)+"("); err != nil {
		return err
	}

	// Atoms go on the node's own line; the first nested list starts a block.
	nested := false
	for i, e := range list.Elements {
		if sub, ok := e.(*List); ok {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
			if err := writeNode(w, sub, indent+1); err != nil {
				return err
			}
			nested = true
			continue
		}
		if i > 0 {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, e.String()); err != nil {
			return err
		}
	}

	if nested {
		if _, err := io.WriteString(w, "\n"+strings.Repeat("\t", indent)+")"); err != nil {
			return err
		}
		return nil
	}
	_, err := io.WriteString(w, ")")
	return err
}
