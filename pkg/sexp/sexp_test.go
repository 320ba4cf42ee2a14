package sexp

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAtomKinds(t *testing.T) {
	nodes, err := ParseString(`(wire (pts (xy 1.27 2.54)) (uuid "abc-def"))`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("Expected 1 node, got %d", len(nodes))
	}

	if Name(nodes[0]) != "wire" {
		t.Errorf("Expected node name 'wire', got %q", Name(nodes[0]))
	}

	uuidNode, found := Find(nodes[0], "uuid")
	if !found {
		t.Fatal("uuid node not found")
	}
	val, ok := StringAt(uuidNode, 1)
	if !ok || val != "abc-def" {
		t.Errorf("Expected uuid 'abc-def', got %q", val)
	}

	pts, found := Find(nodes[0], "pts")
	if !found {
		t.Fatal("pts node not found")
	}
	xy := FindAll(pts, "xy")
	if len(xy) != 1 {
		t.Fatalf("Expected 1 xy node, got %d", len(xy))
	}
	x, _ := FloatAt(xy[0], 1)
	y, _ := FloatAt(xy[0], 2)
	if x != 1.27 || y != 2.54 {
		t.Errorf("Expected (1.27, 2.54), got (%v, %v)", x, y)
	}
}

func TestParseStringEscapes(t *testing.T) {
	nodes, err := ParseString(`(property "Value" "10k \"precision\"")`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	val, ok := StringAt(nodes[0], 2)
	if !ok {
		t.Fatal("value atom missing")
	}
	if val != `10k "precision"` {
		t.Errorf("Unexpected value: %q", val)
	}
}

func TestParseSkipsComments(t *testing.T) {
	nodes, err := ParseString("# header comment\n(a 1) # trailing\n(b 2)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
}

func TestParseTruncated(t *testing.T) {
	_, err := ParseString(`(kicad_sch (version 20231120)`)
	if err == nil {
		t.Fatal("Expected error for truncated input")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("Expected *ParseError, got %T", err)
	}
}

func TestParseUnterminatedString(t *testing.T) {
	_, err := ParseString(`(label "open`)
	if err == nil {
		t.Fatal("Expected error for unterminated string")
	}
}

func TestParseUnexpectedParen(t *testing.T) {
	_, err := ParseString(`)`)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
}

func TestHasFlag(t *testing.T) {
	nodes, err := ParseString(`(pin passive line hide (at 0 0 0))`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !HasFlag(nodes[0], "hide") {
		t.Error("Expected hide flag")
	}
	if HasFlag(nodes[0], "bold") {
		t.Error("Unexpected bold flag")
	}
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1.27, "1.27"},
		{2.54, "2.54"},
		{-3.81, "-3.81"},
		{1.00004, "1"},
		{1.00006, "1.0001"},
		{50.800000000000004, "50.8"},
		{-0.00001, "0"},
	}
	for _, c := range cases {
		if got := FormatFloat(c.in); got != c.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	input := `(kicad_sch (version 20231120) (generator "recad") (wire (pts (xy 0 0) (xy 2.54 0))))`
	nodes, err := ParseString(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var sb strings.Builder
	if err := Write(&sb, nodes[0]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	again, err := ParseString(sb.String())
	if err != nil {
		t.Fatalf("Reparse failed: %v", err)
	}
	if nodes[0].String() != again[0].String() {
		t.Errorf("Round trip mismatch:\n%s\n%s", nodes[0].String(), again[0].String())
	}
}

func TestWriteDeterministic(t *testing.T) {
	nodes, err := ParseString(`(junction (at 150 50) (diameter 0) (uuid "j1"))`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var a, b strings.Builder
	Write(&a, nodes[0])
	Write(&b, nodes[0])
	if a.String() != b.String() {
		t.Error("Repeated writes differ")
	}
}

func TestBuildHelpers(t *testing.T) {
	n := L("at", Num(12.7), Num(25.4), Num(0))
	if n.String() != "(at 12.7 25.4 0)" {
		t.Errorf("Unexpected serialization: %s", n.String())
	}
	if YesNo(true) != Symbol("yes") || YesNo(false) != Symbol("no") {
		t.Error("YesNo mapping wrong")
	}
}
