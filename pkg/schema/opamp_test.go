package schema

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/symbols"
)

// buildOpAmp composes the non-inverting amplifier walkthrough: an input
// label feeding R1 into the inverting input of half an LM2904, with R2
// closing the feedback loop from the output and the non-inverting input
// tied to ground.
func buildOpAmp(t *testing.T) *Schema {
	t.Helper()
	s := New("op amp")
	s.SetLibrary(symbols.NewLibrary())
	s.MoveTo(geom.Pt{X: 50.8, Y: 50.8})

	if err := s.Add(
		NewLabel("Vin").Rotate(180),
		NewWire().Right().Length(2),
		NewSymbol("R1", "100k", "Device:R").Rotate(90),
		NewJunction(),
		NewSymbol("U1", "LM2904", "Amplifier_Operational:LM2904").Anchor("2").Mirror("x"),
		NewJunction(),
		NewWire().Up().Length(4),
		NewSymbol("R2", "100k", "Device:R").Rotate(270).Tox("U1", "2"),
		NewWire().Toy("U1", "2"),
		NewSymbol("#PWR01", "GND", "power:GND").At("U1", "3"),
		NewLabel("Vout").At("U1", "1"),
	); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestOpAmpElementInventory(t *testing.T) {
	s := buildOpAmp(t)

	var resistors, amps, grounds, labels, wires, junctions int
	for _, el := range s.Elements() {
		switch e := el.(type) {
		case *Symbol:
			switch e.LibID {
			case "Device:R":
				resistors++
			case "Amplifier_Operational:LM2904":
				amps++
			case "power:GND":
				grounds++
			}
		case *LocalLabel:
			labels++
		case *Wire:
			wires++
		case *Junction:
			junctions++
		}
	}
	if resistors != 2 {
		t.Errorf("Resistors = %d, want 2", resistors)
	}
	if amps != 1 {
		t.Errorf("Amplifiers = %d, want 1", amps)
	}
	if grounds != 1 {
		t.Errorf("Grounds = %d, want 1", grounds)
	}
	if labels != 2 {
		t.Errorf("Labels = %d, want 2", labels)
	}
	if wires != 3 || junctions != 2 {
		t.Errorf("Wires/junctions = %d/%d, want 3/2", wires, junctions)
	}

	for _, ref := range []string{"R1", "R2", "U1", "#PWR01"} {
		if _, ok := s.SymbolByRef(ref); !ok {
			t.Errorf("Missing symbol %s", ref)
		}
	}
}

func TestOpAmpGeometry(t *testing.T) {
	s := buildOpAmp(t)

	r1, _ := s.SymbolByRef("R1")
	u1, _ := s.SymbolByRef("U1")
	r2, _ := s.SymbolByRef("R2")

	r1pin1, _ := r1.PinPosition("1")
	if !r1pin1.Eq(geom.Pt{X: 55.88, Y: 50.8}, Epsilon) {
		t.Errorf("R1 pin 1 at %v", r1pin1)
	}
	u1pin2, _ := u1.PinPosition("2")
	if !u1pin2.Eq(geom.Pt{X: 63.5, Y: 50.8}, Epsilon) {
		t.Errorf("U1 pin 2 at %v, want the R1 pin 2 position", u1pin2)
	}
	u1out, _ := u1.PinPosition("1")
	if !u1out.Eq(geom.Pt{X: 78.74, Y: 53.34}, Epsilon) {
		t.Errorf("U1 output at %v", u1out)
	}
	u1plus, _ := u1.PinPosition("3")
	if !u1plus.Eq(geom.Pt{X: 63.5, Y: 55.88}, Epsilon) {
		t.Errorf("U1 non-inverting input at %v", u1plus)
	}

	// tox aligned R2's anchor pin with U1 pin 2 horizontally
	r2pin1, _ := r2.PinPosition("1")
	if math.Abs(r2pin1.X-u1pin2.X) > Epsilon {
		t.Errorf("R2 pin 1 x = %v, want %v", r2pin1.X, u1pin2.X)
	}
	if math.Abs(r2pin1.Y-43.18) > Epsilon {
		t.Errorf("R2 pin 1 y = %v, want the wire end y 43.18", r2pin1.Y)
	}

	gnd, _ := s.SymbolByRef("#PWR01")
	gndPin, _ := gnd.PinPosition("1")
	if !gndPin.Eq(u1plus, Epsilon) {
		t.Errorf("Ground pin at %v, want U1 pin 3 %v", gndPin, u1plus)
	}
}

func TestOpAmpNets(t *testing.T) {
	s := buildOpAmp(t)
	nets := s.Netlist()

	byName := make(map[string]*Net)
	for _, n := range nets {
		byName[n.Name] = n
	}

	vin, ok := byName["Vin"]
	if !ok {
		t.Fatal("No Vin net")
	}
	mustContain(t, vin, geom.Pt{X: 50.8, Y: 50.8})
	mustContain(t, vin, geom.Pt{X: 55.88, Y: 50.8})

	vout, ok := byName["Vout"]
	if !ok {
		t.Fatal("No Vout net")
	}
	mustContain(t, vout, geom.Pt{X: 78.74, Y: 53.34})

	gnd, ok := byName["GND"]
	if !ok {
		t.Fatal("No GND net")
	}
	mustContain(t, gnd, geom.Pt{X: 63.5, Y: 55.88})

	// R1, the junction and the inverting input share one unnamed node
	inv := netAt(nets, geom.Pt{X: 63.5, Y: 50.8})
	if inv == nil {
		t.Fatal("Inverting input node missing")
	}
	if inv == vin || inv == vout || inv == gnd {
		t.Error("Inverting input must be its own net")
	}
}

func TestOpAmpWriteAndReload(t *testing.T) {
	s := buildOpAmp(t)
	path := filepath.Join(t.TempDir(), "opamp.kicad_sch")
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Elements()) != len(s.Elements()) {
		t.Errorf("Element count %d, want %d", len(loaded.Elements()), len(s.Elements()))
	}

	u1, ok := loaded.SymbolByRef("U1")
	if !ok {
		t.Fatal("U1 lost in reload")
	}
	if u1.Mirror != "x" {
		t.Errorf("U1 mirror %q, want x", u1.Mirror)
	}
	out, err := u1.PinPosition("1")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Eq(geom.Pt{X: 78.74, Y: 53.34}, Epsilon) {
		t.Errorf("Reloaded U1 output at %v", out)
	}

	names := make(map[string]bool)
	for _, n := range loaded.Netlist() {
		names[n.Name] = true
	}
	for _, want := range []string{"Vin", "Vout", "GND"} {
		if !names[want] {
			t.Errorf("Reloaded document missing net %s", want)
		}
	}
}

func mustContain(t *testing.T, net *Net, p geom.Pt) {
	t.Helper()
	for _, q := range net.Points {
		if p.Eq(q, Epsilon) {
			return
		}
	}
	t.Errorf("Net %q does not contain %v: %v", net.Name, p, net.Points)
}
