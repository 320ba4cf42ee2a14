package symbols

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveEmbeddedResistor(t *testing.T) {
	lib := NewLibrary()
	def, err := lib.Resolve("Device:R")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if def.Name != "R" {
		t.Errorf("Expected name R, got %q", def.Name)
	}
	if def.Properties["Reference"] != "R" {
		t.Errorf("Expected Reference property R, got %q", def.Properties["Reference"])
	}
	if !def.HidePinNum {
		t.Error("Expected hidden pin numbers on R")
	}

	pin1, err := def.Pin("1", 1)
	if err != nil {
		t.Fatalf("Pin 1 lookup failed: %v", err)
	}
	if pin1.At.X != 0 || pin1.At.Y != 3.81 {
		t.Errorf("Pin 1 at %v, want (0, 3.81)", pin1.At)
	}
	pin2, err := def.Pin("2", 1)
	if err != nil {
		t.Fatalf("Pin 2 lookup failed: %v", err)
	}
	if pin2.At.Y != -3.81 {
		t.Errorf("Pin 2 at %v, want (0, -3.81)", pin2.At)
	}
}

func TestResolveOpAmpUnits(t *testing.T) {
	lib := NewLibrary()
	def, err := lib.Resolve("Amplifier_Operational:LM2904")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if def.UnitCount != 3 {
		t.Errorf("Expected 3 units, got %d", def.UnitCount)
	}

	out, err := def.Pin("1", 1)
	if err != nil {
		t.Fatalf("Pin 1 lookup failed: %v", err)
	}
	if out.Type != "output" {
		t.Errorf("Pin 1 type %q, want output", out.Type)
	}

	// unit 2 must not see unit 1 pins
	if _, err := def.Pin("1", 2); err == nil {
		t.Error("Pin 1 should not resolve on unit 2")
	}
	if _, err := def.Pin("7", 2); err != nil {
		t.Errorf("Pin 7 should resolve on unit 2: %v", err)
	}

	pins := def.UnitPins(1)
	if len(pins) != 3 {
		t.Errorf("Unit 1 has %d pins, want 3", len(pins))
	}

	// pin lookup by name
	inv, err := def.Pin("-", 1)
	if err != nil {
		t.Fatalf("Pin lookup by name failed: %v", err)
	}
	if inv.Number != "2" {
		t.Errorf("Pin %q resolved to number %q, want 2", "-", inv.Number)
	}
}

func TestResolvePowerSymbol(t *testing.T) {
	lib := NewLibrary()
	def, err := lib.Resolve("power:GND")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !def.IsPower() {
		t.Error("GND should be a power symbol")
	}
	pin, err := def.Pin("1", 1)
	if err != nil {
		t.Fatalf("Pin lookup failed: %v", err)
	}
	if !pin.Hidden {
		t.Error("GND pin should be hidden")
	}
	if pin.At.X != 0 || pin.At.Y != 0 {
		t.Errorf("GND pin at %v, want origin", pin.At)
	}
}

func TestResolveUnknown(t *testing.T) {
	lib := NewLibrary()

	var lerr *LookupError
	_, err := lib.Resolve("Device:DoesNotExist")
	if !errors.As(err, &lerr) {
		t.Fatalf("Expected *LookupError, got %v", err)
	}
	if lerr.LibID != "Device:DoesNotExist" {
		t.Errorf("Unexpected LibID: %q", lerr.LibID)
	}

	_, err = lib.Resolve("NoSuchLib:X")
	if !errors.As(err, &lerr) {
		t.Fatalf("Expected *LookupError, got %v", err)
	}

	_, err = lib.Resolve("missing-colon")
	if !errors.As(err, &lerr) {
		t.Fatalf("Expected *LookupError for malformed id, got %v", err)
	}
}

func TestResolveCaches(t *testing.T) {
	lib := NewLibrary()
	a, err := lib.Resolve("Device:R")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	b, err := lib.Resolve("Device:R")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if a != b {
		t.Error("Expected cached definition on second resolve")
	}
}

func TestSearchPathOverride(t *testing.T) {
	dir := t.TempDir()
	lib := `(kicad_symbol_lib (version 20211014) (generator test)
		(symbol "R" (in_bom yes) (on_board yes)
			(property "Reference" "R" (id 0) (at 0 0 0))
			(property "Value" "custom" (id 1) (at 0 0 0))
			(symbol "R_1_1"
				(pin passive line (at 0 5.08 270) (length 1.27)
					(name "~") (number "1"))
			)
		)
	)`
	if err := os.WriteFile(filepath.Join(dir, "Device.kicad_sym"), []byte(lib), 0o644); err != nil {
		t.Fatal(err)
	}

	resolver := NewLibrary(dir)
	def, err := resolver.Resolve("Device:R")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if def.Properties["Value"] != "custom" {
		t.Errorf("Search path was not preferred over embedded library")
	}
	pin, err := def.Pin("1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if pin.At.Y != 5.08 {
		t.Errorf("Pin from override lib at %v", pin.At)
	}
}
