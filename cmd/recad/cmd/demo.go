package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spielhuus/recad/pkg/geom"
	"github.com/spielhuus/recad/pkg/schema"
)

var demoOutput string

// demoCmd builds a non-inverting op-amp stage through the placement
// algebra and writes it out, exercising the whole engine.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Write an example op-amp schematic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := newLibrary()
		if err != nil {
			return err
		}

		s := schema.New("summe")
		s.SetLibrary(lib)
		s.MoveTo(geom.Pt{X: 50.8, Y: 50.8})

		if err := s.Add(
			schema.NewLabel("Vin").Rotate(180),
			schema.NewWire().Right().Length(2),
			schema.NewSymbol("R1", "100k", "Device:R").Rotate(90),
			schema.NewJunction(),
			schema.NewSymbol("U1", "LM2904", "Amplifier_Operational:LM2904").
				Anchor("2").Mirror("x"),
			schema.NewJunction(),
			schema.NewWire().Up().Length(4),
			schema.NewSymbol("R2", "100k", "Device:R").Rotate(270).Tox("U1", "2"),
			schema.NewWire().Toy("U1", "2"),
			schema.NewSymbol("#PWR01", "GND", "power:GND").At("U1", "3"),
			schema.NewLabel("Vout").At("U1", "1"),
		); err != nil {
			return err
		}

		for _, w := range s.Warnings() {
			logger.Warn(w)
		}
		logger.Debug("writing", "file", demoOutput, "elements", len(s.Elements()))
		return s.WriteFile(demoOutput)
	},
}

func init() {
	demoCmd.Flags().StringVarP(&demoOutput, "output", "o", "opamp.kicad_sch", "output file")
	rootCmd.AddCommand(demoCmd)
}
