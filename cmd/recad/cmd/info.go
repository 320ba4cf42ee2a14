package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spielhuus/recad/pkg/schema"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.kicad_sch>",
	Short: "Summarize a schematic file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schema.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("version:  %d\n", s.Version)
		fmt.Printf("uuid:     %s\n", s.UUID)
		fmt.Printf("paper:    %s\n", s.Paper)
		if s.Title != "" {
			fmt.Printf("title:    %s\n", s.Title)
		}

		var wires, junctions, labels, noconnects, texts int
		for _, el := range s.Elements() {
			switch el.(type) {
			case *schema.Wire:
				wires++
			case *schema.Junction:
				junctions++
			case *schema.LocalLabel, *schema.GlobalLabel:
				labels++
			case *schema.NoConnect:
				noconnects++
			case *schema.Text:
				texts++
			}
		}
		symbols := s.Symbols()

		fmt.Printf("symbols:  %d\n", len(symbols))
		fmt.Printf("wires:    %d\n", wires)
		fmt.Printf("junctions: %d\n", junctions)
		fmt.Printf("labels:   %d\n", labels)
		if noconnects > 0 {
			fmt.Printf("no_connects: %d\n", noconnects)
		}
		if texts > 0 {
			fmt.Printf("texts:    %d\n", texts)
		}

		if len(symbols) > 0 {
			refs := make([]string, 0, len(symbols))
			for _, sym := range symbols {
				refs = append(refs, fmt.Sprintf("%s (%s)", sym.Ref, sym.Value))
			}
			fmt.Printf("refs:     %s\n", strings.Join(refs, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
