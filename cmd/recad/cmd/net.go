package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spielhuus/recad/pkg/schema"
)

var netCmd = &cobra.Command{
	Use:   "net <file.kicad_sch>",
	Short: "List the net nodes of a schematic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schema.Load(args[0])
		if err != nil {
			return err
		}

		for _, net := range s.Netlist() {
			pts := make([]string, 0, len(net.Points))
			for _, p := range net.Points {
				pts = append(pts, fmt.Sprintf("(%.2f %.2f)", p.X, p.Y))
			}
			fmt.Printf("%-12s %s\n", net.Name, strings.Join(pts, " "))
		}
		for _, w := range s.Warnings() {
			logger.Warn(w)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(netCmd)
}
