package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spielhuus/recad/pkg/schema"
)

var (
	plotOutput string
	plotScale  float64
)

var plotCmd = &cobra.Command{
	Use:   "plot <file.kicad_sch>",
	Short: "Render a schematic to SVG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schema.Load(args[0])
		if err != nil {
			return err
		}

		if plotOutput == "" {
			out, err := s.Plot(plotScale)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		}

		logger.Debug("rendering", "file", args[0], "output", plotOutput, "scale", plotScale)
		return s.PlotFile(plotScale, plotOutput)
	},
}

func init() {
	plotCmd.Flags().StringVarP(&plotOutput, "output", "o", "", "output file (default stdout)")
	plotCmd.Flags().Float64Var(&plotScale, "scale", 1, "scale factor")
	rootCmd.AddCommand(plotCmd)
}
