// Package cmd implements the recad command line interface.
package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/spielhuus/recad/internal/config"
	"github.com/spielhuus/recad/pkg/symbols"
)

var (
	verbose    bool
	configPath string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})
)

var rootCmd = &cobra.Command{
	Use:   "recad",
	Short: "Programmatic schematic capture for KiCad files",
	Long: `recad composes, inspects, renders and writes KiCad schematic
files (.kicad_sch). Schematics are built through a chainable placement
algebra and round-trip with the KiCad schematic editor.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default ~/.config/recad/config.toml)")
}

// newLibrary builds a symbol resolver from the configured search paths.
func newLibrary() (*symbols.Library, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("symbol search paths", "paths", cfg.LibraryPaths)
	return symbols.NewLibrary(cfg.LibraryPaths...), nil
}
