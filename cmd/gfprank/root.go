package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gfprank",
		Short: "Track Global Firepower rank positions over time",
		Long: `gfprank fetches the Global Firepower previous-ranks page, extracts the
ranking of every published year, saves it as a CSV file and renders a line
chart comparing the rank positions of selected countries.

Settings are read from --config, $GFPRANK_CONFIG, ./gfprank.yaml or
$XDG_CONFIG_HOME/gfprank/config.yaml, in that order. Flags override the file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewPlotCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
