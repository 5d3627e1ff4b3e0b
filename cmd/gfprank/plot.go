package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gfp-rankings/internal/ioformats"
	"gfp-rankings/internal/pipeline"
)

func NewPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Chart a comparison from a previously saved rankings file",
		Long: `Plot reads the CSV written by "gfprank run" and renders the comparison
chart without touching the network.

Examples:
  gfprank plot --countries India,Brazil --years 2020,2021,2022`,
		Args: cobra.NoArgs,
		RunE: runPlotCmd,
	}
	addSelectionFlags(cmd)
	cmd.Flags().Bool("json", false, "Print positions as NDJSON instead of Markdown")
	return cmd
}

func runPlotCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	log := setupLogger(cmd, cfg)

	table, err := ioformats.LoadTable(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("load rankings: %w", err)
	}
	log.Debug("loaded rankings", "path", cfg.OutputPath, "years", len(table.Years()))

	res, err := pipeline.Compare(table, cfg)
	if err != nil {
		return err
	}
	res.TablePath = cfg.OutputPath
	if res.ChartPath != "" {
		log.Info("rendered chart", "path", res.ChartPath)
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	return printResult(cmd.OutOrStdout(), res, asJSON)
}
