package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gfp-rankings/internal/chart"
	"gfp-rankings/internal/config"
	"gfp-rankings/internal/ioformats"
	"gfp-rankings/internal/pipeline"
	"gfp-rankings/pkg/logger"
)

func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the rankings, save them and chart the comparison",
		Long: `Run fetches the ranking page once, extracts every year's ranking, saves the
table as CSV (overwriting any previous file), resolves the rank positions of
the selected countries and renders the comparison chart as HTML.

The positions are printed to stdout as a Markdown table, or as NDJSON with
--json.

Examples:
  # Use the built-in selection (Poland, Germany, Japan, Pakistan; 2018-2023)
  gfprank run

  # Compare other countries
  gfprank run --countries France,Italy,Spain --years 2021,2022,2023

  # Keep all artifacts in one directory
  gfprank run -o out/ranks.csv --chart out/ranks.html --report out/ranks.md`,
		Args: cobra.NoArgs,
		RunE: runRunCmd,
	}
	addSelectionFlags(cmd)
	cmd.Flags().String("url", config.DefaultURL, "Ranking page URL")
	cmd.Flags().Duration("timeout", config.DefaultTimeout, "Timeout for fetching the page")
	cmd.Flags().Bool("json", false, "Print positions as NDJSON instead of Markdown")
	return cmd
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("countries", config.DefaultCountries, "Countries to compare")
	cmd.Flags().StringSlice("years", config.DefaultYears, "Years to compare")
	cmd.Flags().StringP("output", "o", config.DefaultOutputPath, "Rankings CSV file")
	cmd.Flags().String("chart", config.DefaultChartPath, "Chart HTML file (empty to skip)")
	cmd.Flags().String("report", "", "Also write the Markdown summary to this file")
}

func runRunCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	log := setupLogger(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.New(cfg, pipeline.WithLogger(log)).Run(ctx)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	return printResult(cmd.OutOrStdout(), res, asJSON)
}

func printResult(w io.Writer, res *pipeline.Result, asJSON bool) error {
	if asJSON {
		return ioformats.WriteNDJSON(w, res.Series)
	}
	return chart.WriteMarkdown(w, res.Series, res.Years, res.Source)
}

// buildConfig loads the configuration file and applies the flags that were
// set explicitly on the command line.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	explicit, _ := cmd.Flags().GetString("config")
	path, err := config.FindConfigFile(explicit)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL, _ = flags.GetString("url")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("countries") {
		cfg.Countries, _ = flags.GetStringSlice("countries")
	}
	if flags.Changed("years") {
		cfg.Years, _ = flags.GetStringSlice("years")
	}
	if flags.Changed("output") {
		cfg.OutputPath, _ = flags.GetString("output")
	}
	if flags.Changed("chart") {
		cfg.ChartPath, _ = flags.GetString("chart")
	}
	if flags.Changed("report") {
		cfg.ReportPath, _ = flags.GetString("report")
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func setupLogger(cmd *cobra.Command, cfg *config.Config) *logger.Logger {
	return logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
}
