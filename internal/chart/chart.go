// Package chart draws the rank comparison of selected countries.
//
// Rank 1 is the best position, so the y axis is inverted: lower numbers are
// drawn higher. The HTML output is deterministic for a given input.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"gfp-rankings/internal/ranking"
)

const (
	DefaultTitle  = "Positions comparison in GFP ranking over time"
	xAxisName     = "Years"
	yAxisName     = "Positions"
	defaultID     = "gfp_positions"
	defaultWidth  = "1000px"
	defaultHeight = "560px"
)

var ErrSeriesLength = errors.New("series length does not match years")

type options struct {
	title    string
	subtitle string
	width    string
	height   string
}

// Option tweaks the rendered page.
type Option func(*options)

func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithSubtitle adds a line under the title, e.g. the source URL.
func WithSubtitle(subtitle string) Option {
	return func(o *options) { o.subtitle = subtitle }
}

func WithSize(width, height string) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// Render writes an HTML page with one line per country.
func Render(w io.Writer, series ranking.PositionSeries, years []string, opt ...Option) error {
	line, err := build(series, years, opt...)
	if err != nil {
		return err
	}
	return line.Render(w)
}

// RenderFile renders to path, replacing any existing file.
func RenderFile(path string, series ranking.PositionSeries, years []string, opt ...Option) error {
	var buf bytes.Buffer
	if err := Render(&buf, series, years, opt...); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func build(series ranking.PositionSeries, years []string, opt ...Option) (*charts.Line, error) {
	o := options{title: DefaultTitle, width: defaultWidth, height: defaultHeight}
	for _, fn := range opt {
		fn(&o)
	}
	for _, s := range series {
		if len(s.Positions) != len(years) {
			return nil, fmt.Errorf("%w: %s has %d positions for %d years", ErrSeriesLength, s.Country, len(s.Positions), len(years))
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.title,
			ChartID:   defaultID,
			Width:     o.width,
			Height:    o.height,
		}),
		charts.WithTitleOpts(opts.Title{Title: o.title, Subtitle: o.subtitle}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xAxisName,
			Type:      "category",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:        yAxisName,
			Type:        "value",
			Inverse:     opts.Bool(true),
			Min:         1,
			MinInterval: 1,
			SplitLine:   &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)
	line.SetXAxis(years)
	for _, s := range series {
		data := make([]opts.LineData, len(s.Positions))
		for i, p := range s.Positions {
			data[i] = opts.LineData{Value: p}
		}
		line.AddSeries(s.Country, data,
			charts.WithLineChartOpts(opts.LineChart{
				Symbol:     "circle",
				SymbolSize: 8,
				ShowSymbol: opts.Bool(true),
			}),
		)
	}
	return line, nil
}
