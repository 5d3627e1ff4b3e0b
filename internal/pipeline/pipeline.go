// Package pipeline runs fetch, extract, normalize, persist, resolve and
// render once, in that order. The first failing stage aborts the run and is
// reported as a *StageError.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gfp-rankings/internal/chart"
	"gfp-rankings/internal/config"
	"gfp-rankings/internal/extractor"
	"gfp-rankings/internal/fetcher"
	"gfp-rankings/internal/ioformats"
	"gfp-rankings/internal/ranking"
	"gfp-rankings/pkg/logger"
)

type Stage string

const (
	StageFetch     Stage = "fetch"
	StageExtract   Stage = "extract"
	StageNormalize Stage = "normalize"
	StagePersist   Stage = "persist"
	StageResolve   Stage = "resolve"
	StageRender    Stage = "render"
)

type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Fetcher retrieves the ranking page. *fetcher.HTTPClient implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetcher.Document, error)
}

// Result is everything a completed run produced.
type Result struct {
	Source    string
	Table     *ranking.Table
	Series    ranking.PositionSeries
	Years     []string
	TablePath string
	ChartPath string
}

type Pipeline struct {
	cfg       *config.Config
	fetcher   Fetcher
	extractor *extractor.Extractor
	log       *logger.Logger
}

type Option func(*Pipeline)

// WithFetcher replaces the HTTP client, e.g. with a fixture in tests.
func WithFetcher(f Fetcher) Option {
	return func(p *Pipeline) { p.fetcher = f }
}

func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		extractor: extractor.New(cfg.Selectors),
		log:       logger.Discard(),
	}
	for _, o := range opts {
		o(p)
	}
	if p.fetcher == nil {
		p.fetcher = fetcher.NewHTTPClient(cfg.Timeout, config.DefaultDialTimeout, cfg.MaxBodySize, cfg.UserAgent)
	}
	return p
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	doc, err := p.fetcher.Fetch(ctx, p.cfg.URL)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Err: err}
	}
	p.log.Info("fetched ranking page", "url", doc.FinalURL, "bytes", len(doc.Body), "elapsed", doc.Elapsed.Round(time.Millisecond))

	raw, err := p.extractor.Extract(bytes.NewReader(doc.Body), doc.ContentType)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}
	p.log.Debug("extracted table", "years", len(raw.Years()), "depth", raw.Depth())

	table, err := ranking.Normalize(raw, p.cfg.YearRenames)
	if err != nil {
		return nil, &StageError{Stage: StageNormalize, Err: err}
	}

	if err := ioformats.SaveTable(p.cfg.OutputPath, table); err != nil {
		return nil, &StageError{Stage: StagePersist, Err: err}
	}
	p.log.Info("saved rankings", "path", p.cfg.OutputPath, "years", len(table.Years()), "rows", table.Depth())

	res, err := Compare(table, p.cfg)
	if err != nil {
		return nil, err
	}
	res.Source = doc.FinalURL
	res.TablePath = p.cfg.OutputPath
	if res.ChartPath != "" {
		p.log.Info("rendered chart", "path", res.ChartPath, "countries", len(res.Series))
	}
	return res, nil
}

// Compare resolves positions from an already built table and renders the
// chart and optional report. It is the tail of Run and also serves offline
// re-plotting from a saved file.
func Compare(table *ranking.Table, cfg *config.Config) (*Result, error) {
	series, err := ranking.Positions(table, cfg.Countries, cfg.Years)
	if err != nil {
		return nil, &StageError{Stage: StageResolve, Err: err}
	}
	res := &Result{
		Source: cfg.URL,
		Table:  table,
		Series: series,
		Years:  append([]string(nil), cfg.Years...),
	}

	if cfg.ChartPath != "" {
		if err := chart.RenderFile(cfg.ChartPath, series, cfg.Years, chart.WithSubtitle(cfg.URL)); err != nil {
			return nil, &StageError{Stage: StageRender, Err: err}
		}
		res.ChartPath = cfg.ChartPath
	}
	if cfg.ReportPath != "" {
		if err := writeReport(cfg.ReportPath, res); err != nil {
			return nil, &StageError{Stage: StageRender, Err: err}
		}
	}
	return res, nil
}

func writeReport(path string, res *Result) error {
	var buf bytes.Buffer
	if err := chart.WriteMarkdown(&buf, res.Series, res.Years, res.Source); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
