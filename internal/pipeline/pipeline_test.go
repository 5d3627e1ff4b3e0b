package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gfp-rankings/internal/config"
	"gfp-rankings/internal/extractor"
	"gfp-rankings/internal/fetcher"
	"gfp-rankings/internal/ioformats"
	"gfp-rankings/internal/ranking"
)

type fakeFetcher struct {
	body string
	err  error
	got  string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (fetcher.Document, error) {
	f.got = url
	if f.err != nil {
		return fetcher.Document{}, f.err
	}
	return fetcher.Document{URL: url, FinalURL: url, ContentType: "text/html; charset=utf-8", Body: []byte(f.body)}, nil
}

// page builds a ranking page with one card per year.
func page(years []string, lists [][]string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i, y := range years {
		fmt.Fprintf(&b, `<span class="textLarger textBold">%s</span><div class="mainLists">`, y)
		for _, c := range lists[i] {
			fmt.Fprintf(&b, `<div class="picTrick"><div class="countryName">%s</div></div>`, c)
		}
		b.WriteString("</div>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New()
	cfg.URL = "https://ranks.example.com/previous"
	cfg.Countries = []string{"China", "Russia"}
	cfg.Years = []string{"2009", "2010"}
	cfg.OutputPath = filepath.Join(dir, "gfp_rankings.csv")
	cfg.ChartPath = filepath.Join(dir, "gfp_comparison.html")
	cfg.ReportPath = filepath.Join(dir, "report.md")
	return cfg
}

func TestRun(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	f := &fakeFetcher{body: page(
		[]string{"2008 (No Update)", "2009 (No Update)", "2010"},
		[][]string{{"USA", "Russia", "China"}, {"USA", "Russia", "China"}, {"USA", "China", "Russia"}},
	)}

	res, err := New(cfg, WithFetcher(f)).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.got != cfg.URL {
		t.Fatalf("fetched %q, want %q", f.got, cfg.URL)
	}
	if !reflect.DeepEqual(res.Table.Years(), []string{"2008", "2009", "2010"}) {
		t.Fatalf("labels not normalized: %v", res.Table.Years())
	}
	want := ranking.PositionSeries{
		{Country: "China", Positions: []int{3, 2}},
		{Country: "Russia", Positions: []int{2, 3}},
	}
	if !reflect.DeepEqual(res.Series, want) {
		t.Fatalf("want %#v, got %#v", want, res.Series)
	}

	saved, err := ioformats.LoadTable(cfg.OutputPath)
	if err != nil {
		t.Fatalf("load saved table: %v", err)
	}
	if !reflect.DeepEqual(saved.Years(), res.Table.Years()) {
		t.Fatalf("saved years %v", saved.Years())
	}
	for _, p := range []string{cfg.ChartPath, cfg.ReportPath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing output %s: %v", p, err)
		}
	}
}

func TestRunStageErrors(t *testing.T) {
	t.Parallel()
	good := page([]string{"2009", "2010"}, [][]string{{"China", "Russia"}, {"Russia", "China"}})
	tests := []struct {
		name   string
		fetch  *fakeFetcher
		modify func(*config.Config)
		stage  Stage
		target error
	}{
		{
			name:   "fetch",
			fetch:  &fakeFetcher{err: &fetcher.FetchError{URL: "x", StatusCode: 500, Err: errors.New("server error")}},
			stage:  StageFetch,
			target: fetcher.ErrFetch,
		},
		{
			name:   "extract",
			fetch:  &fakeFetcher{body: "<html><body>redesigned</body></html>"},
			stage:  StageExtract,
			target: extractor.ErrExtraction,
		},
		{
			name:   "normalize",
			fetch:  &fakeFetcher{body: page([]string{"2009 (No Update)", "2009"}, [][]string{{"A"}, {"A"}})},
			stage:  StageNormalize,
			target: ranking.ErrDuplicateYear,
		},
		{
			name:   "persist",
			fetch:  &fakeFetcher{body: good},
			modify: func(c *config.Config) { c.OutputPath = filepath.Dir(c.OutputPath) },
			stage:  StagePersist,
			target: ioformats.ErrPersistence,
		},
		{
			name:   "resolve missing year",
			fetch:  &fakeFetcher{body: good},
			modify: func(c *config.Config) { c.Years = []string{"2009", "2031"} },
			stage:  StageResolve,
			target: ranking.ErrYearNotFound,
		},
		{
			name:   "resolve missing country",
			fetch:  &fakeFetcher{body: good},
			modify: func(c *config.Config) { c.Countries = []string{"Atlantis"} },
			stage:  StageResolve,
			target: ranking.ErrCountryNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t)
			if tt.modify != nil {
				tt.modify(cfg)
			}
			_, err := New(cfg, WithFetcher(tt.fetch)).Run(context.Background())
			var se *StageError
			if !errors.As(err, &se) || se.Stage != tt.stage {
				t.Fatalf("want %s stage error, got %v", tt.stage, err)
			}
			if !errors.Is(err, tt.target) {
				t.Fatalf("want %v in chain, got %v", tt.target, err)
			}
		})
	}
}

func TestRunDoesNotRenderAfterFailedPersist(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.OutputPath = filepath.Dir(cfg.OutputPath)
	f := &fakeFetcher{body: page([]string{"2009", "2010"}, [][]string{{"China", "Russia"}, {"Russia", "China"}})}
	if _, err := New(cfg, WithFetcher(f)).Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(cfg.ChartPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("chart written despite aborted run: %v", err)
	}
}

func TestCompareFromSavedTable(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.ReportPath = ""
	tbl, err := ranking.NewTable([]string{"2009", "2010"}, [][]string{{"China", "Russia"}, {"Russia", "China"}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := Compare(tbl, cfg)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if p, _ := res.Series.Get("Russia"); !reflect.DeepEqual(p, []int{2, 1}) {
		t.Fatalf("unexpected Russia positions %v", p)
	}
	if res.ChartPath != cfg.ChartPath {
		t.Fatalf("unexpected chart path %q", res.ChartPath)
	}
}

func TestCompareCreatesReportDir(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t)
	cfg.ChartPath = ""
	cfg.ReportPath = filepath.Join(t.TempDir(), "out", "nested", "report.md")
	tbl, err := ranking.NewTable([]string{"2009", "2010"}, [][]string{{"China", "Russia"}, {"Russia", "China"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Compare(tbl, cfg); err != nil {
		t.Fatalf("compare: %v", err)
	}
	data, err := os.ReadFile(cfg.ReportPath)
	if err != nil {
		t.Fatalf("report missing: %v", err)
	}
	if !strings.Contains(string(data), "Russia") {
		t.Fatalf("unexpected report:\n%s", data)
	}
}
