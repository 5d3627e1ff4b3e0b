// Package config holds the run configuration of gfp-rankings.
//
// Values come from, in increasing priority: built-in defaults, a YAML file,
// environment variables and finally command-line flags (applied by the
// caller). Validate must pass before the pipeline runs.
package config

import (
	"maps"
	"net/url"
	"os"
	"time"

	"gfp-rankings/internal/extractor"
	"gfp-rankings/internal/ranking"
)

const (
	AppName = "gfprank"

	DefaultURL         = "https://www.globalfirepower.com/global-ranks-previous.php"
	DefaultOutputPath  = "gfp_rankings.csv"
	DefaultChartPath   = "gfp_comparison.html"
	DefaultTimeout     = 30 * time.Second
	DefaultDialTimeout = 5 * time.Second
	DefaultMaxBodySize = 10 * 1024 * 1024
	DefaultLogLevel    = "info"
	DefaultServerAddr  = ":8080"

	urlEnv    = "GFPRANK_URL"
	outputEnv = "GFPRANK_OUTPUT"
)

// DefaultCountries and DefaultYears are the comparison drawn when nothing
// else is configured.
var (
	DefaultCountries = []string{"Poland", "Germany", "Japan", "Pakistan"}
	DefaultYears     = []string{"2018", "2019", "2020", "2021", "2022", "2023"}
)

type Config struct {
	URL         string              `yaml:"url"`
	Countries   []string            `yaml:"countries"`
	Years       []string            `yaml:"years"`
	OutputPath  string              `yaml:"output_path"`
	ChartPath   string              `yaml:"chart_path"`
	ReportPath  string              `yaml:"report_path,omitempty"`
	Timeout     time.Duration       `yaml:"timeout"`
	MaxBodySize int64               `yaml:"max_body_size"`
	UserAgent   string              `yaml:"user_agent,omitempty"`
	YearRenames map[string]string   `yaml:"year_renames"`
	Selectors   extractor.Selectors `yaml:"selectors"`
	LogLevel    string              `yaml:"log_level"`
	Server      ServerConfig        `yaml:"server"`
}

// ServerConfig is only read by the chart server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func New() *Config {
	return &Config{
		URL:         DefaultURL,
		Countries:   append([]string(nil), DefaultCountries...),
		Years:       append([]string(nil), DefaultYears...),
		OutputPath:  DefaultOutputPath,
		ChartPath:   DefaultChartPath,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
		YearRenames: maps.Clone(ranking.DefaultYearRenames),
		Selectors:   extractor.DefaultSelectors,
		LogLevel:    DefaultLogLevel,
		Server:      ServerConfig{Addr: DefaultServerAddr},
	}
}

func (c *Config) ApplyEnv() {
	if v := os.Getenv(urlEnv); v != "" {
		c.URL = v
	}
	if v := os.Getenv(outputEnv); v != "" {
		c.OutputPath = v
	}
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return ErrNoURL
	}
	if u, err := url.Parse(c.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}
	if len(c.Countries) == 0 {
		return ErrNoCountries
	}
	if len(c.Years) == 0 {
		return ErrNoYears
	}
	if c.OutputPath == "" {
		return ErrNoOutputPath
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.Selectors.Year == "" || c.Selectors.Card == "" || c.Selectors.Country == "" {
		return ErrEmptySelector
	}
	return nil
}
