package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is looked up in the working directory.
	DefaultConfigFile = "gfprank.yaml"

	configPathEnv = "GFPRANK_CONFIG"
)

// FindConfigFile returns the first configuration file found, in order:
// explicit path, $GFPRANK_CONFIG, ./gfprank.yaml, $XDG_CONFIG_HOME/gfprank/config.yaml.
// An explicit path that does not exist yields ErrConfigNotFound; otherwise
// an empty string means no file was found.
func FindConfigFile(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(configPathEnv)
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)
		}
		return explicit, nil
	}

	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile, nil
	}
	if path, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml")); err == nil {
		return path, nil
	}
	return "", nil
}

// Load builds a Config from defaults, the file at path (if any) and the
// environment. It does not validate.
func Load(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// an empty file is a valid (default) configuration
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// Marshal renders cfg as YAML, as written by `gfprank init`.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
