// Package config loads the calendar's settings from a YAML or TOML file,
// an optional .env file and FOCUS_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/penwyp/go-focus-calendar/internal/core/constants"
	"github.com/penwyp/go-focus-calendar/internal/core/model"
)

const (
	AppDirName      = ".go-focus-calendar"
	DefaultFileName = "config.yaml"
)

// Config is the top-level application configuration
type Config struct {
	// Timezone is the IANA zone the week is rendered in ("Local" allowed)
	Timezone string `yaml:"timezone" toml:"timezone" validate:"required,iana"`

	// DataDir holds session exports (*.json, *.jsonl) and subjects.json
	DataDir string `yaml:"data_dir" toml:"data_dir" validate:"required"`

	// Subject preselects a subject filter; empty shows all subjects
	Subject string `yaml:"subject" toml:"subject"`

	Output  string `yaml:"output" toml:"output" validate:"oneof=table grid json csv summary ics"`
	GroupBy string `yaml:"group_by" toml:"group_by" validate:"oneof=day subject week"`

	// ResetRule is the RRULE of the weekly rank reset
	ResetRule string `yaml:"reset_rule" toml:"reset_rule" validate:"rrule"`

	// RefreshCron drives the live view, e.g. "@every 1m" or "*/5 * * * *"
	RefreshCron string `yaml:"refresh" toml:"refresh" validate:"cronspec"`

	LogFile  string `yaml:"log_file" toml:"log_file"`
	CacheDir string `yaml:"cache_dir" toml:"cache_dir"`

	// Subjects supplements or replaces subjects.json from DataDir
	Subjects []model.Subject `yaml:"subjects" toml:"subjects" validate:"dive"`
}

// AppDir is ~/.go-focus-calendar
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return AppDirName
	}
	return filepath.Join(home, AppDirName)
}

// DefaultPath is the config file used when none is given
func DefaultPath() string {
	return filepath.Join(AppDir(), DefaultFileName)
}

// Default returns the in-memory default configuration
func Default() *Config {
	cfg := &Config{}
	cfg.Normalize()
	return cfg
}

// Normalize fills zero values with defaults so partial files still work
func (c *Config) Normalize() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(AppDir(), "sessions")
	}
	if c.Output == "" {
		c.Output = "table"
	}
	if c.GroupBy == "" {
		c.GroupBy = "day"
	}
	if c.ResetRule == "" {
		c.ResetRule = constants.DefaultResetRule
	}
	if c.RefreshCron == "" {
		c.RefreshCron = constants.DefaultRefreshSpec
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(AppDir(), "logs", "app.log")
	}
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(AppDir(), "cache")
	}
	if c.Subjects == nil {
		c.Subjects = []model.Subject{}
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Load reads path (YAML, or TOML for *.toml). A missing file yields the
// defaults. The result is normalized but not validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if isTOML(path) {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml config %s: %w", path, err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes cfg to path atomically, in TOML for *.toml and YAML otherwise
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
