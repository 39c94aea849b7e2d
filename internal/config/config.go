package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	DB      DBConfig      `yaml:"db"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
	Clock   ClockConfig   `yaml:"clock"`
	Stats   StatsConfig   `yaml:"stats"`
}

type DBConfig struct {
	// Path is resolved to the per-user default when empty.
	Path    string `yaml:"path"`
	Backend string `yaml:"backend"`
}

type HistoryConfig struct {
	Depth      int `yaml:"depth"`
	DebounceMS int `yaml:"debounce_ms"`
}

func (h HistoryConfig) Debounce() time.Duration {
	return time.Duration(h.DebounceMS) * time.Millisecond
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ClockConfig struct {
	RoundToFive     bool   `yaml:"round_to_five"`
	DefaultLocation string `yaml:"default_location"`
}

type StatsConfig struct {
	HeatmapDays int `yaml:"heatmap_days"`
}

func Default() Config {
	return Config{
		DB:      DBConfig{Backend: "sqlite"},
		History: HistoryConfig{Depth: 30, DebounceMS: 1000},
		Log:     LogConfig{Level: "info"},
		Clock:   ClockConfig{RoundToFive: true, DefaultLocation: "office"},
		Stats:   StatsConfig{HeatmapDays: 112},
	}
}

// DefaultPath returns ~/.config/dayledger/config.yaml
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "dayledger", "config.yaml"), nil
}

// Load reads configuration from an optional YAML file and environment
// variables. The file named by DAYLEDGER_CONFIG_PATH must exist; the default
// file is read only when present.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("DAYLEDGER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	} else if path, err := DefaultPath(); err == nil {
		if err := loadFromFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if dbPath := os.Getenv("DAYLEDGER_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if backend := os.Getenv("DAYLEDGER_DB_BACKEND"); backend != "" {
		cfg.DB.Backend = backend
	}
	if level := os.Getenv("DAYLEDGER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if depthStr := os.Getenv("DAYLEDGER_HISTORY_DEPTH"); depthStr != "" {
		depth, err := strconv.Atoi(depthStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DAYLEDGER_HISTORY_DEPTH: %w", err)
		}
		cfg.History.Depth = depth
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Backend {
	case "sqlite", "diskv":
	default:
		return fmt.Errorf("invalid db.backend %q (want sqlite or diskv)", c.DB.Backend)
	}
	if c.History.Depth <= 0 {
		return fmt.Errorf("invalid history.depth %d", c.History.Depth)
	}
	if c.History.DebounceMS <= 0 {
		return fmt.Errorf("invalid history.debounce_ms %d", c.History.DebounceMS)
	}
	switch c.Clock.DefaultLocation {
	case "office", "home":
	default:
		return fmt.Errorf("invalid clock.default_location %q (want office or home)", c.Clock.DefaultLocation)
	}
	if c.Stats.HeatmapDays <= 0 {
		return fmt.Errorf("invalid stats.heatmap_days %d", c.Stats.HeatmapDays)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
