package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/csswind/pkg/util"
	"github.com/gnana997/csswind/pkg/verify"
)

// defaultConfigPath is read when --config is not given.
const defaultConfigPath = ".csswind/config.yaml"

// Environment variables that override the project config file.
const (
	envRuntime    = "CSSWIND_RUNTIME"
	envProjectDir = "CSSWIND_PROJECT_DIR"
	envLogLevel   = "CSSWIND_LOG_LEVEL"
	envCacheSize  = "CSSWIND_CACHE_SIZE"
)

// ProjectConfig holds the contents of .csswind/config.yaml.
type ProjectConfig struct {
	// Runtime is the bun or node binary used for the compiler and capture
	// workers. Empty means search the PATH.
	Runtime string `yaml:"runtime"`
	// ProjectDir is where tailwindcss and playwright are resolved from.
	ProjectDir     string `yaml:"project_dir"`
	TailwindConfig string `yaml:"tailwind_config"`
	// Preamble replaces "@tailwind utilities;" at the top of the
	// verification stylesheet.
	Preamble   string `yaml:"preamble"`
	Autoprefix bool   `yaml:"autoprefix"`
	CacheSize  int    `yaml:"cache_size"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	// LogFile receives one JSON line per MCP tool call. Empty disables it.
	LogFile string `yaml:"log_file"`
}

func defaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		ProjectDir: ".",
		Preamble:   verify.DefaultPreamble,
		CacheSize:  verify.DefaultCacheSize,
		LogLevel:   string(util.LevelInfo),
		LogFormat:  string(util.FormatText),
	}
}

// loadProjectConfig reads path on top of the defaults. A missing file is
// only an error when the path was given explicitly.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	cfg := defaultProjectConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read configuration '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse configuration '%s': %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides cfg with the CSSWIND_* variables found by lookup.
func applyEnv(cfg *ProjectConfig, lookup func(string) (string, bool)) error {
	if v, ok := lookup(envRuntime); ok && v != "" {
		cfg.Runtime = v
	}
	if v, ok := lookup(envProjectDir); ok && v != "" {
		cfg.ProjectDir = v
	}
	if v, ok := lookup(envLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(envCacheSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envCacheSize, err)
		}
		cfg.CacheSize = n
	}
	return nil
}

// validate checks the values that cannot be corrected silently.
func (c *ProjectConfig) validate() error {
	if _, err := util.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := util.ParseFormat(c.LogFormat); err != nil {
		return err
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// loggerConfig converts the logging fields. Call validate first.
func (c *ProjectConfig) loggerConfig() util.LoggerConfig {
	lc := util.DefaultLoggerConfig()
	if lvl, err := util.ParseLevel(c.LogLevel); err == nil {
		lc.Level = lvl
	}
	if f, err := util.ParseFormat(c.LogFormat); err == nil {
		lc.Format = f
	}
	return lc
}
