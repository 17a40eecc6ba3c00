package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"bioc-extractor/internal/envHelper"
	"bioc-extractor/internal/parsing"
)

// Default returns the built-in configuration.
func Default() AppConfig {
	return AppConfig{
		Input:   InputConfig{Extension: "json", Format: string(parsing.FormatAuto)},
		Extract: ExtractConfig{Language: "en"},
		Worker:  WorkerConfig{Count: 4},
		Output:  OutputConfig{Mode: "json"},
		Store:   StoreConfig{Host: "localhost", Port: "3306"},
		Log:     LogConfig{Level: "info", Format: "text"},
		AWS:     AWSConfig{Region: "us-east-1"},
	}
}

// Load builds the configuration from defaults, then the YAML file at path if
// any, then the environment.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path. Keys absent from the file keep
// their current value.
func (cfg *AppConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays BIOEXTRACT_* variables, the DB_* variables and AWS_REGION.
func (cfg *AppConfig) ApplyEnv() error {
	setString := func(dst *string, keys ...string) {
		if value, ok := envHelper.String(keys...); ok {
			*dst = value
		}
	}
	var errs []error
	setInt := func(dst *int, keys ...string) {
		n, ok, err := envHelper.Int(keys...)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			*dst = n
		}
	}
	setBool := func(dst *bool, keys ...string) {
		b, ok, err := envHelper.Bool(keys...)
		if err != nil {
			errs = append(errs, err)
		} else if ok {
			*dst = b
		}
	}

	setString(&cfg.Input.Path, "BIOEXTRACT_INPUT")
	setString(&cfg.Input.Extension, "BIOEXTRACT_EXTENSION")
	setString(&cfg.Input.Format, "BIOEXTRACT_FORMAT")
	setInt(&cfg.Input.MaxFiles, "BIOEXTRACT_MAX_FILES")

	if allow, ok := envHelper.List("BIOEXTRACT_ALLOW"); ok {
		cfg.Extract.Allow = allow
	}
	setBool(&cfg.Extract.Sentences, "BIOEXTRACT_SENTENCES")
	setString(&cfg.Extract.Language, "BIOEXTRACT_LANGUAGE")
	setBool(&cfg.Extract.AbbreviationsOnly, "BIOEXTRACT_ABBREVIATIONS")

	setInt(&cfg.Worker.Count, "BIOEXTRACT_WORKERS", "WORKER_COUNT")

	setString(&cfg.Output.Mode, "BIOEXTRACT_OUTPUT")
	setString(&cfg.Output.Path, "BIOEXTRACT_OUT")
	setBool(&cfg.Output.PrefixFilename, "BIOEXTRACT_PREFIX_FILENAME")
	setBool(&cfg.Output.PrefixSection, "BIOEXTRACT_PREFIX_SECTION")

	setBool(&cfg.Store.Enabled, "BIOEXTRACT_STORE")
	setString(&cfg.Store.Host, "DB_HOST")
	setString(&cfg.Store.Port, "DB_PORT")
	setString(&cfg.Store.Username, "DB_USERNAME")
	setString(&cfg.Store.Password, "DB_PASSWORD")
	setString(&cfg.Store.Database, "DB_DATABASE")

	setString(&cfg.Status.Addr, "BIOEXTRACT_STATUS_ADDR")
	setString(&cfg.Log.Level, "BIOEXTRACT_LOG_LEVEL")
	setString(&cfg.Log.Format, "BIOEXTRACT_LOG_FORMAT")
	setString(&cfg.AWS.Region, "AWS_REGION")

	if len(errs) > 0 {
		return fmt.Errorf("environment: %w", errors.Join(errs...))
	}
	return nil
}

// Validate rejects configurations a run cannot start with.
func (cfg *AppConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(cfg.Input.Path) == "" {
		errs = append(errs, errors.New("no input: set --file or --dir"))
	}
	if _, err := parsing.ParseFormat(cfg.Input.Format); err != nil {
		errs = append(errs, err)
	}
	if cfg.Input.MaxFiles < 0 {
		errs = append(errs, fmt.Errorf("max files must not be negative, got %d", cfg.Input.MaxFiles))
	}
	if cfg.Worker.Count < 1 {
		errs = append(errs, fmt.Errorf("worker count must be positive, got %d", cfg.Worker.Count))
	}
	switch cfg.Output.Mode {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("unknown output mode %q, want json or text", cfg.Output.Mode))
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q, want text or json", cfg.Log.Format))
	}
	if cfg.Store.Enabled && cfg.Store.Database == "" {
		errs = append(errs, errors.New("store enabled without a database name"))
	}
	return errors.Join(errs...)
}
