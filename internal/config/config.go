// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Snapshot formats understood by cmd/students.
const (
	FormatSQLite = "sqlite"
	FormatYAML   = "yaml"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing — better to crash at boot than to silently use a wrong default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the snapshot file the roster is loaded from and
	// saved to.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// Persistence is embedded so cfg.Format and cfg.StrictLoad work too.
	Persistence `yaml:"persistence"`
}

// Persistence selects the snapshot backend and how load failures are treated.
type Persistence struct {
	// Format is "sqlite" or "yaml".
	Format string `yaml:"format" env:"STORAGE_FORMAT" env-default:"sqlite"`

	// StrictLoad refuses to start on an unreadable snapshot instead of
	// discarding it and starting empty.
	StrictLoad bool `yaml:"strict_load" env:"STORAGE_STRICT_LOAD" env-default:"false"`
}

// Load reads the YAML file at path, applies environment overrides and
// checks the result.
func Load(path string) (*Config, error) {
	// cleanenv.ReadConfig reads the YAML file, then any env:"..." tagged
	// fields from the environment, and enforces env-required:"true".
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	switch cfg.Format {
	case FormatSQLite, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown persistence format %q", cfg.Format)
	}

	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
//
// The name "MustLoad" follows a Go convention: functions prefixed with
// "Must" are allowed to panic/fatal on failure. Callers do not need to
// check a returned error — if this function returns, the config is valid.
func MustLoad() *Config {
	var configPath string

	// ── Source 1: environment variable ───────────────────────────────
	configPath = os.Getenv("CONFIG_PATH")

	// ── Source 2: command-line flag ───────────────────────────────────
	// Useful when running locally:
	//   go run ./cmd/students --config=config/local.yaml
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()        // reads os.Args and populates registered flags
		configPath = *flags // dereference pointer to get the string value
	}

	// Neither source provided a path — we cannot continue.
	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// Verify the file exists before trying to read it, so the message is
	// clearer than a bare "open: no such file" from cleanenv.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg
}
