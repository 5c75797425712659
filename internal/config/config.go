// Package config loads trayflow settings from an optional YAML file and
// environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig   = "TRAYFLOW_CONFIG"
	EnvDB       = "TRAYFLOW_DB"
	EnvFarm     = "TRAYFLOW_FARM"
	EnvLogLevel = "TRAYFLOW_LOG_LEVEL"
	EnvHTTPAddr = "TRAYFLOW_HTTP_ADDR"
	EnvTimezone = "TRAYFLOW_TZ"
)

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PlannerConfig struct {
	LookbackDays int `yaml:"lookback_days"`
	HorizonDays  int `yaml:"horizon_days"`
	// AutoplanCron is a five-field cron spec or descriptor such as
	// "@daily". Empty disables the scheduled planner.
	AutoplanCron string `yaml:"autoplan_cron"`
}

type FulfillmentConfig struct {
	FreshnessDays int `yaml:"freshness_days"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config holds every setting of the CLI and the server.
type Config struct {
	Database    string            `yaml:"database"`
	Farm        string            `yaml:"farm"`
	Timezone    string            `yaml:"timezone"`
	Log         LogConfig         `yaml:"log"`
	Planner     PlannerConfig     `yaml:"planner"`
	Fulfillment FulfillmentConfig `yaml:"fulfillment"`
	Server      ServerConfig      `yaml:"server"`
}

// DefaultConfig returns a Config with the database under ~/.trayflow.
func DefaultConfig() Config {
	dbPath := "trayflow.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".trayflow", "trayflow.db")
	}
	return Config{
		Database: dbPath,
		Timezone: "Local",
		Log:      LogConfig{Level: "warn", Format: "auto"},
		Planner: PlannerConfig{
			LookbackDays: 14,
			HorizonDays:  21,
		},
		Fulfillment: FulfillmentConfig{FreshnessDays: 3},
		Server:      ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath is ~/.trayflow/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".trayflow", "config.yaml")
}

// Load reads the file named by TRAYFLOW_CONFIG, or the default path when
// unset, applies environment overrides and validates the result. A missing
// default file is not an error; a missing explicit file is.
func Load() (Config, error) {
	path, explicit := os.LookupEnv(EnvConfig)
	if !explicit {
		path = DefaultPath()
	}
	cfg, err := LoadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg = DefaultConfig()
		} else {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile parses a YAML file over the defaults. Unknown keys are errors.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, fs.ErrNotExist
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv(EnvFarm); v != "" {
		cfg.Farm = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Database) == "" {
		problems = append(problems, "database must not be empty")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("timezone %q: %v", c.Timezone, err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be auto, console or json", c.Log.Format))
	}
	if c.Planner.LookbackDays < 0 {
		problems = append(problems, "planner.lookback_days must not be negative")
	}
	if c.Planner.HorizonDays < 1 {
		problems = append(problems, "planner.horizon_days must be at least 1")
	}
	if c.Planner.AutoplanCron != "" {
		if _, err := CronParser.Parse(c.Planner.AutoplanCron); err != nil {
			problems = append(problems, fmt.Sprintf("planner.autoplan_cron %q: %v", c.Planner.AutoplanCron, err))
		}
	}
	if c.Fulfillment.FreshnessDays < 0 {
		problems = append(problems, "fulfillment.freshness_days must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the configured time zone. Validate has checked it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Today is the current civil date in the configured time zone.
func (c Config) Today(now time.Time) time.Time {
	y, m, d := now.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CronParser accepts standard five-field specs and descriptors.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// String renders the effective settings for `trayflow config`.
func (c Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return strconv.Quote(err.Error())
	}
	return string(out)
}
