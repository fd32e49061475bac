// Package config loads holiday-planner settings from defaults, an optional
// YAML file and HOLIDAY_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/klabast/wb-services/holiday-planner/internal/planner"
)

const (
	DefaultConfigFile = "holiday-planner.yaml"
	DefaultAuthFile   = "auth.secret"
	DefaultPort       = 5000
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// Environment variable names
const (
	EnvDataFile  = "HOLIDAY_DATA_FILE"
	EnvPort      = "HOLIDAY_PORT"
	EnvStart     = "HOLIDAY_START"
	EnvDays      = "HOLIDAY_DAYS"
	EnvAuthFile  = "AUTH_FILE"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// PeriodConfig describes the holiday window
type PeriodConfig struct {
	Start string `yaml:"start" validate:"required,datetime=2006-01-02"`
	Days  int    `yaml:"days" validate:"min=1,max=366"`
}

// Config holds the runtime configuration shared by all commands.
type Config struct {
	DataFile  string       `yaml:"data_file" validate:"required"`
	Port      int          `yaml:"port" validate:"min=1,max=65535"`
	AuthFile  string       `yaml:"auth_file"`
	LogLevel  string       `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string       `yaml:"log_format" validate:"oneof=console json"`
	Period    PeriodConfig `yaml:"period"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		DataFile:  planner.DefaultDataFile,
		Port:      DefaultPort,
		AuthFile:  DefaultAuthFile,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Period: PeriodConfig{
			Start: planner.DefaultStart,
			Days:  planner.DefaultDays,
		},
	}
}

// Load builds the configuration. A missing file at path is not an error
// unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !required:
			// defaults only
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDataFile); v != "" {
		c.DataFile = v
	}
	if v := os.Getenv(EnvAuthFile); v != "" {
		c.AuthFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv(EnvStart); v != "" {
		c.Period.Start = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvPort, err)
		}
		c.Port = n
	}
	if v := os.Getenv(EnvDays); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvDays, err)
		}
		c.Period.Days = n
	}
	return nil
}

// Validate checks field ranges and formats
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// HolidayPeriod converts the period settings
func (c Config) HolidayPeriod() (planner.Period, error) {
	return planner.NewPeriod(c.Period.Start, c.Period.Days)
}
