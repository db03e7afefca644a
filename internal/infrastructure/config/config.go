package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Pin Logic.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	GPIO    GPIOConfig    `yaml:"gpio"`
	Clock   ClockConfig   `yaml:"clock"`
	Display DisplayConfig `yaml:"display"`
	Devices DevicesConfig `yaml:"devices"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig contains service-level identification.
type ServiceConfig struct {
	Name string `yaml:"name"`
}

// GPIOConfig selects the physical-interface backend.
type GPIOConfig struct {
	// Backend is "rpio" for real Raspberry Pi hardware or "memory" for the
	// in-process fake (tests, development machines).
	Backend string `yaml:"backend"`
}

// ClockConfig contains tick-loop settings.
type ClockConfig struct {
	// TickIntervalMS is the pause between ticks in milliseconds.
	// Zero means tick as quickly as possible.
	TickIntervalMS int `yaml:"tick_interval_ms"`
}

// DisplayConfig contains four-digit display wiring and refresh settings.
type DisplayConfig struct {
	// HoldMS is the per-digit display duration in milliseconds.
	HoldMS int `yaml:"hold_ms"`

	// DigitLines are the four digit-select BCM lines, leftmost first.
	DigitLines []int `yaml:"digit_lines"`

	// DataLine, ClockLine and LatchLine wire the shift register.
	DataLine  int `yaml:"data_line"`
	ClockLine int `yaml:"clock_line"`
	LatchLine int `yaml:"latch_line"`
}

// DevicesConfig contains the demo device wiring.
type DevicesConfig struct {
	LEDLine    int `yaml:"led_line"`
	ButtonLine int `yaml:"button_line"`
	BuzzerLine int `yaml:"buzzer_line"`

	// ButtonBounceMS is the debounce window for the button in milliseconds.
	ButtonBounceMS int `yaml:"button_bounce_ms"`
}

// HistoryConfig contains the state-history recorder settings.
type HistoryConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PINLOGIC_SECTION_KEY
// For example: PINLOGIC_HISTORY_DATABASE_PATH, PINLOGIC_GPIO_BACKEND
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults. The pin numbers
// match the wiring of the reference breadboard layout.
func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name: "pinlogic",
		},
		GPIO: GPIOConfig{
			Backend: "memory",
		},
		Clock: ClockConfig{
			TickIntervalMS: 1000,
		},
		Display: DisplayConfig{
			HoldMS:     2,
			DigitLines: []int{10, 22, 27, 17},
			DataLine:   24,
			ClockLine:  18,
			LatchLine:  23,
		},
		Devices: DevicesConfig{
			LEDLine:        4,
			ButtonLine:     25,
			BuzzerLine:     12,
			ButtonBounceMS: 200,
		},
		History: HistoryConfig{
			Enabled: false,
			Database: DatabaseConfig{
				Path:        "./data/pinlogic.db",
				WALMode:     true,
				BusyTimeout: 5,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PINLOGIC_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PINLOGIC_GPIO_BACKEND"); v != "" {
		cfg.GPIO.Backend = v
	}
	if v := os.Getenv("PINLOGIC_HISTORY_DATABASE_PATH"); v != "" {
		cfg.History.Database.Path = v
	}
	if v := os.Getenv("PINLOGIC_HISTORY_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.History.Enabled = enabled
		}
	}
	if v := os.Getenv("PINLOGIC_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Service.Name == "" {
		errs = append(errs, "service.name is required")
	}

	switch c.GPIO.Backend {
	case "rpio", "memory":
	default:
		errs = append(errs, fmt.Sprintf("gpio.backend %q must be rpio or memory", c.GPIO.Backend))
	}

	if c.Clock.TickIntervalMS < 0 {
		errs = append(errs, "clock.tick_interval_ms must not be negative")
	}

	if c.Display.HoldMS < 0 {
		errs = append(errs, "display.hold_ms must not be negative")
	}
	if len(c.Display.DigitLines) != 4 {
		errs = append(errs, "display.digit_lines must list exactly 4 lines")
	}

	if c.History.Enabled && c.History.Database.Path == "" {
		errs = append(errs, "history.database.path is required when history is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// TickInterval returns the clock tick interval as a Duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Clock.TickIntervalMS) * time.Millisecond
}

// DisplayHold returns the per-digit hold duration as a Duration.
func (c *Config) DisplayHold() time.Duration {
	return time.Duration(c.Display.HoldMS) * time.Millisecond
}

// ButtonBounce returns the button debounce window as a Duration.
func (c *Config) ButtonBounce() time.Duration {
	return time.Duration(c.Devices.ButtonBounceMS) * time.Millisecond
}
