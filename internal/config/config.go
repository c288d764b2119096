// Package config provides configuration management for the options simulator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	apperrors "github.com/rserranon/options-simulator/internal/errors"
	"github.com/rserranon/options-simulator/internal/payoff"
)

// Config holds all application configuration.
type Config struct {
	Defaults DefaultsConfig `mapstructure:"defaults" json:"defaults"`
	UI       UIConfig       `mapstructure:"ui" json:"ui"`
	Server   ServerConfig   `mapstructure:"server" json:"server"`
	Logging  LoggingConfig  `mapstructure:"logging" json:"logging"`
}

// DefaultsConfig holds the simulation parameters used when no flag or
// query parameter overrides them.
type DefaultsConfig struct {
	Strike       float64  `mapstructure:"strike" json:"strike"`
	Premium      float64  `mapstructure:"premium" json:"premium"`
	Basis        float64  `mapstructure:"basis" json:"basis"`
	ContractSize int      `mapstructure:"contract_size" json:"contract_size"`
	PerShare     bool     `mapstructure:"per_share" json:"per_share"`
	ShowProfit   bool     `mapstructure:"show_profit" json:"show_profit"`
	Strategies   []string `mapstructure:"strategies" json:"strategies"`
}

// UIConfig holds terminal rendering configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled" json:"color_enabled"`
	ChartWidth   int  `mapstructure:"chart_width" json:"chart_width"`
	ChartHeight  int  `mapstructure:"chart_height" json:"chart_height"`
	TableStep    int  `mapstructure:"table_step" json:"table_step"`
}

// ServerConfig holds dashboard server configuration.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" json:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	RateLimit    float64       `mapstructure:"rate_limit" json:"rate_limit"` // requests per second, 0 disables
	Burst        int           `mapstructure:"burst" json:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" json:"level"`
	File       bool   `mapstructure:"file" json:"file"`
	FilePath   string `mapstructure:"file_path" json:"file_path"`
	MaxSize    int    `mapstructure:"max_size" json:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" json:"max_age"` // days
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-simulator"
	}
	return filepath.Join(home, ".config", "options-simulator")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is replaced by a commented template and defaults apply.
// The result is not validated; callers run Validate before using it.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.Wrap(err, "reading config.toml")
		}
		// Unwritable directories still run on defaults.
		_ = createTemplateConfig(configDir)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(err, "decoding config.toml")
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration without touching the filesystem.
func Default() *Config {
	v := viper.New()
	setDefaults(v, DefaultConfigDir())
	cfg := &Config{}
	// Decoding built-in defaults cannot fail.
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper, configDir string) {
	p := payoff.DefaultParams()
	v.SetDefault("defaults.strike", p.Strike)
	v.SetDefault("defaults.premium", p.Premium)
	v.SetDefault("defaults.basis", p.Basis)
	v.SetDefault("defaults.contract_size", p.ContractSize)
	v.SetDefault("defaults.per_share", p.PerShare)
	v.SetDefault("defaults.show_profit", p.ShowProfit)
	names := make([]string, len(payoff.DefaultSelection))
	for i, s := range payoff.DefaultSelection {
		names[i] = s.String()
	}
	v.SetDefault("defaults.strategies", names)

	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.chart_width", 72)
	v.SetDefault("ui.chart_height", 20)
	v.SetDefault("ui.table_step", 10)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "optsim.log"))
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
}

func applyEnvOverrides(cfg *Config) error {
	floats := []struct {
		env    string
		target *float64
	}{
		{"OPTSIM_STRIKE", &cfg.Defaults.Strike},
		{"OPTSIM_PREMIUM", &cfg.Defaults.Premium},
		{"OPTSIM_BASIS", &cfg.Defaults.Basis},
	}
	for _, f := range floats {
		if v := os.Getenv(f.env); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not a number", apperrors.ErrConfigInvalid, f.env, v)
			}
			*f.target = parsed
		}
	}

	if v := os.Getenv("OPTSIM_CONTRACT_SIZE"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: OPTSIM_CONTRACT_SIZE=%q is not an integer", apperrors.ErrConfigInvalid, v)
		}
		cfg.Defaults.ContractSize = parsed
	}

	if v := os.Getenv("OPTSIM_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("OPTSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Params converts the configured defaults into simulation parameters.
func (c *Config) Params() payoff.Params {
	return payoff.Params{
		Strike:       c.Defaults.Strike,
		Premium:      c.Defaults.Premium,
		Basis:        c.Defaults.Basis,
		ContractSize: c.Defaults.ContractSize,
		PerShare:     c.Defaults.PerShare,
		ShowProfit:   c.Defaults.ShowProfit,
	}
}

// Strategies returns the configured default selection. Unknown names are dropped.
func (c *Config) Strategies() []payoff.Strategy {
	strategies, _ := payoff.ParseStrategies(c.Defaults.Strategies)
	return strategies
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: defaults: %w", apperrors.ErrConfigInvalid, err)
	}

	if _, unknown := payoff.ParseStrategies(c.Defaults.Strategies); len(unknown) > 0 {
		return fmt.Errorf("%w: unknown strategies %v", apperrors.ErrConfigInvalid, unknown)
	}

	if c.UI.ChartWidth < 20 || c.UI.ChartHeight < 5 {
		return fmt.Errorf("%w: chart must be at least 20x5", apperrors.ErrConfigInvalid)
	}
	if c.UI.TableStep < 1 {
		return fmt.Errorf("%w: table_step must be positive", apperrors.ErrConfigInvalid)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level: %s (must be debug, info, warn or error)", apperrors.ErrConfigInvalid, c.Logging.Level)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr must not be empty", apperrors.ErrConfigInvalid)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: server.rate_limit must not be negative", apperrors.ErrConfigInvalid)
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return fmt.Errorf("%w: server.burst must be at least 1 when rate limiting", apperrors.ErrConfigInvalid)
	}
	return nil
}
