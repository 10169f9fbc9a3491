package config

import (
	"os"

	"codeberg.org/fervag/x708ctl/internal/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval   = 2.0
	DefaultMinVoltage = 3.5
	DefaultLogLevel   = "info"

	configName = "x708ctl"
	configPath = "/etc"
	configEnv  = "X708CTL_CONFIG"
)

type Config struct {
	Interval    float64 `mapstructure:"interval"`
	MinVoltage  float64 `mapstructure:"min_voltage"`
	Ncurses     bool    `mapstructure:"ncurses"`
	Quiet       bool    `mapstructure:"quiet"`
	Watch       bool    `mapstructure:"watch"`
	Debug       bool    `mapstructure:"debug"`
	Verbose     bool    `mapstructure:"verbose"`
	LogLevel    string  `mapstructure:"log_level"`
	Telemetry   bool    `mapstructure:"telemetry"`
	TelemetryDB string  `mapstructure:"database"`
}

// Load reads configuration from the config file and command line flags.
// Flag values take precedence over file values.
func Load() (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	fs.Float64P("interval", "n", DefaultInterval, "Update interval in seconds")
	fs.Float64("min-voltage", DefaultMinVoltage, "Minimum battery voltage before auto-shutdown")
	fs.Bool("ncurses", false, "Enable full-screen terminal output")
	fs.BoolP("quiet", "q", false, "Disable output")
	fs.BoolP("watch", "w", false, "Watch only, without GPIO actuators")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")
	fs.String("log-level", "", "Log level (debug, info, warning, error)")
	fs.Bool("telemetry", false, "Record samples to the telemetry database")
	fs.String("database", "", "Path to the telemetry database")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("min_voltage", DefaultMinVoltage)
	v.SetDefault("log_level", DefaultLogLevel)

	if path := os.Getenv(configEnv); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("toml")
		v.AddConfigPath(configPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err).WithMessage("Failed to read config file")
		}
	}

	// Command line flags override file values
	bind := map[string]string{
		"interval":    "interval",
		"min-voltage": "min_voltage",
		"ncurses":     "ncurses",
		"quiet":       "quiet",
		"watch":       "watch",
		"debug":       "debug",
		"verbose":     "verbose",
		"log-level":   "log_level",
		"telemetry":   "telemetry",
		"database":    "database",
	}
	fs.Visit(func(f *pflag.Flag) {
		v.Set(bind[f.Name], f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.ApplyLogLevel()

	return config, nil
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.MinVoltage <= 0 {
		return errFactory.WithData(errors.ErrInvalidMinVoltage, c.MinVoltage)
	}
	if c.LogLevel != "" && !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// ApplyLogLevel sets the global log level from the configuration. The
// debug and verbose switches win over log_level.
func (c *Config) ApplyLogLevel() {
	switch {
	case c.Debug:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case c.Verbose:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		switch LogLevel(c.LogLevel) {
		case LogLevelDebug:
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		case LogLevelInfo:
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		case LogLevelWarning:
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		case LogLevelError:
			zerolog.SetGlobalLevel(zerolog.ErrorLevel)
		}
	}
}
