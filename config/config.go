// Package config collects the settings of the chartline command.
package config

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "CHARTLINE"

// Keys of the settings.
const (
	KeyLogLevel    = "log_level"
	KeyRecordPath  = "record_path"
	KeyMonitorPort = "monitor_port"
	KeyOpenBrowser = "open_browser"
	KeyTickMS      = "tick_ms"
)

// Log levels.
const (
	LevelQuiet = "quiet"
	LevelInfo  = "info"
	LevelDebug = "debug"
)

// ErrInvalidConfig is returned when a setting has an unusable value.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings of one run.
type Config struct {
	LogLevel    string `mapstructure:"log_level"`
	RecordPath  string `mapstructure:"record_path"`
	MonitorPort int    `mapstructure:"monitor_port"`
	OpenBrowser bool   `mapstructure:"open_browser"`
	TickMS      int    `mapstructure:"tick_ms"`
}

// Load reads the settings. Values come, from the highest priority down, from
// flags that were set, environment variables, the .env files and the
// defaults. Missing .env files are ignored.
func Load(flags *pflag.FlagSet, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	applyDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, LevelInfo)
	v.SetDefault(KeyRecordPath, "")
	v.SetDefault(KeyMonitorPort, 0)
	v.SetDefault(KeyOpenBrowser, false)
	v.SetDefault(KeyTickMS, 16)
}

// bindFlags binds every flag named like a key, with dashes for underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{
		KeyLogLevel, KeyRecordPath, KeyMonitorPort, KeyOpenBrowser, KeyTickMS,
	} {
		f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	}

	return nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LevelQuiet, LevelInfo, LevelDebug:
	default:
		return fmt.Errorf("log level %q: %w", c.LogLevel, ErrInvalidConfig)
	}

	if c.MonitorPort < 0 || c.MonitorPort > 65535 {
		return fmt.Errorf("monitor port %d: %w", c.MonitorPort, ErrInvalidConfig)
	}

	if c.TickMS <= 0 {
		return fmt.Errorf("tick %d ms: %w", c.TickMS, ErrInvalidConfig)
	}

	return nil
}

// Tick returns the player tick period.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

// Logger creates the logger for the log level. Quiet discards everything.
func (c *Config) Logger(w io.Writer) *log.Logger {
	if c.LogLevel == LevelQuiet {
		w = io.Discard
	}

	flags := log.LstdFlags
	if c.LogLevel == LevelDebug {
		flags |= log.Lmicroseconds | log.Lshortfile
	}

	return log.New(w, "chartline: ", flags)
}
