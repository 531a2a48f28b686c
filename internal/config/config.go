// Package config loads soeframe's static configuration: logging,
// default SOE/Gateway codec CRC parameters, spatial grid dimensions,
// and the Prometheus metrics switch. It is read through viper and
// decoded with mapstructure.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is soeframe's static configuration.
//
// Values from the configuration file (YAML) are layered over
// GetDefaultConfig(); a SOEFRAME_* environment variable overrides a key
// only when the file sets that key. When no file is found, Load returns
// the defaults unchanged and environment variables are not consulted.
// CLI flags are not bound here.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Codec   CodecConfig   `mapstructure:"codec"`
	Grid    GridConfig    `mapstructure:"grid"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level"`

	// Format is "text" or "json".
	Format string `mapstructure:"format"`
}

// CodecConfig sets the default SOE CRC parameters new codecs are
// constructed with when a caller doesn't override them explicitly.
type CodecConfig struct {
	UseCRC  bool   `mapstructure:"use_crc"`
	CRCSeed uint32 `mapstructure:"crc_seed"`
}

// GridConfig sets the default spatial grid dimensions.
type GridConfig struct {
	X0 float32 `mapstructure:"x0"`
	X1 float32 `mapstructure:"x1"`
	Y0 float32 `mapstructure:"y0"`
	Y1 float32 `mapstructure:"y1"`
	Nx int     `mapstructure:"nx"`
	Ny int     `mapstructure:"ny"`
}

// MetricsConfig controls Prometheus metrics collection. Listen is
// carried in the configuration, but nothing in this module reads it or
// starts a listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// GetDefaultConfig returns the configuration used when no file or
// environment override is present.
func GetDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "INFO", Format: "text"},
		Codec:   CodecConfig{UseCRC: true, CRCSeed: 0},
		Grid: GridConfig{
			X0: -1000, X1: 1000,
			Y0: -1000, Y1: 1000,
			Nx: 100, Ny: 100,
		},
		Metrics: MetricsConfig{Enabled: false, Listen: ":9090"},
	}
}

// Load loads configuration from file, environment, and defaults.
//
// Parameters:
//   - configPath: path to a config file; empty uses the default
//     location ($XDG_CONFIG_HOME/soeframe/config.yaml).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}
	if !found {
		return GetDefaultConfig(), nil
	}

	cfg := *GetDefaultConfig()
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix("SOEFRAME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(defaultConfigDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("config: read file: %w", err)
	}
	return true, nil
}

func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "soeframe")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".soeframe"
	}
	return filepath.Join(home, ".config", "soeframe")
}
