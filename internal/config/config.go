// Package config loads the rio command configuration from an optional YAML
// file and RIO_ environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lszeremeta/sesame-rio-api/rio"
)

// Config holds the complete command configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log"     yaml:"log"`
	Convert ConvertConfig `mapstructure:"convert" yaml:"convert"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// ConvertConfig holds conversion defaults
type ConvertConfig struct {
	// DefaultFormat names the format used when a file extension is not recognized.
	DefaultFormat    string   `mapstructure:"default_format"     yaml:"default_format"`
	BaseURI          string   `mapstructure:"base_uri"           yaml:"base_uri"`
	NonFatal         []string `mapstructure:"non_fatal"          yaml:"non_fatal"`
	Pretty           bool     `mapstructure:"pretty"             yaml:"pretty"`
	PreserveBNodeIDs bool     `mapstructure:"preserve_bnode_ids" yaml:"preserve_bnode_ids"`
	MetricsOut       string   `mapstructure:"metrics_out"        yaml:"metrics_out"`
}

// Load reads configPath, if given, and the environment. Environment variables
// use the RIO_ prefix with '.' replaced by '_', e.g. RIO_LOG_LEVEL.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.SetEnvPrefix("RIO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("convert.default_format", rio.RDFXML.Name())
	v.SetDefault("convert.base_uri", "")
	v.SetDefault("convert.non_fatal", []string{})
	v.SetDefault("convert.pretty", true)
	v.SetDefault("convert.preserve_bnode_ids", false)
	v.SetDefault("convert.metrics_out", "")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.DefaultFormat(); err != nil {
		return err
	}
	for _, key := range c.Convert.NonFatal {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("convert.non_fatal contains an empty setting key")
		}
	}
	return nil
}

// DefaultFormat resolves convert.default_format.
func (c *Config) DefaultFormat() (rio.Format, error) {
	f, ok := rio.FormatByName(c.Convert.DefaultFormat)
	if !ok {
		return rio.Format{}, fmt.Errorf("convert.default_format: unknown format %q", c.Convert.DefaultFormat)
	}
	return f, nil
}
