package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/cliff-rosen/jam-bot-sub001/internal/types"
)

// Config holds the runtime settings for the engine and CLI.
type Config struct {
	// CatalogPath points at a YAML tool catalog loaded on startup. Empty
	// means builtins only.
	CatalogPath string `mapstructure:"catalog_path" validate:"omitempty"`

	// MissionDir is where mission definitions are looked up by name.
	MissionDir string `mapstructure:"mission_dir" validate:"required"`

	// Strict makes validation findings fatal instead of advisory.
	Strict bool `mapstructure:"strict"`

	// EventBufferSize is the per-subscriber buffer for execution events.
	EventBufferSize int `mapstructure:"event_buffer_size" validate:"gte=1"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		MissionDir:      ".",
		EventBufferSize: 100,
	}
}

// Load reads configuration with viper: defaults first, then an optional
// YAML file, then JAMBOT_* environment variables. An empty path skips the
// file layer entirely.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults := Default()
	v.SetDefault("catalog_path", defaults.CatalogPath)
	v.SetDefault("mission_dir", defaults.MissionDir)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("event_buffer_size", defaults.EventBufferSize)

	v.SetEnvPrefix("JAMBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "cannot read config file", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, types.WrapError(types.CONFIG_LOAD_FAILED, "cannot decode config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the structural constraints on the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "invalid configuration", err)
	}
	return nil
}
