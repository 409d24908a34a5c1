package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Scene  SceneConfig  `mapstructure:"scene"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// SceneConfig holds projection settings.
type SceneConfig struct {
	Title       string  `mapstructure:"title"`
	ScaleFactor float64 `mapstructure:"scale_factor"`
	Debug       bool    `mapstructure:"debug"`
}

// ServerConfig holds inspector HTTP settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from file and env. path, when non-empty, names the
// config file; otherwise ARBOR_CONFIG is consulted and then
// $HOME/.config/arbor/config.yaml. A missing default file is not an error.
// Env var overrides use prefix ARBOR_ (ARBOR_SCENE_SCALE_FACTOR=2).
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("scene.title", "arbor")
	v.SetDefault("scene.scale_factor", 1.0)
	v.SetDefault("scene.debug", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")

	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv("ARBOR_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "arbor"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ARBOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Scene.ScaleFactor <= 0 {
		return Config{}, fmt.Errorf("scene.scale_factor must be positive, got %v", c.Scene.ScaleFactor)
	}
	return c, nil
}
