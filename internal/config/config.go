// Package config loads task-cli settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	appName        = "task-cli"
	configFileName = "config.toml"
	envConfigPath  = "TASK_CLI_CONFIG"
)

type Config struct {
	Store StoreConfig `toml:"store"`
	Log   LogConfig   `toml:"log"`
	UI    UIConfig    `toml:"ui"`

	// Path of the file the config was read from; empty when env-only.
	Source string `toml:"-"`
}

type StoreConfig struct {
	// Empty means tasks.json next to the executable.
	Path string `toml:"path" env:"TASK_CLI_STORE" env-default:""`
	// The advisory lock is on unless disabled.
	DisableLock bool `toml:"disable_lock" env:"TASK_CLI_DISABLE_LOCK" env-default:"false"`
}

type LogConfig struct {
	Level      string `toml:"level" env:"TASK_CLI_LOG_LEVEL" env-default:"warn"`
	Format     string `toml:"format" env:"TASK_CLI_LOG_FORMAT" env-default:"text"`
	Timestamps bool   `toml:"timestamps" env:"TASK_CLI_LOG_TIMESTAMPS" env-default:"false"`
}

type UIConfig struct {
	Theme string `toml:"theme" env:"TASK_CLI_THEME" env-default:"classic"`
	// auto | always | never
	Color string `toml:"color" env:"TASK_CLI_COLOR" env-default:"auto"`
}

// Load reads path if given, otherwise $TASK_CLI_CONFIG, otherwise the user
// config file when it exists. Environment variables override file values.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		if p := strings.TrimSpace(os.Getenv(envConfigPath)); p != "" {
			path, explicit = p, true
		}
	}
	if !explicit {
		path = userConfigFile()
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				path = ""
			} else {
				return Config{}, fmt.Errorf("config file: %w", err)
			}
		}
	}

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		cfg.Source = path
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	switch strings.ToLower(c.UI.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("ui.color: must be auto, always or never, got %q", c.UI.Color)
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, configFileName)
}
