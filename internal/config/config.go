package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	keyPort         = "port"
	keyDatabaseURL  = "database_url"
	keyLogLevel     = "log_level"
	keyReaperGrace  = "reaper_grace_seconds"
	defaultPort     = 8080
	defaultGraceSec = 300
)

// Config holds server configuration.
type Config struct {
	Port int
	// DatabaseURL selects the Postgres backend. Empty means in-memory.
	DatabaseURL string
	LogLevel    slog.Level
	ReaperGrace time.Duration

	v *viper.Viper
}

// Overrides optionally overrides values from the file and environment.
//
// A nil pointer means "use the environment/file/default value".
type Overrides struct {
	ConfigFile  *string
	Port        *int
	DatabaseURL *string
	LogLevel    *string
}

// Load reads agentstatus.yml (from the working directory or
// $HOME/.agentstatus) when present, then the environment, then overrides.
func Load(overrides Overrides) (*Config, error) {
	v := viper.New()
	v.SetDefault(keyPort, defaultPort)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyReaperGrace, defaultGraceSec)
	v.SetDefault(keyDatabaseURL, "")
	v.AutomaticEnv()

	if overrides.ConfigFile != nil {
		v.SetConfigFile(*overrides.ConfigFile)
	} else {
		v.SetConfigName("agentstatus")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".agentstatus"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || overrides.ConfigFile != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if overrides.Port != nil {
		v.Set(keyPort, *overrides.Port)
	}
	if overrides.DatabaseURL != nil {
		v.Set(keyDatabaseURL, *overrides.DatabaseURL)
	}
	if overrides.LogLevel != nil {
		v.Set(keyLogLevel, *overrides.LogLevel)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.v = v
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	level, err := ParseLevel(v.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}

	port := v.GetInt(keyPort)
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	grace := v.GetInt(keyReaperGrace)
	if grace < 0 {
		return nil, fmt.Errorf("invalid %s %d", strings.ToUpper(keyReaperGrace), grace)
	}

	return &Config{
		Port:        port,
		DatabaseURL: v.GetString(keyDatabaseURL),
		LogLevel:    level,
		ReaperGrace: time.Duration(grace) * time.Second,
	}, nil
}

// Addr is the gin listen address.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

// File reports the config file in use, or "" when running from env only.
func (c *Config) File() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// Watch calls onChange with a freshly decoded Config whenever the config file
// is written. It is a no-op when no file was loaded. Invalid edits are logged
// and skipped.
func (c *Config) Watch(onChange func(*Config)) {
	if c.File() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(c.v)
		if err != nil {
			slog.Error("config reload rejected", "file", e.Name, "error", err)
			return
		}
		next.v = c.v
		slog.Info("config reloaded", "file", e.Name, "log_level", next.LogLevel.String())
		onChange(next)
	})
	c.v.WatchConfig()
}

// ParseLevel accepts slog level names case-insensitively ("debug", "WARN", ...).
func ParseLevel(raw string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("parsing log level %q: %w", raw, err)
	}
	return l, nil
}
