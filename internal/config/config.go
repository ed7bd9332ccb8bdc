// Package config resolves the dashboard configuration: defaults,
// overlaid by an optional YAML file, overlaid by command line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full dashboard configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Connection ConnectionConfig `yaml:"connection"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig points at the serving endpoints.
type ServerConfig struct {
	WsURL   string `yaml:"ws_url"`
	APIBase string `yaml:"api_base"`
}

// ConnectionConfig holds the resilience parameters.
type ConnectionConfig struct {
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	InitialDelay      time.Duration `yaml:"initial_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
	MaxRetries        int           `yaml:"max_retries"`
}

// LoggingConfig controls the operator log file.
type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			WsURL:   "ws://localhost:8000/ws",
			APIBase: "http://localhost:8000",
		},
		Connection: ConnectionConfig{
			HeartbeatInterval: 30 * time.Second,
			InitialDelay:      time.Second,
			MaxDelay:          30 * time.Second,
			MaxRetries:        10,
		},
		Logging: LoggingConfig{
			File:  "arbdash.log",
			Level: "info",
		},
	}
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(blob, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// ParseFlags resolves the final configuration from the command line.
// Flag values override the config file, which overrides the defaults.
func ParseFlags() (Config, error) {
	var (
		configPath = flag.String("config", "", "Path to YAML config file")
		wsURL      = flag.String("ws", "", "Dashboard websocket URL")
		apiBase    = flag.String("api", "", "Mutation API base URL")
		logFile    = flag.String("log-file", "", "Operator log file path")
		logLevel   = flag.String("log-level", "", "Log level (debug/info/warn/error)")
	)
	flag.Parse()

	cfg := Default()
	if *configPath != "" {
		if err := LoadFile(*configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if *wsURL != "" {
		cfg.Server.WsURL = *wsURL
	}
	if *apiBase != "" {
		cfg.Server.APIBase = *apiBase
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	return cfg, nil
}
