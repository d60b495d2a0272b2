// ============================================================================
// meinRECHENWERK (mRW) - Rechner-Engine
// ============================================================================
//
// Package:     config
// Description: Application configuration from TOML or YAML files
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/foundation/core/errors"
)

// EnvConfigPath names the environment variable LoadFromEnv reads
const EnvConfigPath = "MRW_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	History HistoryConfig `toml:"history" yaml:"history"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFormat   string `toml:"log_format" yaml:"log_format"`
}

// EngineConfig holds calculator engine settings
type EngineConfig struct {
	AngleMode       string `toml:"angle_mode" yaml:"angle_mode"`
	MaxInputLength  int    `toml:"max_input_length" yaml:"max_input_length"`
	HistoryCapacity int    `toml:"history_capacity" yaml:"history_capacity"`
}

// DisplayConfig holds presentation settings
type DisplayConfig struct {
	// GroupThousands defaults to true when unset
	GroupThousands *bool `toml:"group_thousands" yaml:"group_thousands"`
}

// Grouping reports whether thousands separators are shown
func (d DisplayConfig) Grouping() bool {
	return d.GroupThousands == nil || *d.GroupThousands
}

// HistoryConfig holds history persistence settings
type HistoryConfig struct {
	// Store is "sqlite" or "memory"
	Store string `toml:"store" yaml:"store"`
	Path  string `toml:"path" yaml:"path"`
}

// ServerConfig holds HTTP gateway and gRPC settings
type ServerConfig struct {
	Host             string     `toml:"host" yaml:"host"`
	HTTPPort         int        `toml:"http_port" yaml:"http_port"`
	GRPCPort         int        `toml:"grpc_port" yaml:"grpc_port"`
	ReadTimeout      Duration   `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout     Duration   `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout  Duration   `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	EnableReflection bool       `toml:"enable_reflection" yaml:"enable_reflection"`
	CORS             CORSConfig `toml:"cors" yaml:"cors"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	Enabled        bool     `toml:"enabled" yaml:"enabled"`
	AllowedOrigins []string `toml:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods" yaml:"allowed_methods"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewErrorBuilder(errors.ModuleConfig).
				Operation("load").
				Messagef("config file not found: %s", path).
				Code(mdwerror.CodeMissingConfig).
				Build()
		}
		return nil, mdwerror.Wrap(err, "failed to read config").WithCode(mdwerror.CodeConfigError)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, errors.NewErrorBuilder(errors.ModuleConfig).
			Operation("load").
			Message("failed to parse config").
			Cause(err).
			Code(mdwerror.CodeInvalidConfig).
			Detail("path", path).
			Build()
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in paths
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the MRW_CONFIG environment variable
// or the first default location that exists
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		// Try default locations
		defaultPaths := []string{
			"./configs/config.toml",
			"./configs/config.yaml",
			"./config.toml",
			filepath.Join(os.Getenv("HOME"), ".config/rechenwerk/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, errors.NewErrorBuilder(errors.ModuleConfig).
			Operation("load_from_env").
			Messagef("no config file found, set %s or create configs/config.toml", EnvConfigPath).
			Code(mdwerror.CodeMissingConfig).
			Build()
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "meinRECHENWERK"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Engine
	if c.Engine.AngleMode == "" {
		c.Engine.AngleMode = "rad"
	}
	if c.Engine.MaxInputLength == 0 {
		c.Engine.MaxInputLength = 16
	}
	if c.Engine.HistoryCapacity == 0 {
		c.Engine.HistoryCapacity = 30
	}

	// History
	if c.History.Store == "" {
		c.History.Store = "sqlite"
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "rechenwerk.db")
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9090
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}
	if len(c.Server.CORS.AllowedMethods) == 0 {
		c.Server.CORS.AllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, expected string) error {
		return errors.NewErrorBuilder(errors.ModuleConfig).
			Operation("validate").
			Messagef("invalid %s: %v (expected %s)", field, value, expected).
			Code(mdwerror.CodeInvalidConfig).
			Detail("field", field).
			Build()
	}

	switch strings.ToLower(c.Engine.AngleMode) {
	case "rad", "radians", "deg", "degrees":
	default:
		return invalid("engine.angle_mode", c.Engine.AngleMode, "rad or deg")
	}
	if c.Engine.MaxInputLength < 1 {
		return invalid("engine.max_input_length", c.Engine.MaxInputLength, "a positive number")
	}
	if c.Engine.HistoryCapacity < 1 {
		return invalid("engine.history_capacity", c.Engine.HistoryCapacity, "a positive number")
	}
	switch c.History.Store {
	case "sqlite", "memory":
	default:
		return invalid("history.store", c.History.Store, "sqlite or memory")
	}
	for name, port := range map[string]int{"server.http_port": c.Server.HTTPPort, "server.grpc_port": c.Server.GRPCPort} {
		if port < 1 || port > 65535 {
			return invalid(name, port, "1-65535")
		}
	}
	return nil
}

// GetServiceAddress returns the listen address for "http" or "grpc"
func (c *Config) GetServiceAddress(service string) string {
	switch service {
	case "http":
		return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
	case "grpc":
		return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
	default:
		return ""
	}
}
