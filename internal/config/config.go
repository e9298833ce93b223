package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	validator "gopkg.in/go-playground/validator.v9"
)

const (
	defaultChainID      = "0x1"
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
	defaultApprovalMode = ApprovalAsk
	defaultRPCTimeout   = 15
	defaultServeAddr    = "127.0.0.1:8546"

	configFile   = "config.json"
	networksFile = "networks.json"
	activeFile   = "active.json"

	envPrefix = "W3GATE"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.w3gate.
// W3GATE_* environment variables override values from the file.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".w3gate")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.configDir = dir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values against their struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	return saveJSON(filepath.Join(c.configDir, configFile), c)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// NetworksPath is where the network registry is persisted.
func (c *Config) NetworksPath() string {
	return filepath.Join(c.configDir, networksFile)
}

// ActivePath is where per-origin active networks are persisted.
func (c *Config) ActivePath() string {
	return filepath.Join(c.configDir, activeFile)
}

// Timeout returns RPCTimeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RPCTimeout) * time.Second
}

// --- helpers ---

func setDefaults(v *viper.Viper) {
	v.SetDefault("default_chain_id", defaultChainID)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)
	v.SetDefault("approval_mode", defaultApprovalMode)
	v.SetDefault("rpc_timeout", defaultRPCTimeout)
	v.SetDefault("serve_addr", defaultServeAddr)
	v.SetDefault("cors_origins", []string{"*"})
}

// LoadJSON reads a JSON document from path. A missing file yields the zero value.
func LoadJSON[T any](path string) (*T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &zero, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SaveJSON writes v to path as indented JSON.
func SaveJSON(path string, v any) error {
	return saveJSON(path, v)
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
