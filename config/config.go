package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the complete desk configuration.
type Config struct {
	Triggers TriggersConfig `json:"triggers" yaml:"triggers"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Bridge   BridgeConfig   `json:"bridge" yaml:"bridge"`
}

// TriggersConfig controls trigger persistence and the monitor cadence.
// Each behavior owns its own file under DataDir; the two stores never
// contend.
type TriggersConfig struct {
	DataDir       string `json:"data_dir" yaml:"data_dir"`
	CheckInterval string `json:"check_interval" yaml:"check_interval"` // e.g. "500ms"
}

// BreakevenFile is the auto-breakeven trigger file path.
func (t TriggersConfig) BreakevenFile() string {
	return filepath.Join(t.DataDir, "auto_be_triggers.json")
}

// PartialCloseFile is the partial take-profit trigger file path.
func (t TriggersConfig) PartialCloseFile() string {
	return filepath.Join(t.DataDir, "partial_tp_triggers.json")
}

// Interval parses the check interval.
func (t TriggersConfig) Interval() (time.Duration, error) {
	if t.CheckInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(t.CheckInterval)
}

// JournalConfig selects where executions and reconciliations are recorded.
type JournalConfig struct {
	Type                string `json:"type" yaml:"type"` // "sqlite", "csv", or "none"
	DBPath              string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	ExecutionsFile      string `json:"executions_file,omitempty" yaml:"executions_file,omitempty"`
	ReconciliationsFile string `json:"reconciliations_file,omitempty" yaml:"reconciliations_file,omitempty"`
}

// BridgeConfig points at the terminal bridge. Token is secret material and
// normally comes from the environment, not the config file.
type BridgeConfig struct {
	URL   string `json:"url" yaml:"url"`
	Token string `json:"-" yaml:"-"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on
// content), then applies environment overrides. A .env file next to the
// process is honored when present.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv loads .env if present and lets DESK_* variables override file
// values. The bridge token is only ever sourced here.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("DESK_BRIDGE_URL"); v != "" {
		c.Bridge.URL = v
	}
	c.Bridge.Token = os.Getenv("DESK_BRIDGE_TOKEN")
	if v := os.Getenv("DESK_DATA_DIR"); v != "" {
		c.Triggers.DataDir = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on
// extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Triggers.DataDir == "" {
		return fmt.Errorf("triggers.data_dir is required")
	}
	if _, err := c.Triggers.Interval(); err != nil {
		return fmt.Errorf("triggers.check_interval: %w", err)
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.ExecutionsFile == "" || c.Journal.ReconciliationsFile == "" {
			return fmt.Errorf("journal executions_file and reconciliations_file required for csv type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv', or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Triggers: TriggersConfig{
			DataDir:       "./data",
			CheckInterval: "500ms",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./data/desk.db",
		},
		Bridge: BridgeConfig{
			URL: "http://127.0.0.1:8787",
		},
	}
}
