package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Server holds all configuration for the inventory transaction pipeline.
type Server struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Inventory
	Inventory InventoryConfig `yaml:"inventory"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// InventoryConfig holds protocol window ids and transaction limits.
type InventoryConfig struct {
	// Fixed ids of the pseudo-windows. Clients of different versions disagree on these.
	UIWindowID      int32 `yaml:"ui_window_id"`
	EnchantWindowID int32 `yaml:"enchant_window_id"`
	AnvilWindowID   int32 `yaml:"anvil_window_id"`
	BeaconWindowID  int32 `yaml:"beacon_window_id"`

	// Player crafting grid window id (server-assigned).
	CraftingWindowID int32 `yaml:"crafting_window_id"`

	MaxTransactionActions int  `yaml:"max_transaction_actions"`
	Journal               bool `yaml:"journal"` // store accepted transactions in the database
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		LogLevel: "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "invtx",
			Password: "invtx",
			DBName:   "invtx",
			SSLMode:  "disable",
		},
		Inventory: InventoryConfig{
			UIWindowID:            124,
			EnchantWindowID:       3,
			AnvilWindowID:         4,
			BeaconWindowID:        5,
			CraftingWindowID:      -1,
			MaxTransactionActions: 64,
			Journal:               false,
		},
	}
}

// LoadServer loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside packet handling.
func (s Server) Validate() error {
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", s.LogLevel)
	}
	if s.Inventory.MaxTransactionActions <= 0 {
		return fmt.Errorf("max_transaction_actions must be > 0, got %d", s.Inventory.MaxTransactionActions)
	}
	ids := map[int32]string{}
	for name, id := range map[string]int32{
		"ui_window_id":      s.Inventory.UIWindowID,
		"enchant_window_id": s.Inventory.EnchantWindowID,
		"anvil_window_id":   s.Inventory.AnvilWindowID,
		"beacon_window_id":  s.Inventory.BeaconWindowID,
	} {
		if other, dup := ids[id]; dup {
			return fmt.Errorf("%s and %s share window id %d", name, other, id)
		}
		ids[id] = name
	}
	return nil
}
