// Package config holds the server configuration, read from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/janpfeifer/GoMemory/internal/game"
	"gopkg.in/yaml.v3"
)

// Config of the GoMemory server.
type Config struct {
	// Addr to listen on. Empty means an automatically chosen port on localhost.
	Addr string `yaml:"addr"`

	// DataDir is where custom boards are stored. Empty keeps them in memory only.
	DataDir string `yaml:"data_dir"`

	// PublicURL is prepended to image paths to build the references stored in
	// published games, e.g. "https://memory.example.com". Empty yields relative URLs.
	PublicURL string `yaml:"public_url"`

	// CacheSize is the number of downloaded custom games kept in memory.
	CacheSize int `yaml:"cache_size"`

	// MinGameName and MaxGameName bound the length (in runes) of custom game names.
	MinGameName int `yaml:"min_game_name"`
	MaxGameName int `yaml:"max_game_name"`

	// DefaultSize of the board for new games that don't ask for one.
	DefaultSize game.BoardSize `yaml:"default_size"`

	// AdminToken allows deleting published games, with an "Authorization: Bearer <token>"
	// header. Empty disables deletes.
	AdminToken string `yaml:"admin_token"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		CacheSize:   128,
		MinGameName: 3,
		MaxGameName: 14,
		DefaultSize: game.Medium,
	}
}

// Load reads the YAML file at path on top of Default. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values are usable.
func (c *Config) Validate() error {
	if c.CacheSize <= 0 {
		return fmt.Errorf("cache_size must be positive, got %d", c.CacheSize)
	}
	if c.MinGameName < 1 || c.MaxGameName < c.MinGameName {
		return fmt.Errorf("invalid game name bounds [%d, %d]", c.MinGameName, c.MaxGameName)
	}
	if !c.DefaultSize.Valid() {
		return fmt.Errorf("invalid default_size %d", int(c.DefaultSize))
	}
	return nil
}
