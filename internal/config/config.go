// Package config loads server configuration from an optional TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds everything the server needs to start.
type Config struct {
	ListenAddr    string `toml:"listen_addr"`
	DatabasePath  string `toml:"database_path"`
	UploadDir     string `toml:"upload_dir"`
	JWTSecret     string `toml:"jwt_secret"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
	AdminUsername string `toml:"admin_username"`
	AdminPassword string `toml:"admin_password"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ListenAddr:    ":8080",
		DatabasePath:  "./imagevault.db",
		UploadDir:     "./uploads",
		TokenTTLHours: 24,
		AdminUsername: "admin",
	}
}

// Load reads the TOML file at path (skipped when absent), then applies
// IMAGEVAULT_* environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	applyEnv(&cfg)

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"IMAGEVAULT_LISTEN_ADDR":    &cfg.ListenAddr,
		"IMAGEVAULT_DATABASE_PATH":  &cfg.DatabasePath,
		"IMAGEVAULT_UPLOAD_DIR":     &cfg.UploadDir,
		"IMAGEVAULT_JWT_SECRET":     &cfg.JWTSecret,
		"IMAGEVAULT_ADMIN_USERNAME": &cfg.AdminUsername,
		"IMAGEVAULT_ADMIN_PASSWORD": &cfg.AdminPassword,
	}
	for key, target := range overrides {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
}

// Validate checks the settings that have no safe default.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("admin_password is required")
	}
	return nil
}
