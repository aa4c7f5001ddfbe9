package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "powercalc/backend/libs/config"
)

// Config represents emulator configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"EMULATOR_HTTP_PORT"`
	} `yaml:"http"`
	Auth struct {
		AnonKey          string `yaml:"anonKey" env:"EMULATOR_ANON_KEY"`
		JWTSecret        string `yaml:"jwtSecret" env:"EMULATOR_JWT_SECRET"`
		ExpiresInSeconds int    `yaml:"expiresInSeconds" env:"EMULATOR_JWT_EXPIRES_SECONDS"`
		Autoconfirm      bool   `yaml:"autoconfirm" env:"EMULATOR_AUTOCONFIRM"`
		BcryptCost       int    `yaml:"bcryptCost" env:"EMULATOR_BCRYPT_COST"`
	} `yaml:"auth"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "54321"
	cfg.Auth.ExpiresInSeconds = 3600
	cfg.Auth.Autoconfirm = true

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Auth.AnonKey) == "" {
		return nil, errors.New("config: anon key is required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	return cfg, nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "54321"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// TokenTTL converts configured expiry to duration.
func (c *Config) TokenTTL() time.Duration {
	if c.Auth.ExpiresInSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.Auth.ExpiresInSeconds) * time.Second
}
