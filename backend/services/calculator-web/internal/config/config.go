package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "powercalc/backend/libs/config"
)

// Data drivers selecting where calculation rows live.
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
)

// Config defines calculator-web configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"CALCULATOR_WEB_HTTP_PORT"`
	} `yaml:"http"`
	Backend struct {
		URL            string `yaml:"url" env:"SUPABASE_URL"`
		AnonKey        string `yaml:"anonKey" env:"SUPABASE_ANON_KEY"`
		JWTSecret      string `yaml:"jwtSecret" env:"SUPABASE_JWT_SECRET"`
		TimeoutSeconds int    `yaml:"timeoutSeconds" env:"SUPABASE_HTTP_TIMEOUT"`
	} `yaml:"backend"`
	Data struct {
		Driver      string `yaml:"driver" env:"CALCULATOR_DATA_DRIVER"`
		PostgresDSN string `yaml:"postgresDsn" env:"CALCULATOR_POSTGRES_DSN"`
		Migrate     bool   `yaml:"migrate" env:"CALCULATOR_POSTGRES_MIGRATE"`
		ListLimit   int    `yaml:"listLimit" env:"CALCULATOR_LIST_LIMIT"`
	} `yaml:"data"`
	Redis struct {
		Addr       string `yaml:"addr" env:"CALCULATOR_REDIS_ADDR"`
		Password   string `yaml:"password" env:"CALCULATOR_REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"CALCULATOR_REDIS_DB"`
		TTLSeconds int    `yaml:"ttlSeconds" env:"CALCULATOR_REDIS_TTL"`
	} `yaml:"redis"`
	Web struct {
		StaticDir    string `yaml:"staticDir" env:"CALCULATOR_STATIC_DIR"`
		LoginPath    string `yaml:"loginPath" env:"CALCULATOR_LOGIN_PATH"`
		CookieName   string `yaml:"cookieName" env:"CALCULATOR_COOKIE_NAME"`
		CookieSecure bool   `yaml:"cookieSecure" env:"CALCULATOR_COOKIE_SECURE"`
	} `yaml:"web"`
}

// Load reads configuration via the shared loader.
func Load() (*Config, error) {
	cfg := Defaults()
	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns configuration with every optional value filled.
func Defaults() *Config {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Backend.TimeoutSeconds = 10
	cfg.Data.Driver = DriverREST
	cfg.Redis.TTLSeconds = 7 * 24 * 3600
	cfg.Web.StaticDir = "./web"
	cfg.Web.LoginPath = "/login.html"
	cfg.Web.CookieName = "powercalc_session"
	return cfg
}

// Validate checks required values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return errors.New("config: backend url required")
	}
	if strings.TrimSpace(c.Backend.AnonKey) == "" {
		return errors.New("config: backend anon key required")
	}
	switch c.Data.Driver {
	case DriverREST:
	case DriverPostgres:
		if strings.TrimSpace(c.Data.PostgresDSN) == "" {
			return errors.New("config: postgres dsn required for postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown data driver %q", c.Data.Driver)
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// BackendTimeout returns the backend http client timeout.
func (c *Config) BackendTimeout() time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// SessionTTL returns how long redis keeps a browser session.
func (c *Config) SessionTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}
