package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Database drivers for the attempt log.
const (
	DriverNone     = ""
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const defaultGeminiModel = "gemini-2.0-flash"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GeminiConfig configures the language model. An empty APIKey is allowed:
// generation then fails with a missing-credential error instead of blocking startup.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// DatabaseConfig configures the optional attempt log. Driver selects
// PostgreSQL (Host..SSLMode) or SQLite (Path); empty disables it.
type DatabaseConfig struct {
	Driver         string `yaml:"driver"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Name           string `yaml:"name"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	SSLMode        string `yaml:"sslmode"`
	Path           string `yaml:"path"`
	MigrationsPath string `yaml:"migrations_path"`
}

// AuthConfig protects the generation routes with an X-API-Key header when set.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Enabled reports whether an attempt log is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Driver != DriverNone
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Gemini:   GeminiConfig{Model: defaultGeminiModel},
		Database: DatabaseConfig{MigrationsPath: "migrations"},
		Tailscale: TailscaleConfig{
			Hostname: "phenix",
			StateDir: "tsnet-state",
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads config from a YAML file on top of Default, then applies
// environment variable overrides. An empty path skips the file.
// Env vars use the prefix PHENIX_ and underscore-separated paths:
//
//	PHENIX_SERVER_HOST, PHENIX_SERVER_PORT,
//	PHENIX_GEMINI_API_KEY, PHENIX_GEMINI_MODEL, PHENIX_GEMINI_BASE_URL,
//	PHENIX_DB_DRIVER, PHENIX_DB_HOST, PHENIX_DB_PORT, PHENIX_DB_NAME,
//	PHENIX_DB_USER, PHENIX_DB_PASSWORD, PHENIX_DB_SSLMODE, PHENIX_DB_PATH,
//	PHENIX_AUTH_API_KEY, PHENIX_TAILSCALE_ENABLED, PHENIX_TAILSCALE_HOSTNAME
//
// GEMINI_API_KEY is read when no key is set by the file or PHENIX_GEMINI_API_KEY.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PHENIX_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PHENIX_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PHENIX_GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if v := os.Getenv("PHENIX_GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("PHENIX_GEMINI_BASE_URL"); v != "" {
		cfg.Gemini.BaseURL = v
	}
	if v := os.Getenv("PHENIX_DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("PHENIX_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("PHENIX_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("PHENIX_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("PHENIX_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("PHENIX_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("PHENIX_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("PHENIX_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PHENIX_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("PHENIX_TAILSCALE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = enabled
		}
	}
	if v := os.Getenv("PHENIX_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required")
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = defaultGeminiModel
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return errors.New("tailscale.hostname is required when tailscale is enabled")
	}

	switch c.Database.Driver {
	case DriverNone:
	case DriverPostgres:
		if c.Database.Host == "" {
			return errors.New("database.host is required")
		}
		if c.Database.Port == 0 {
			return errors.New("database.port is required")
		}
		if c.Database.Name == "" {
			return errors.New("database.name is required")
		}
		if c.Database.User == "" {
			return errors.New("database.user is required")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for sqlite")
		}
	default:
		return fmt.Errorf("database.driver %q is not one of postgres, sqlite", c.Database.Driver)
	}
	return nil
}
