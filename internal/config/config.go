// Package config loads settings from an optional YAML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"proyectos/internal/util"
)

// Config is the top-level application configuration.
type Config struct {
	Env       string      `yaml:"env"`
	Addr      string      `yaml:"addr"`
	StaticDir string      `yaml:"static_dir"`
	Store     StoreConfig `yaml:"store"`
	Slot      SlotConfig  `yaml:"slot"`
	API       APIConfig   `yaml:"api"`
	Cart      CartConfig  `yaml:"cart"`
}

// StoreConfig selects the project store backend.
type StoreConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	MongoURI   string `yaml:"mongo_uri"`
}

// SlotConfig selects where the sprint board is kept.
type SlotConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
	Key      string `yaml:"key"`
}

// APIConfig points clients at a running project API.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// CartConfig is the cart export target.
type CartConfig struct {
	Repo    string `yaml:"repo"`
	Path    string `yaml:"path"`
	Token   string `yaml:"-"`
	BaseURL string `yaml:"github_api_url"`
}

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"

	SlotFile   = "file"
	SlotSQLite = "sqlite"
	SlotRedis  = "redis"
)

// LoadDotEnv loads variables from path into the process environment without
// overriding those already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads the optional YAML file at path, then applies environment
// overrides and defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets environment variables override file values.
func (c *Config) applyEnv() {
	c.Env = util.EnvOrDefault("PROYECTOS_ENV", c.Env)
	if port := util.EnvOrDefault("PORT", ""); port != "" {
		c.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	c.Addr = util.EnvOrDefault("PROYECTOS_ADDR", c.Addr)
	c.StaticDir = util.EnvOrDefault("PROYECTOS_STATIC_DIR", c.StaticDir)

	c.Store.Driver = util.EnvOrDefault("PROYECTOS_STORE", c.Store.Driver)
	c.Store.SQLitePath = util.EnvOrDefault("PROYECTOS_DB_PATH", c.Store.SQLitePath)
	c.Store.MongoURI = util.EnvOrDefault("MONGO_URI", c.Store.MongoURI)

	c.Slot.Driver = util.EnvOrDefault("PROYECTOS_SLOT", c.Slot.Driver)
	c.Slot.Path = util.EnvOrDefault("PROYECTOS_SLOT_PATH", c.Slot.Path)
	c.Slot.RedisURL = util.EnvOrDefault("REDIS_URL", c.Slot.RedisURL)
	c.Slot.Key = util.EnvOrDefault("PROYECTOS_SLOT_KEY", c.Slot.Key)

	c.API.BaseURL = util.EnvOrDefault("PROYECTOS_API_URL", c.API.BaseURL)

	c.Cart.Repo = util.EnvOrDefault("CART_REPO", c.Cart.Repo)
	c.Cart.Path = util.EnvOrDefault("CART_PATH", c.Cart.Path)
	c.Cart.Token = util.FirstEnv(c.Cart.Token, "GITHUB_TOKEN", "REACT_APP_GITHUB_TOKEN")
	c.Cart.BaseURL = util.EnvOrDefault("GITHUB_API_URL", c.Cart.BaseURL)
}

// applyDefaults fills in unset values.
func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Addr == "" {
		c.Addr = ":5000"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreSQLite
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "data/proyectos.db"
	}
	if c.Slot.Driver == "" {
		c.Slot.Driver = SlotFile
	}
	if c.Slot.Path == "" {
		switch c.Slot.Driver {
		case SlotSQLite:
			c.Slot.Path = "data/slots.db"
		default:
			c.Slot.Path = "data/sprints.json"
		}
	}
	if c.Slot.Key == "" {
		c.Slot.Key = "sprints"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:5000/api"
	}
	if c.Cart.Path == "" {
		c.Cart.Path = "carrito.json"
	}
}

// validate checks that the selected backends have what they need.
func (c *Config) validate() error {
	var errs []string
	switch c.Store.Driver {
	case StoreSQLite:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, "store.mongo_uri is required for the mongo store")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q is not one of sqlite, mongo", c.Store.Driver))
	}
	switch c.Slot.Driver {
	case SlotFile, SlotSQLite:
	case SlotRedis:
		if c.Slot.RedisURL == "" {
			errs = append(errs, "slot.redis_url is required for the redis slot")
		}
	default:
		errs = append(errs, fmt.Sprintf("slot.driver %q is not one of file, sqlite, redis", c.Slot.Driver))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
