// Package config handles external configuration loading from JSON, an optional
// .env file and environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Debug     bool      `json:"debug"`
	Server    Server    `json:"server"`
	Store     Store     `json:"store"`
	Business  Business  `json:"business"`
	Currency  Currency  `json:"currency"`
	Timezone  string    `json:"timezone"`
	Lifecycle Lifecycle `json:"lifecycle"`
	Reports   Reports   `json:"reports"`
	MQTT      MQTT      `json:"mqtt"`
	Logging   Logging   `json:"logging"`
}

// Server holds HTTP server configuration
type Server struct {
	Port         int    `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"readTimeout"`
	WriteTimeout int    `json:"writeTimeout"`
}

// Store selects and configures the record store backend
type Store struct {
	Driver        string `json:"driver"`
	Path          string `json:"path"`
	RedisAddr     string `json:"redisAddr"`
	RedisPassword string `json:"redisPassword"`
	RedisDB       int    `json:"redisDB"`
	MongoURI      string `json:"mongoURI"`
	MongoDatabase string `json:"mongoDatabase"`
	PostgresDSN   string `json:"postgresDSN"`
	KeyPrefix     string `json:"keyPrefix"`
}

// Business holds the garage details used to sign messages
type Business struct {
	Name         string `json:"name"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail"`
}

// Currency is the display currency of amounts in messages
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// Lifecycle holds job card status rules
type Lifecycle struct {
	StrictTransitions bool `json:"strictTransitions"`
}

// Reports holds the report scheduler settings
type Reports struct {
	CheckIntervalSeconds int `json:"checkIntervalSeconds"`
}

// MQTT holds the share event broker settings. An empty broker disables publishing.
type MQTT struct {
	Broker   string `json:"broker"`
	ClientID string `json:"clientId"`
	Topic    string `json:"topic"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Logging holds logger settings
type Logging struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Load reads configuration from the specified JSON file and overrides with environment variables
func Load(configPath string) (*Config, error) {
	var cfg Config

	cleanPath := filepath.Clean(configPath)

	data, err := os.ReadFile(cleanPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, we continue with empty config and rely on Env Vars

	// .env never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides overrides config values with environment variables if set
func (c *Config) applyEnvOverrides() {
	if debug := os.Getenv("DEBUG"); debug != "" {
		c.Debug = debug == "true" || debug == "1"
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if driver := os.Getenv("STORE_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		c.Store.Path = dbPath
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Store.RedisAddr = addr
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		c.Store.RedisPassword = pw
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.Store.MongoURI = uri
	}
	if name := os.Getenv("MONGO_DB"); name != "" {
		c.Store.MongoDatabase = name
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		c.Store.PostgresDSN = dsn
	}

	if name := os.Getenv("GARAGE_NAME"); name != "" {
		c.Business.Name = name
	}
	if code := os.Getenv("CURRENCY_CODE"); code != "" {
		c.Currency.Code = code
	}
	if sym := os.Getenv("CURRENCY_SYMBOL"); sym != "" {
		c.Currency.Symbol = sym
	}
	if tz := os.Getenv("TZ_NAME"); tz != "" {
		c.Timezone = tz
	}
	if strict := os.Getenv("STRICT_TRANSITIONS"); strict != "" {
		c.Lifecycle.StrictTransitions = strict == "true" || strict == "1"
	}

	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		c.MQTT.Broker = broker
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// applyDefaults fills in values left empty by the file and the environment
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSQLite
	}
	if c.Store.Path == "" {
		c.Store.Path = "data/garagepro.db"
	}
	if c.Store.MongoDatabase == "" {
		c.Store.MongoDatabase = "garagepro"
	}
	if c.Currency.Code == "" {
		c.Currency.Code = "INR"
	}
	if c.Currency.Symbol == "" && c.Currency.Code == "INR" {
		c.Currency.Symbol = "₹"
	}
	if c.Reports.CheckIntervalSeconds == 0 {
		c.Reports.CheckIntervalSeconds = 60
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "garagepro"
	}
	if c.MQTT.Topic == "" {
		c.MQTT.Topic = "garagepro/shares"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
		if c.Debug {
			c.Logging.Level = "debug"
		}
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// validate checks that all required configuration values are present
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Store.Driver {
	case DriverSQLite:
		cleanDBPath := filepath.Clean(c.Store.Path)
		if !filepath.IsLocal(cleanDBPath) && !filepath.IsAbs(cleanDBPath) {
			return fmt.Errorf("invalid database path: potential path traversal detected")
		}
	case DriverMemory:
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis store")
		}
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("mongo URI is required for the mongo store")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("postgres DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Reports.CheckIntervalSeconds < 0 {
		return fmt.Errorf("invalid report check interval: %d", c.Reports.CheckIntervalSeconds)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Logging.Format)
	}

	return nil
}

// Address returns the full server address (host:port)
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetDatabasePath returns the cleaned sqlite database path
func (c *Config) GetDatabasePath() string {
	return filepath.Clean(c.Store.Path)
}

// Location returns the configured time zone, or the local zone when unset
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// CheckInterval returns the report scheduler tick interval
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.Reports.CheckIntervalSeconds) * time.Second
}

// ReadTimeout returns the server read timeout
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

// WriteTimeout returns the server write timeout
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeout) * time.Second
}
