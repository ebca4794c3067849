package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Storage      StorageConfig
	MongoDB      MongoDBConfig
	JWT          JWTConfig
	Transaction  TransactionConfig
	Notification NotificationConfig
	LogLevel     string
	LogFormat    string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// StorageConfig selects the repository backend
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// TransactionConfig bounds unit-of-work transactions
type TransactionConfig struct {
	Timeout time.Duration
}

// NotificationConfig holds push gateway configuration
type NotificationConfig struct {
	Gateway       string
	WebhookURL    string
	WebhookSecret string
	Workers       int
	QueueSize     int
}

// Load reads .env (if present), then config.yaml from . or ./config, then
// environment variables such as STORAGE_DRIVER or JWT_SECRET.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the default locations.
func LoadFile(path string) (*Config, error) {
	// A missing .env is normal outside development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	// Read configuration
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path == "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that have no safe default.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverMongoDB:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Notification.Gateway {
	case "log":
	case "webhook":
		if c.Notification.WebhookURL == "" {
			return errors.New("Notification.WebhookURL is required for the webhook gateway")
		}
	default:
		return fmt.Errorf("unknown notification gateway %q", c.Notification.Gateway)
	}
	if c.Transaction.Timeout < 0 {
		return errors.New("Transaction.Timeout must not be negative")
	}
	return nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("Server.Port", "4000")
	v.SetDefault("Server.AllowedHosts", []string{"http://localhost:3000"})
	v.SetDefault("Storage.Driver", DriverSQLite)
	v.SetDefault("Storage.SQLitePath", "recyclepoints.db")
	v.SetDefault("MongoDB.URI", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("MongoDB.Database", "recyclepoints")
	v.SetDefault("JWT.Secret", "")
	v.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	v.SetDefault("Transaction.Timeout", 10*time.Second)
	v.SetDefault("Notification.Gateway", "log")
	v.SetDefault("Notification.WebhookURL", "")
	v.SetDefault("Notification.WebhookSecret", "")
	v.SetDefault("Notification.Workers", 2)
	v.SetDefault("Notification.QueueSize", 256)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "json")
}
