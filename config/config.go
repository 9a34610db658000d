package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port     int    `mapstructure:"port"`
	AppEnv   string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	StoreDriver string `mapstructure:"store_driver"`

	DBHost     string `mapstructure:"db_host"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBPort     int    `mapstructure:"db_port"`
	DBSSLMode  string `mapstructure:"db_sslmode"`

	MongoURI        string `mapstructure:"mongo_uri"`
	MongoDB         string `mapstructure:"mongo_db"`
	MongoCollection string `mapstructure:"mongo_collection"`

	CORSOrigin string `mapstructure:"cors_origin"`

	S3Bucket string `mapstructure:"s3_bucket"`
	S3Region string `mapstructure:"s3_region"`
	S3Prefix string `mapstructure:"s3_prefix"`
}

var defaults = map[string]any{
	"port":             8080,
	"app_env":          "production",
	"log_level":        "info",
	"store_driver":     DriverPostgres,
	"db_host":          "localhost",
	"db_user":          "postgres",
	"db_password":      "",
	"db_name":          "healthtracker",
	"db_port":          5432,
	"db_sslmode":       "disable",
	"mongo_uri":        "mongodb://localhost:27017",
	"mongo_db":         "healthtracker",
	"mongo_collection": "healthrecords",
	"cors_origin":      "*",
	"s3_bucket":        "",
	"s3_region":        "",
	"s3_prefix":        "exports",
}

// Load reads envFile (if present) into the process environment and then
// resolves every setting from the environment, falling back to defaults.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.S3Region == "" {
		cfg.S3Region = v.GetString("aws_region")
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range [1, 65535]", c.Port)
	}
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DBPort <= 0 || c.DBPort > 65535 {
			return fmt.Errorf("DB_PORT %d is out of range [1, 65535]", c.DBPort)
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("STORE_DRIVER %q unknown: want postgres|mongo", c.StoreDriver)
	}
	return nil
}

// IsDevelopment reports whether APP_ENV selects development behaviour.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// PostgresDSN builds the key/value DSN used by the postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}
