package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMySQL  = "mysql"
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config holds application level configuration loaded from an optional
// config.yaml and environment variables.
type Config struct {
	ServerPort    string
	StoreDriver   string
	DatabaseURL   string
	MongoDatabase string
	JWTSecret     string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	CORSOrigins   []string
	LogLevel      string
	LogPretty     bool
	SwaggerHost   string
	ResetDB       bool
}

// Load builds Config with sensible defaults. Environment variables win over
// the config file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()
	// MONGODB_URI is accepted for deployments configured for a document store.
	if err := v.BindEnv("database_url", "DATABASE_URL", "MONGODB_URI"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	cfg := &Config{
		ServerPort:    v.GetString("server_port"),
		StoreDriver:   strings.ToLower(v.GetString("store_driver")),
		DatabaseURL:   v.GetString("database_url"),
		MongoDatabase: v.GetString("mongodb_database"),
		JWTSecret:     v.GetString("jwt_secret"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisDB:       v.GetInt("redis_db"),
		RedisPass:     v.GetString("redis_password"),
		CORSOrigins:   splitList(v.GetString("cors_origins")),
		LogLevel:      v.GetString("log_level"),
		LogPretty:     v.GetBool("log_pretty"),
		SwaggerHost:   v.GetString("swagger_host"),
		ResetDB:       v.GetBool("reset_db"),
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = inferDriver(cfg.DatabaseURL)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "5005")
	v.SetDefault("store_driver", "")
	v.SetDefault("database_url", "")
	v.SetDefault("mongodb_database", "cohorts")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")
	v.SetDefault("cors_origins", "http://localhost:5173")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("swagger_host", "")
	v.SetDefault("reset_db", false)
}

// Validate reports missing settings the process cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL (or MONGODB_URI) is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.StoreDriver {
	case DriverMySQL, DriverMongo, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver))
	}
	return errors.Join(errs...)
}

func inferDriver(url string) string {
	if strings.HasPrefix(url, "mongodb://") || strings.HasPrefix(url, "mongodb+srv://") {
		return DriverMongo
	}
	return DriverMySQL
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
