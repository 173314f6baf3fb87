// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP Server
	Port            string
	APIURL          *url.URL
	ShutdownTimeout time.Duration

	// Database. When DBHost is set, PostgreSQL is used instead of SQLite.
	DBPath     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string

	// Sessions
	SessionDuration time.Duration
	SecureCookie    bool

	// AMQP. Ledger events are only published when AMQPURL is set.
	AMQPURL      string
	AMQPExchange string

	rawAPIURL string
}

// Load reads the configuration from the environment.
// CORS_ALLOW_ORIGINS and ENABLE_PPROF are read by the router. Variables in a
// .env file in the working directory are added to the environment
// if they are not set already.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		rawAPIURL:       getEnv("API_URL", ""),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBPath:     getEnv("DB_PATH", "data/khata.db"),
		DBHost:     getEnv("DB_HOST", ""),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", ""),

		SessionDuration: getEnvDuration("SESSION_DURATION", 7*24*time.Hour),
		SecureCookie:    getEnvBool("SECURE_COOKIE", false),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "khata"),
	}

	cfg.APIURL, _ = url.Parse(cfg.rawAPIURL)

	return cfg
}

// UsePostgres reports whether PostgreSQL is configured.
func (c *Config) UsePostgres() bool {
	return c.DBHost != ""
}

// PostgresDSN returns the connection string for PostgreSQL.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s", c.DBHost, c.DBUser, c.DBPassword, c.DBName)
}

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() error {
	var errors []string

	port, err := strconv.Atoi(c.Port)
	if err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch {
	case c.rawAPIURL == "" && (c.APIURL == nil || c.APIURL.String() == ""):
		errors = append(errors, "API_URL must be set")
	case c.APIURL == nil || c.APIURL.Scheme == "" || c.APIURL.Host == "":
		errors = append(errors, fmt.Sprintf("invalid API_URL '%s': must be an absolute URL", c.rawAPIURL))
	}

	if !c.UsePostgres() && c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty when DB_HOST is not set")
	}

	if c.UsePostgres() && (c.DBUser == "" || c.DBName == "") {
		errors = append(errors, "DB_USER and DB_NAME are required when DB_HOST is set")
	}

	if c.SessionDuration < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session duration %v: must be at least 1 minute", c.SessionDuration))
	}

	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if c.AMQPURL != "" {
		if _, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL: %v", err))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
