// Package config reads process settings from the environment, an optional
// .env file and command line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	defaultHTTPAddr     = "0.0.0.0:8080"
	defaultPageCacheTTL = time.Minute
)

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// ConnString builds the lib/pq URL for the database.
func (d Database) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

type Config struct {
	Database     Database
	HTTPAddr     string
	JWTSecret    string
	PageCacheTTL time.Duration
	LogLevel     string
	LogFormat    string

	// Args holds the positional arguments left after flag parsing.
	Args []string
}

// Load parses args on top of the environment. A missing .env file is not an
// error.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	fs := flag.NewFlagSet("pollboard", flag.ContinueOnError)
	fs.StringVar(&cfg.Database.Host, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	fs.StringVar(&cfg.Database.Port, "db-port", envOr("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&cfg.Database.User, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&cfg.Database.Password, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&cfg.Database.Name, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	fs.StringVar(&cfg.HTTPAddr, "addr", envOr("HTTP_ADDR", defaultHTTPAddr), "HTTP listen address")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to verify access tokens")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level")
	fs.StringVar(&cfg.LogFormat, "log-format", envOr("LOG_FORMAT", "text"), "Log format (text or json)")

	ttl := defaultPageCacheTTL
	if raw := os.Getenv("PAGE_CACHE_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PAGE_CACHE_TTL: %w", err)
		}
		ttl = parsed
	}
	fs.DurationVar(&cfg.PageCacheTTL, "page-cache-ttl", ttl, "Lifetime of cached read views")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.Args = fs.Args()
	return cfg, nil
}

// Logger returns a logrus logger configured from LogLevel and LogFormat.
func (c *Config) Logger() (*logrus.Logger, error) {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
