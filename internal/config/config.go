package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"

	defaultHTTPAddr   = "0.0.0.0:8080"
	defaultTimezone   = "Asia/Kolkata"
	defaultSQLiteDB   = "election.db"
	defaultTokenTTL   = 8 * time.Hour
	defaultKafkaTopic = "election-events"
)

type Config struct {
	HTTPAddr          string
	DatabaseType      string
	DatabaseURL       string
	Timezone          string
	Location          *time.Location
	AdminUsername     string
	AdminPasswordHash string
	JWTSecret         string
	TokenTTL          time.Duration
	CookieDomain      string
	CookieSecure      bool
	KafkaBrokers      []string
	KafkaTopic        string
	AutoDeclareCron   string
}

// Load reads configuration from command-line flags, falling back to
// environment variables and then to defaults.
func Load(name string, args []string) (Config, error) {
	var (
		cfg          Config
		tokenTTL     string
		kafkaBrokers string
		cookieSecure string
	)

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "addr", "", "HTTP listen address")
	fs.StringVar(&cfg.DatabaseType, "db-type", "", "Database type (postgres or sqlite)")
	fs.StringVar(&cfg.DatabaseURL, "db-url", "", "Database URL or SQLite file path")
	fs.StringVar(&cfg.Timezone, "timezone", "", "Election timezone")
	fs.StringVar(&cfg.AdminUsername, "admin-user", "", "Admin username")
	fs.StringVar(&cfg.AdminPasswordHash, "admin-password-hash", "", "Admin bcrypt password hash (prefer env)")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")
	fs.StringVar(&tokenTTL, "token-ttl", "", "Admin token lifetime")
	fs.StringVar(&cfg.CookieDomain, "cookie-domain", "", "Domain of the admin token cookie")
	fs.StringVar(&cookieSecure, "cookie-secure", "", "Mark the admin token cookie Secure (true or false)")
	fs.StringVar(&kafkaBrokers, "kafka-brokers", "", "Comma-separated Kafka brokers")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", "", "Kafka topic for election events")
	fs.StringVar(&cfg.AutoDeclareCron, "cron", "", "Cron spec for periodic auto-declaration (empty runs once)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.HTTPAddr = fallback(cfg.HTTPAddr, "HTTP_ADDR", defaultHTTPAddr)
	cfg.DatabaseType = strings.ToLower(fallback(cfg.DatabaseType, "DATABASE_TYPE", DatabaseSQLite))
	cfg.Timezone = fallback(cfg.Timezone, "TIMEZONE", defaultTimezone)
	cfg.AdminUsername = fallback(cfg.AdminUsername, "ADMIN_USERNAME", "admin")
	cfg.AdminPasswordHash = fallback(cfg.AdminPasswordHash, "ADMIN_PASSWORD_HASH", "")
	cfg.JWTSecret = fallback(cfg.JWTSecret, "JWT_SECRET", "")
	cfg.CookieDomain = fallback(cfg.CookieDomain, "COOKIE_DOMAIN", "")
	cfg.KafkaTopic = fallback(cfg.KafkaTopic, "KAFKA_TOPIC", defaultKafkaTopic)
	cfg.AutoDeclareCron = fallback(cfg.AutoDeclareCron, "AUTODECLARE_CRON", "")

	switch cfg.DatabaseType {
	case DatabaseSQLite:
		cfg.DatabaseURL = fallback(cfg.DatabaseURL, "DATABASE_URL", defaultSQLiteDB)
	case DatabasePostgres:
		cfg.DatabaseURL = fallback(cfg.DatabaseURL, "DATABASE_URL", postgresURLFromEnv())
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required (use -db-url, DATABASE_URL or POSTGRES_* env)")
		}
	default:
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	cfg.TokenTTL = defaultTokenTTL
	if ttl := fallback(tokenTTL, "TOKEN_TTL", ""); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid token TTL %q", ttl)
		}
		cfg.TokenTTL = d
	}

	if secure := fallback(cookieSecure, "COOKIE_SECURE", "false"); secure != "" {
		v, err := strconv.ParseBool(secure)
		if err != nil {
			return Config{}, fmt.Errorf("invalid cookie secure flag %q", secure)
		}
		cfg.CookieSecure = v
	}

	for _, broker := range strings.Split(fallback(kafkaBrokers, "KAFKA_BROKERS", ""), ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
		}
	}

	return cfg, nil
}

// ValidateAdmin reports whether the admin credentials needed by the server are set.
func (c Config) ValidateAdmin() error {
	if c.AdminPasswordHash == "" {
		return errors.New("ADMIN_PASSWORD_HASH required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}
	return nil
}

func fallback(value, envKey, def string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return def
}

func postgresURLFromEnv() string {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"), os.Getenv("POSTGRES_PASSWORD"), host, port, os.Getenv("POSTGRES_DB"))
}
