package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StoreDriverPostgres  = "postgres"
	StoreDriverFirestore = "firestore"
	StoreDriverMemory    = "memory"
)

// PaymentsConfig is the configuration of the payments API and the paymentsctl tool.
type PaymentsConfig struct {
	Primary   Primary         `koanf:"primary"`
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Database  DatabaseConfig  `koanf:"database" validate:"-"`
	Firestore FirestoreConfig `koanf:"firestore" validate:"-"`
	Gateway   GatewayConfig   `koanf:"gateway"`
	Auth      AuthConfig      `koanf:"auth"`
	Redis     RedisConfig     `koanf:"redis"`
	CORS      CORSConfig      `koanf:"cors"`
	Logger    LoggerConfig    `koanf:"logger"`
}

// NotificationsConfig is the configuration of the notifications API.
type NotificationsConfig struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Store    StoreConfig    `koanf:"store"`
	Database DatabaseConfig `koanf:"database" validate:"-"`
	SMTP     SMTPConfig     `koanf:"smtp"`
	Twilio   TwilioConfig   `koanf:"twilio"`
	Firebase FirebaseConfig `koanf:"firebase"`
	Auth     AuthConfig     `koanf:"auth"`
	Redis    RedisConfig    `koanf:"redis"`
	CORS     CORSConfig     `koanf:"cors"`
	Logger   LoggerConfig   `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// IsDevelopment reports whether internal error details may be exposed to clients.
func (p Primary) IsDevelopment() bool {
	return p.Env == EnvDevelopment
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	APIPrefix      string        `koanf:"api_prefix"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
}

type StoreConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=postgres firestore memory"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type FirestoreConfig struct {
	ProjectID       string `koanf:"project_id" validate:"required"`
	CredentialsFile string `koanf:"credentials_file"`
	Collection      string `koanf:"collection" validate:"required"`
}

// GatewayConfig holds the Stripe credentials. BaseURL overrides the API
// endpoint and is only set when pointing at stripe-mock.
type GatewayConfig struct {
	SecretKey         string `koanf:"secret_key" validate:"required"`
	WebhookSecret     string `koanf:"webhook_secret" validate:"required"`
	MaxNetworkRetries int64  `koanf:"max_network_retries"`
	BaseURL           string `koanf:"base_url"`
}

type AuthConfig struct {
	ServiceURL       string        `koanf:"service_url" validate:"required,url"`
	ValidateEndpoint string        `koanf:"validate_endpoint" validate:"required"`
	Timeout          time.Duration `koanf:"timeout" validate:"required"`
	CacheTTL         time.Duration `koanf:"cache_ttl"`
}

// RedisConfig is optional; an empty URL disables the token cache.
type RedisConfig struct {
	URL       string `koanf:"url"`
	KeyPrefix string `koanf:"key_prefix"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	From     string `koanf:"from" validate:"required,email"`
	FromName string `koanf:"from_name"`
}

type TwilioConfig struct {
	AccountSID  string `koanf:"account_sid"`
	AuthToken   string `koanf:"auth_token"`
	PhoneNumber string `koanf:"phone_number"`
}

type FirebaseConfig struct {
	ProjectID       string `koanf:"project_id"`
	CredentialsFile string `koanf:"credentials_file"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

var paymentsDefaults = map[string]interface{}{
	"primary.env":                 EnvDevelopment,
	"server.port":                 "3001",
	"server.api_prefix":           "/api/v1",
	"server.read_timeout":         "15s",
	"server.write_timeout":        "15s",
	"server.idle_timeout":         "60s",
	"server.request_timeout":      "10s",
	"store.driver":                StoreDriverPostgres,
	"firestore.collection":        "payments",
	"gateway.max_network_retries": 2,
	"auth.service_url":            "http://localhost:8001",
	"auth.validate_endpoint":      "/api/v1/auth/validate-token",
	"auth.timeout":                "5s",
	"auth.cache_ttl":              "60s",
	"redis.key_prefix":            "payments:token:",
	"cors.origins":                "http://localhost:3000",
	"logger.level":                "info",
	"database.ssl_mode":           "disable",
	"database.max_open_conns":     10,
	"database.max_idle_conns":     2,
	"database.conn_max_lifetime":  "1h",
	"database.conn_max_idle_time": "30m",
}

var notificationsDefaults = map[string]interface{}{
	"primary.env":                 EnvDevelopment,
	"server.port":                 "3002",
	"server.api_prefix":           "/api/v1",
	"server.read_timeout":         "15s",
	"server.write_timeout":        "30s",
	"server.idle_timeout":         "60s",
	"server.request_timeout":      "20s",
	"store.driver":                StoreDriverPostgres,
	"smtp.port":                   587,
	"smtp.from":                   "noreply@adyela.com",
	"smtp.from_name":              "Adyela Health",
	"auth.service_url":            "http://localhost:8001",
	"auth.validate_endpoint":      "/api/v1/auth/validate-token",
	"auth.timeout":                "5s",
	"auth.cache_ttl":              "60s",
	"redis.key_prefix":            "notifications:token:",
	"cors.origins":                "http://localhost:3000",
	"logger.level":                "info",
	"database.ssl_mode":           "disable",
	"database.max_open_conns":     10,
	"database.max_idle_conns":     2,
	"database.conn_max_lifetime":  "1h",
	"database.conn_max_idle_time": "30m",
}

// LoadPaymentsConfig reads PAYMENTS_* environment variables. Nested keys use a
// double underscore, e.g. PAYMENTS_GATEWAY__WEBHOOK_SECRET.
func LoadPaymentsConfig() (*PaymentsConfig, error) {
	cfg := &PaymentsConfig{}
	if err := load("PAYMENTS_", paymentsDefaults, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validateStore(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadNotificationsConfig reads NOTIFICATIONS_* environment variables.
func LoadNotificationsConfig() (*NotificationsConfig, error) {
	cfg := &NotificationsConfig{}
	if err := load("NOTIFICATIONS_", notificationsDefaults, cfg); err != nil {
		return nil, err
	}
	switch cfg.Store.Driver {
	case StoreDriverPostgres:
		if err := validator.New().Struct(cfg.Database); err != nil {
			return nil, fmt.Errorf("database config: %w", err)
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported notification store driver %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func (c *PaymentsConfig) validateStore() error {
	validate := validator.New()
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if err := validate.Struct(c.Database); err != nil {
			return fmt.Errorf("database config: %w", err)
		}
	case StoreDriverFirestore:
		if err := validate.Struct(c.Firestore); err != nil {
			return fmt.Errorf("firestore config: %w", err)
		}
	}
	return nil
}

func load(prefix string, defaults map[string]interface{}, out interface{}) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		logger.Error("failed to load config defaults", "error", err)
		return err
	}

	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, prefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return err
	}

	if err := k.Unmarshal("", out); err != nil {
		logger.Error("could not unmarshal config", "error", err)
		return err
	}

	if err := validator.New().Struct(out); err != nil {
		logger.Error("config validation failed", "error", err)
		return err
	}

	return nil
}
