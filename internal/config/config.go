package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the service configuration, read from the environment and an
// optional .env file.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	RabbitMQ     RabbitMQConfig
	NATS         NATSConfig
	Notification NotificationConfig
	Shop         ShopConfig
}

type ServerConfig struct {
	Port               string
	JWTSecret          string
	JWTExpirationHours int
	OTPTTL             time.Duration
	LogLevel           string
	OperatorEmails     []string
}

type DatabaseConfig struct {
	Driver string // sqlite, postgres or mysql
	DSN    string
}

type RabbitMQConfig struct {
	URL         string // empty disables publishing and consuming
	OrderQueue  string
	StatusQueue string
}

type NATSConfig struct {
	URL     string // empty disables remote notification fan-out
	Subject string
}

type NotificationConfig struct {
	Store    string // sql or mongo
	MongoURI string
	MongoDB  string
}

type ShopConfig struct {
	DeliveryFee int64
	SeedCatalog bool
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:florist.db?cache=shared")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("OTP_TTL_MINUTES", 5)
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("OPERATOR_EMAILS", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_ORDER_QUEUE", "order_queue")
	v.SetDefault("RABBITMQ_STATUS_QUEUE", "order_status_queue")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_SUBJECT", "florist.notifications")
	v.SetDefault("NOTIFICATION_STORE", "sql")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "florist")
	v.SetDefault("DELIVERY_FEE", 50000)
	v.SetDefault("SEED_CATALOG", true)
}

// Load reads configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("No .env file loaded, using environment only: %v", err)
	}
	v.AutomaticEnv()

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromViper maps v onto a Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:               v.GetString("APP_PORT"),
			JWTSecret:          v.GetString("JWT_SECRET"),
			JWTExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
			OTPTTL:             time.Duration(v.GetInt("OTP_TTL_MINUTES")) * time.Minute,
			LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
			OperatorEmails:     splitList(v.GetString("OPERATOR_EMAILS")),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:         v.GetString("RABBITMQ_URL"),
			OrderQueue:  v.GetString("RABBITMQ_ORDER_QUEUE"),
			StatusQueue: v.GetString("RABBITMQ_STATUS_QUEUE"),
		},
		NATS: NATSConfig{
			URL:     v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
		Notification: NotificationConfig{
			Store:    strings.ToLower(v.GetString("NOTIFICATION_STORE")),
			MongoURI: v.GetString("MONGO_URI"),
			MongoDB:  v.GetString("MONGO_DB"),
		},
		Shop: ShopConfig{
			DeliveryFee: v.GetInt64("DELIVERY_FEE"),
			SeedCatalog: v.GetBool("SEED_CATALOG"),
		},
	}
}

// splitList parses a comma separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks required values and enumerations.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	if c.Server.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Server.JWTExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive")
	}
	switch c.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	switch c.Notification.Store {
	case "sql":
	case "mongo":
		if c.Notification.MongoURI == "" || c.Notification.MongoDB == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DB are required when NOTIFICATION_STORE=mongo")
		}
	default:
		return fmt.Errorf("unsupported NOTIFICATION_STORE %q", c.Notification.Store)
	}
	if c.Shop.DeliveryFee < 0 {
		return fmt.Errorf("DELIVERY_FEE must not be negative")
	}
	return nil
}
