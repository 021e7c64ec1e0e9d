package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Notifications NotificationConfig
	Store         StoreConfig
	Session       SessionConfig
	Features      FeatureFlags
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

func (d DatabaseConfig) ConnectionString() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" user=" + d.User +
		" password=" + d.Password +
		" dbname=" + d.Name +
		" sslmode=" + d.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + strconv.Itoa(r.Port)
}

type KafkaConfig struct {
	Brokers     []string
	OrdersTopic string
}

type NotificationConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// StoreConfig holds storefront constants. Prices are whole Ugandan
// shillings; there is no minor currency unit in play.
type StoreConfig struct {
	Currency          string
	DeliveryFee       int64
	OrderNumberPrefix string
	ShareBaseURL      string
}

type SessionConfig struct {
	Dir string
}

type FeatureFlags struct {
	EnableCatalogCache     bool
	EnableOrderEvents      bool
	EnableChatNotification bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT", 30)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:         getEnvString("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnvString("DB_USER", "toorogadgets"),
			Password:     getEnvString("DB_PASSWORD", "toorogadgets"),
			Name:         getEnvString("DB_NAME", "toorogadgets_store"),
			SSLMode:      getEnvString("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Host:     getEnvString("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnvString("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("REDIS_TTL", 300)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:     splitCSV(getEnvString("KAFKA_BROKERS", "localhost:9092")),
			OrdersTopic: getEnvString("KAFKA_ORDERS_TOPIC", "storefront.orders"),
		},
		Notifications: NotificationConfig{
			WebhookURL: getEnvString("NOTIFY_WEBHOOK_URL", ""),
			Timeout:    time.Duration(getEnvInt("NOTIFY_TIMEOUT", 5)) * time.Second,
		},
		Store: StoreConfig{
			Currency:          getEnvString("STORE_CURRENCY", "UGX"),
			DeliveryFee:       int64(getEnvInt("STORE_DELIVERY_FEE", 50000)),
			OrderNumberPrefix: getEnvString("STORE_ORDER_PREFIX", "TG-"),
			ShareBaseURL:      getEnvString("STORE_SHARE_BASE_URL", "https://toorogadgets.com/products"),
		},
		Session: SessionConfig{
			Dir: getEnvString("SESSION_DIR", ".storefront"),
		},
		Features: FeatureFlags{
			EnableCatalogCache:     getEnvBool("FEATURE_CATALOG_CACHE", true),
			EnableOrderEvents:      getEnvBool("FEATURE_ORDER_EVENTS", true),
			EnableChatNotification: getEnvBool("FEATURE_CHAT_NOTIFICATIONS", true),
		},
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
