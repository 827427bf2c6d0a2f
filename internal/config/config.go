package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config housing-admin (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr string
	}
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	Session  SessionConfig
	Security struct {
		BcryptCost int
	}
	Seed struct {
		DefaultUsers    bool
		DefaultStickers bool
		SampleUnits     bool
	}
	Feed struct {
		URL     string
		Timeout time.Duration
	}
	Events struct {
		Stream string
	}
	DBEnabled bool
	Database  DatabaseConfig
	MQTT      MQTTConfig
}

// SessionConfig idle timeout and token signing
type SessionConfig struct {
	Timeout       time.Duration // idle time after which a session is dropped
	CheckInterval time.Duration // how often the expiry watcher runs
	Secret        string
	Issuer        string
}

// DatabaseConfig reporting database (read-only views)
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN lib/pq connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// MQTTConfig plate-recognition feed
type MQTTConfig struct {
	Enabled       bool
	Broker        string
	ClientID      string
	Username      string
	Password      string
	Topic         string
	QoS           byte
	MinConfidence float64 // recognitions below this are dropped
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Without Redis the service runs on the in-memory KV (data is lost on restart).
	cfg.Redis.Enabled = parseBool(getEnv("REDIS_ENABLED", "true"), true)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Session.Timeout = parseDuration(getEnv("SESSION_TIMEOUT", "30m"), 30*time.Minute)
	cfg.Session.CheckInterval = parseDuration(getEnv("SESSION_CHECK_INTERVAL", "60s"), time.Minute)
	cfg.Session.Secret = getEnv("JWT_SECRET", "change-me-in-production")
	cfg.Session.Issuer = getEnv("JWT_ISSUER", "housing-admin")

	cfg.Security.BcryptCost = parseInt(getEnv("BCRYPT_COST", "10"), 10)

	cfg.Seed.DefaultUsers = parseBool(getEnv("SEED_DEFAULT_USERS", "true"), true)
	cfg.Seed.DefaultStickers = parseBool(getEnv("SEED_DEFAULT_STICKERS", "true"), true)
	cfg.Seed.SampleUnits = parseBool(getEnv("SEED_SAMPLE_UNITS", "true"), true)

	cfg.Feed.URL = getEnv("FEED_URL", "")
	cfg.Feed.Timeout = parseDuration(getEnv("FEED_TIMEOUT", "10s"), 10*time.Second)

	cfg.Events.Stream = getEnv("EVENTS_STREAM", "housing:events")

	cfg.DBEnabled = parseBool(getEnv("DB_ENABLED", "false"), false)
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "housing")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "2"), 2)

	cfg.MQTT.Enabled = parseBool(getEnv("MQTT_ENABLED", "false"), false)
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "housing-admin")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "housing/plates/+")
	cfg.MQTT.QoS = byte(parseInt(getEnv("MQTT_QOS", "1"), 1))
	cfg.MQTT.MinConfidence = parseFloat(getEnv("MQTT_MIN_CONFIDENCE", "80"), 80)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseFloat(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
