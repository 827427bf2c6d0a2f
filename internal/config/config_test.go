package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DefaultValues(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "SESSION_TIMEOUT", "SESSION_CHECK_INTERVAL", "DB_ENABLED", "MQTT_ENABLED", "REDIS_ENABLED", "MQTT_MIN_CONFIDENCE"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, time.Minute, cfg.Session.CheckInterval)
	assert.False(t, cfg.DBEnabled)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, 80.0, cfg.MQTT.MinConfidence)
	assert.Equal(t, "housing:events", cfg.Events.Stream)
	assert.True(t, cfg.Seed.DefaultUsers)
	assert.True(t, cfg.Seed.DefaultStickers)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SESSION_TIMEOUT", "5m")
	t.Setenv("SESSION_CHECK_INTERVAL", "10s")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("MQTT_MIN_CONFIDENCE", "92.5")
	t.Setenv("SEED_DEFAULT_USERS", "false")
	t.Setenv("SEED_DEFAULT_STICKERS", "false")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Session.CheckInterval)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 92.5, cfg.MQTT.MinConfidence)
	assert.False(t, cfg.Seed.DefaultUsers)
	assert.False(t, cfg.Seed.DefaultStickers)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TIMEOUT", "soon")
	t.Setenv("DB_PORT", "abc")
	t.Setenv("DB_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.DBEnabled)
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "housing", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=housing sslmode=disable", c.GetDSN())
}
