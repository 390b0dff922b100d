package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/scheduler")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.MigrationsEnabled)
	assert.Equal(t, 10*time.Minute, cfg.WorkingHoursCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.BookingStep())
	assert.Equal(t, 30*time.Minute, cfg.NoShowGrace)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.Empty(t, cfg.Brokers())
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.IsProduction())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/scheduler")
	t.Setenv("ENV", "production")
	t.Setenv("BOOKING_STEP_MINUTES", "15")
	t.Setenv("NO_SHOW_GRACE", "1h")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SCHEDULING_TIMEZONE", "Europe/Moscow")
	t.Setenv("MIGRATIONS_ENABLED", "false")
	t.Setenv("REDIS_DB", "3")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 15*time.Minute, cfg.BookingStep())
	assert.Equal(t, time.Hour, cfg.NoShowGrace)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
	assert.False(t, cfg.MigrationsEnabled)
	assert.Equal(t, 3, cfg.RedisDB)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing dsn":   {"DB_DSN": ""},
		"bad timezone":  {"SCHEDULING_TIMEZONE": "Mars/Olympus"},
		"negative step": {"BOOKING_STEP_MINUTES": "-5"},
		"huge step":     {"BOOKING_STEP_MINUTES": "1441"},
		"zero batch":    {"OUTBOX_BATCH_SIZE": "0"},
		"negative rate": {"RATE_LIMIT_PER_MINUTE": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DB_DSN", "postgres://localhost/scheduler")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
