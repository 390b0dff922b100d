package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	DBDSN             string `mapstructure:"DB_DSN"`
	MigrationsEnabled bool   `mapstructure:"MIGRATIONS_ENABLED"`

	HTTPAddr           string        `mapstructure:"HTTP_ADDR"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ShutdownTimeout    time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	RateLimitPerMinute int           `mapstructure:"RATE_LIMIT_PER_MINUTE"` // 0 - без ограничения
	CORSAllowedOrigins string        `mapstructure:"CORS_ALLOWED_ORIGINS"`  // через запятую

	TelegramToken string `mapstructure:"TELEGRAM_TOKEN"` // пусто - бот выключен

	// Redis пустой адрес выключает кеш рабочих часов
	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB              int           `mapstructure:"REDIS_DB"`
	WorkingHoursCacheTTL time.Duration `mapstructure:"WORKING_HOURS_CACHE_TTL"`

	// Kafka пустой список брокеров выключает публикацию outbox
	KafkaBrokers       string        `mapstructure:"KAFKA_BROKERS"`
	OutboxPollInterval time.Duration `mapstructure:"OUTBOX_POLL_INTERVAL"`
	OutboxBatchSize    int           `mapstructure:"OUTBOX_BATCH_SIZE"`

	SchedulingTimezone string        `mapstructure:"SCHEDULING_TIMEZONE"`
	BookingStepMinutes int           `mapstructure:"BOOKING_STEP_MINUTES"` // 0 - слоты встык по длительности услуги
	NoShowGrace        time.Duration `mapstructure:"NO_SHOW_GRACE"`        // 0 - отметка неявок выключена
	NoShowInterval     time.Duration `mapstructure:"NO_SHOW_INTERVAL"`
}

var defaults = map[string]any{
	"ENV":                     "development",
	"LOG_LEVEL":               "",
	"DB_DSN":                  "",
	"MIGRATIONS_ENABLED":      true,
	"HTTP_ADDR":               ":8080",
	"REQUEST_TIMEOUT":         10 * time.Second,
	"SHUTDOWN_TIMEOUT":        15 * time.Second,
	"RATE_LIMIT_PER_MINUTE":   120,
	"CORS_ALLOWED_ORIGINS":    "*",
	"TELEGRAM_TOKEN":          "",
	"REDIS_ADDR":              "",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"WORKING_HOURS_CACHE_TTL": 10 * time.Minute,
	"KAFKA_BROKERS":           "",
	"OUTBOX_POLL_INTERVAL":    2 * time.Second,
	"OUTBOX_BATCH_SIZE":       100,
	"SCHEDULING_TIMEZONE":     "UTC",
	"BOOKING_STEP_MINUTES":    0,
	"NO_SHOW_GRACE":           30 * time.Minute,
	"NO_SHOW_INTERVAL":        5 * time.Minute,
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	} else {
		log.Println("Loaded configuration from .env file")
	}

	return FromEnv()
}

// FromEnv читает конфигурацию из переменных окружения поверх значений по умолчанию
func FromEnv() (*Config, error) {
	v := viper.New()
	// Unmarshal видит только известные viper ключи, поэтому дефолт есть у каждого
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные поля и диапазоны
func (c *Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required but not set")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.BookingStepMinutes < 0 || c.BookingStepMinutes > 24*60 {
		return fmt.Errorf("BOOKING_STEP_MINUTES must be within 0..1440, got %d", c.BookingStepMinutes)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", c.RateLimitPerMinute)
	}
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.OutboxBatchSize)
	}
	if c.OutboxPollInterval <= 0 || c.NoShowInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL and NO_SHOW_INTERVAL must be positive")
	}
	return nil
}

// Location часовой пояс, в котором заданы рабочие часы и даты
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.SchedulingTimezone)
	if err != nil {
		return nil, fmt.Errorf("SCHEDULING_TIMEZONE %q: %w", c.SchedulingTimezone, err)
	}
	return loc, nil
}

// BookingStep шаг сетки слотов
func (c *Config) BookingStep() time.Duration {
	return time.Duration(c.BookingStepMinutes) * time.Minute
}

// AllowedOrigins список origin для CORS
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSAllowedOrigins)
}

// Brokers адреса Kafka брокеров
func (c *Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
