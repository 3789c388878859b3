package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config contains runtime configuration values.
type Config struct {
	TelegramBotToken string
	TelegramChatID   string
	TelegramAPIURL   string
	ForwardTo        []string
	Dev              bool

	IndexURL    string
	IndexSource string
	FeedURL     string

	WatermarkBackend string
	WatermarkKey     string
	ConfigDir        string
	RedisAddress     string
	RedisPassword    string
	RedisDB          int
	DatabaseURL      string

	ScheduleCron   string
	RequestTimeout time.Duration
	RunTimeout     time.Duration

	LogLevel  string
	LogFormat string
}

// Index sources.
const (
	SourceHTML = "html"
	SourceRSS  = "rss"
)

// Watermark backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

const (
	defaultTelegramAPIURL = "https://api.telegram.org"
	defaultIndexURL       = "https://this-week-in-rust.org"
	defaultFeedURL        = "https://this-week-in-rust.org/rss.xml"
	defaultWatermarkKey   = "this_week_in_rust.last_id"
	defaultRedisAddress   = "localhost:6379"
	defaultTimeout        = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
)

// Load builds a Config from environment variables with sane defaults. Values
// from ENV_FILE, or .env when ENV_FILE is unset, are loaded first without
// overriding variables already present in the environment.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg := &Config{
		TelegramBotToken: getenvAny("TELEGRAM_BOT_TOKEN", "BOT_TOKEN"),
		TelegramChatID:   getenvAny("TELEGRAM_CHAT_ID", "CHAT_ID"),
		TelegramAPIURL:   getenvDefault("TELEGRAM_API_URL", defaultTelegramAPIURL),
		ForwardTo:        splitList(getenvAny("FORWARD_IDS", "FORWARD_ID")),
		Dev:              os.Getenv("DEV") != "",
		IndexURL:         getenvDefault("INDEX_URL", defaultIndexURL),
		IndexSource:      strings.ToLower(getenvDefault("INDEX_SOURCE", SourceHTML)),
		FeedURL:          getenvDefault("FEED_URL", defaultFeedURL),
		WatermarkBackend: strings.ToLower(getenvDefault("WATERMARK_BACKEND", BackendFile)),
		WatermarkKey:     getenvDefault("WATERMARK_KEY", defaultWatermarkKey),
		ConfigDir:        os.Getenv("CONFIG_DIR"),
		RedisAddress:     getenvDefault("REDIS_ADDRESS", defaultRedisAddress),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          parseIntDefault("REDIS_DB", 0),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ScheduleCron:     os.Getenv("SCHEDULE_CRON"),
		RequestTimeout:   parseDurationDefault("REQUEST_TIMEOUT", defaultTimeout),
		RunTimeout:       parseDurationDefault("RUN_TIMEOUT", defaultRunTimeout),
		LogLevel:         getenvDefault("LOG_LEVEL", defaultLogLevel),
		LogFormat:        getenvDefault("LOG_FORMAT", defaultLogFormat),
	}

	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN (or BOT_TOKEN) is required")
	}
	if cfg.TelegramChatID == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID (or CHAT_ID) is required")
	}

	switch cfg.IndexSource {
	case SourceHTML, SourceRSS:
	default:
		return nil, fmt.Errorf("INDEX_SOURCE must be %q or %q, got %q", SourceHTML, SourceRSS, cfg.IndexSource)
	}

	switch cfg.WatermarkBackend {
	case BackendFile, BackendRedis:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres watermark backend")
		}
	default:
		return nil, fmt.Errorf("unknown WATERMARK_BACKEND %q", cfg.WatermarkBackend)
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}

	return cfg, nil
}

func loadEnvFile() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// splitList splits a colon-separated list, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ":") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getenvAny returns the first non-empty value among keys.
func getenvAny(keys ...string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return ""
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntDefault(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
