package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"webapp_validator/internal/domain"
	"webapp_validator/internal/logger"

	"github.com/joho/godotenv"
)

var ErrMissingBotToken = errors.New("BOT_TOKEN or BOT_TOKEN_FILE must be set")

const (
	defaultPort            = "8080"
	defaultMaxBodyBytes    = 64 << 10
	defaultShutdownTimeout = 10
)

type Config struct {
	AppPort    string
	AppVersion string
	BotToken   string

	LogLevel string
	LogJSON  bool

	AllowedOrigin  string
	MaxBodyBytes   int64
	MetricsEnabled bool
	WSEnabled      bool

	ShutdownTimeoutSeconds int

	Messages domain.Messages
}

// Load reads .env and the process environment. A missing bot token is fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Parse(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// Parse builds a Config from getenv. BOT_TOKEN wins over BOT_TOKEN_FILE.
func Parse(getenv func(string) string) (*Config, error) {
	botToken, err := loadBotToken(getenv)
	if err != nil {
		return nil, err
	}

	port := getenv("APP_PORT")
	if port == "" {
		port = defaultPort
	}

	version := getenv("APP_VERSION")
	if version == "" {
		version = "dev"
	}

	logLevel := strings.ToLower(getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	origin := getenv("ALLOWED_ORIGIN")
	if origin == "" {
		origin = "*"
	}

	maxBody := int64(defaultMaxBodyBytes)
	if v := getenv("MAX_BODY_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_BODY_BYTES must be a positive integer, got %q", v)
		}
		maxBody = n
	}

	shutdown := defaultShutdownTimeout
	if v := getenv("SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be a positive integer, got %q", v)
		}
		shutdown = n
	}

	defaults := DefaultMessages()
	return &Config{
		AppPort:                port,
		AppVersion:             version,
		BotToken:               botToken,
		LogLevel:               logLevel,
		LogJSON:                getenv("LOG_JSON") == "true",
		AllowedOrigin:          origin,
		MaxBodyBytes:           maxBody,
		MetricsEnabled:         getenv("METRICS_ENABLED") != "false",
		WSEnabled:              getenv("WS_ENABLED") != "false",
		ShutdownTimeoutSeconds: shutdown,
		Messages: domain.Messages{
			Valid:       orDefault(getenv("MSG_VALID"), defaults.Valid),
			Invalid:     orDefault(getenv("MSG_INVALID"), defaults.Invalid),
			MissingData: orDefault(getenv("MSG_MISSING_DATA"), defaults.MissingData),
			MissingHash: orDefault(getenv("MSG_MISSING_HASH"), defaults.MissingHash),
		},
	}, nil
}

// DefaultMessages is the client-facing text used when no MSG_* override is set.
func DefaultMessages() domain.Messages {
	return domain.Messages{
		Valid:       "data is valid",
		Invalid:     "data is invalid",
		MissingData: "no data received",
		MissingHash: "hash not found",
	}
}

// ReadTokenFile returns the trimmed contents of a token file.
func ReadTokenFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty: %w", path, ErrMissingBotToken)
	}
	return token, nil
}

func loadBotToken(getenv func(string) string) (string, error) {
	if token := strings.TrimSpace(getenv("BOT_TOKEN")); token != "" {
		return token, nil
	}
	if path := getenv("BOT_TOKEN_FILE"); path != "" {
		return ReadTokenFile(path)
	}
	return "", ErrMissingBotToken
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
