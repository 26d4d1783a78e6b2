package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultOrderCancelWindow = 3 * time.Minute

// Config is the API server configuration.
type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         string
	SessionTTL        time.Duration
	AllowOrigins      []string
	Environment       string
	LogLevel          string
	LogstashTCPAddr   string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	FavoriteCountTTL  time.Duration
	OrderCancelWindow time.Duration
	SwaggerSpecPath   string
}

func (c Config) Development() bool {
	return strings.EqualFold(c.Environment, "development")
}

// ClientConfig configures the storefront command line client.
type ClientConfig struct {
	APIBaseURL      string
	CredentialsPath string
	RequestTimeout  time.Duration
	LogLevel        string
}

func Load() Config {
	loadDotEnv()

	return Config{
		Port:              getenv("PORT", "8080"),
		DatabaseURL:       must("DATABASE_URL"),
		JWTSecret:         must("JWT_SECRET"),
		SessionTTL:        getDuration("SESSION_TTL", 24*time.Hour),
		AllowOrigins:      splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		Environment:       getenv("ENVIRONMENT", "production"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogstashTCPAddr:   getenv("LOGSTASH_TCP_ADDR", ""),
		RedisAddr:         getenv("REDIS_ADDR", ""),
		RedisPassword:     getenv("REDIS_PASSWORD", ""),
		RedisDB:           getInt("REDIS_DB", 0),
		FavoriteCountTTL:  getDuration("FAVORITE_COUNT_TTL", 5*time.Minute),
		OrderCancelWindow: getDuration("ORDER_CANCEL_WINDOW", defaultOrderCancelWindow),
		SwaggerSpecPath:   getenv("SWAGGER_SPEC_PATH", "docs/swagger.yaml"),
	}
}

func LoadClient() ClientConfig {
	loadDotEnv()

	return ClientConfig{
		APIBaseURL:      strings.TrimRight(getenv("STOREFRONT_API_URL", "http://localhost:8080"), "/"),
		CredentialsPath: getenv("STOREFRONT_CREDENTIALS_PATH", ""),
		RequestTimeout:  getDuration("STOREFRONT_REQUEST_TIMEOUT", 15*time.Second),
		LogLevel:        getenv("LOG_LEVEL", "warn"),
	}
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env file could not be loaded")
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	if v, err := strconv.Atoi(getenv(k, "")); err == nil {
		return v
	}
	return d
}

// getDuration accepts Go duration strings; invalid or non-positive values
// fall back to d.
func getDuration(k string, d time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(k))
	if raw == "" {
		return d
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Warn().Str("key", k).Str("value", raw).Dur("default", d).Msg("invalid duration, using default")
		return d
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
