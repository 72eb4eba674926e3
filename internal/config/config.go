package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingSecret means neither JWT_SECRET nor NEXTAUTH_SECRET is set.
// This is a startup configuration failure, never a per-request error.
var ErrMissingSecret = errors.New("config: JWT_SECRET (or NEXTAUTH_SECRET) is not set")

type Config struct {
	Env  string
	Port int

	DBURL      string
	DBDisabled bool

	JWTSecret string
	TokenTTL  time.Duration

	CORSAllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTelEndpoint string

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)

	// Legacy deployments configured the secret as NEXTAUTH_SECRET; the first
	// variable present wins.
	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		secret = getEnv("NEXTAUTH_SECRET", "")
	}
	if secret == "" {
		return Config{}, ErrMissingSecret
	}

	ttlDays := getEnvInt("TOKEN_TTL_DAYS", 7)

	return Config{
		Env:                env,
		Port:               port,
		DBURL:              buildDBURL(),
		DBDisabled:         getEnv("DB_DISABLE", "") == "1",
		JWTSecret:          secret,
		TokenTTL:           time.Duration(ttlDays) * 24 * time.Hour,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		OTelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		AuthRateLimit:      getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindow:     time.Duration(getEnvInt("AUTH_RATE_WINDOW_SECONDS", 60)) * time.Second,
	}, nil
}

func buildDBURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "memodb")
	pass := getEnv("DB_PASSWORD", "memodb")
	name := getEnv("DB_NAME", "memodb")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
