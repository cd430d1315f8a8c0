package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cart snapshot backends.
const (
	CartMemory = "memory"
	CartFile   = "file"
	CartRedis  = "redis"
)

// Order repository backends.
const (
	OrdersMemory = "memory"
	OrdersMongo  = "mongo"
)

// Order event transports.
const (
	EventsDirect = "direct"
	EventsRedis  = "redis"
)

type Config struct {
	Port             string
	Env              string
	PublicBaseURL    string
	CartBackend      string
	CartDir          string
	RedisAddr        string
	OrderBackend     string
	EventBackend     string
	MongoURI         string
	MongoDB          string
	TrackingInterval time.Duration
	ShareSecret      string
	ShareTTL         time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
}

// Load reads .env when present, then the environment. Unset variables fall
// back to defaults; malformed ones are an error.
func Load() (Config, error) {
	// a missing .env is fine, the environment is used as is
	_ = godotenv.Load()

	cfg := Config{
		Port:          port(os.Getenv("PORT")),
		Env:           env("APP_ENV", "production"),
		PublicBaseURL: strings.TrimRight(env("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		CartBackend:   env("CART_BACKEND", CartMemory),
		CartDir:       env("CART_DIR", "data/carts"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		OrderBackend:  env("ORDER_BACKEND", OrdersMemory),
		EventBackend:  env("EVENT_BACKEND", EventsDirect),
		MongoURI:      env("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       env("MONGO_DB", "freshcart"),
		ShareSecret:   env("SHARE_SECRET", "dev-share-secret"),
	}

	var err error
	if cfg.TrackingInterval, err = duration("TRACKING_INTERVAL", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ShareTTL, err = duration("SHARE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitRPS, err = float("RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitBurst, err = integer("RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, err
	}

	switch cfg.CartBackend {
	case CartMemory, CartFile, CartRedis:
	default:
		return Config{}, fmt.Errorf("CART_BACKEND: unknown backend %q", cfg.CartBackend)
	}
	switch cfg.OrderBackend {
	case OrdersMemory, OrdersMongo:
	default:
		return Config{}, fmt.Errorf("ORDER_BACKEND: unknown backend %q", cfg.OrderBackend)
	}
	switch cfg.EventBackend {
	case EventsDirect, EventsRedis:
	default:
		return Config{}, fmt.Errorf("EVENT_BACKEND: unknown backend %q", cfg.EventBackend)
	}
	if cfg.TrackingInterval <= 0 {
		return Config{}, fmt.Errorf("TRACKING_INTERVAL must be positive")
	}
	return cfg, nil
}

func port(p string) string {
	if p == "" {
		return ":8080"
	}
	if p[0] != ':' {
		return ":" + p
	}
	return p
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func float(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func integer(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
