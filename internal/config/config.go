package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseDSN string
	RedisAddr   string

	CartTTL               time.Duration
	FreeShippingThreshold float64
	ShippingFee           float64

	CORSAllowOrigins []string
}

func Load() Config {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),
		RedisAddr:   getenv("REDIS_ADDR", "redis:6379"),

		CartTTL:               parseDuration(getenv("CART_TTL", "2160h"), 90*24*time.Hour),
		FreeShippingThreshold: parseFloat(getenv("FREE_SHIPPING_THRESHOLD", "5000"), 5000),
		ShippingFee:           parseFloat(getenv("SHIPPING_FEE", "200"), 200),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}

	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
