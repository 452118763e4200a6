package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	StoreDriver string
	StorePath   string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RelayerURL     string
	RelayerAPIKey  string
	RelayerTimeout time.Duration

	JWTSecret    string
	TokenTTL     time.Duration
	AdminWallets []string
	LoginPrefix  string

	KafkaBroker   string
	RedisAddr     string
	TelegramToken string
	TelegramChat  int64

	CORSOrigins string
	RateLimit   int
}

func LoadConfig() Config {
	return Config{
		Port:        getEnv("PORT", "3000"),
		StoreDriver: getEnv("STORE_DRIVER", "memory"),
		StorePath:   getEnv("STORE_PATH", "data/links.json"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: getEnv("DB_PASS", "postgres"),
		DBName: getEnv("DB_NAME", "shadowpay"),

		RelayerURL:     getEnv("RELAYER_URL", "http://localhost:3001"),
		RelayerAPIKey:  getEnv("RELAYER_API_KEY", ""),
		RelayerTimeout: time.Duration(getEnvInt("RELAYER_TIMEOUT_SECONDS", 30)) * time.Second,

		JWTSecret:    getEnv("JWT_SECRET", "verysecretkey"),
		TokenTTL:     time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		AdminWallets: splitList(getEnv("ADMIN_WALLETS", "")),
		LoginPrefix:  getEnv("LOGIN_MESSAGE_PREFIX", "ShadowPay login"),

		KafkaBroker:   getEnv("KAFKA_BROKER", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChat:  getEnvInt64("TELEGRAM_CHAT_ID", 0),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		RateLimit:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	}
}

func (c Config) DSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPass +
		" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable TimeZone=UTC"
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case "memory", "file", "postgres":
	default:
		return fmt.Errorf("STORE_DRIVER must be memory, file or postgres, got %q", c.StoreDriver)
	}
	if c.StoreDriver == "file" && c.StorePath == "" {
		return fmt.Errorf("STORE_PATH is required for the file store")
	}
	if c.RelayerURL == "" {
		return fmt.Errorf("RELAYER_URL must not be empty")
	}
	if c.RelayerTimeout <= 0 {
		return fmt.Errorf("RELAYER_TIMEOUT_SECONDS must be positive")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
