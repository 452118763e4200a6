package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	ProtocolURL     string
	ProtocolTimeout time.Duration

	FeePayerKey     string
	FeePayerKeyFile string
	RPCURL          string

	APIKey string
}

func LoadConfig() Config {
	return Config{
		Port: getEnv("PORT", "3001"),

		ProtocolURL:     getEnv("PRIVACY_CASH_URL", "http://localhost:4000"),
		ProtocolTimeout: time.Duration(getEnvInt("PRIVACY_CASH_TIMEOUT_SECONDS", 60)) * time.Second,

		FeePayerKey:     getEnv("FEE_PAYER_KEY", ""),
		FeePayerKeyFile: getEnv("FEE_PAYER_KEYFILE", ""),
		RPCURL:          getEnv("SOLANA_RPC_URL", "https://api.devnet.solana.com"),

		APIKey: getEnv("RELAYER_API_KEY", ""),
	}
}

func (c Config) Validate() error {
	if c.ProtocolURL == "" {
		return fmt.Errorf("PRIVACY_CASH_URL must not be empty")
	}
	if c.ProtocolTimeout <= 0 {
		return fmt.Errorf("PRIVACY_CASH_TIMEOUT_SECONDS must be positive")
	}
	if c.FeePayerKey == "" && c.FeePayerKeyFile == "" {
		return fmt.Errorf("FEE_PAYER_KEY or FEE_PAYER_KEYFILE is required")
	}
	if c.RPCURL == "" {
		return fmt.Errorf("SOLANA_RPC_URL must not be empty")
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
