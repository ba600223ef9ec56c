package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/ragavi522/knee-prime-assessment/internal/logger"
)

type Config struct {
	AppPort string

	OTPGatewayURL   string
	OTPGatewayToken string

	// OTPBypass disables real code verification. Resolved once here;
	// nothing else may consult the environment for it.
	OTPBypass bool

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string
}

func Load() Config {

	// Local development convenience; absence of a .env file is normal.
	_ = godotenv.Load()

	cfg := Config{

		AppPort: getEnv("APP_PORT", "8080"),

		OTPGatewayURL:   os.Getenv("OTP_GATEWAY_URL"),
		OTPGatewayToken: os.Getenv("OTP_GATEWAY_TOKEN"),

		OTPBypass: os.Getenv("OTP_BYPASS") == "true",

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
	}

	if cfg.OTPBypass {
		logger.Warn("OTP bypass mode enabled, code verification is disabled", nil)
	}

	return cfg

}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
