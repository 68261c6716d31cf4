package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	RabbitURL string

	RedisAddr       string
	RedisPassword   string
	CacheTTLSeconds int

	JWTSecret string

	SMSAPIURL string
	SMSAPIKey string
	SMSSender string
}

// Load reads .env (if present) and the environment. Missing optional
// integrations (RabbitMQ, Redis, SMS) leave their fields empty and the
// corresponding hooks are simply not wired.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "ovipoint"),

		RabbitURL: os.Getenv("RABBITMQ_URL"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 15),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),

		SMSAPIURL: getEnv("SMS_API_URL", "https://api.txtlocal.com/send/"),
		SMSAPIKey: os.Getenv("SMS_API_KEY"),
		SMSSender: getEnv("SMS_SENDER", "OVIPOINT"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
