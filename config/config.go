package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DBHost          string
	DBPort          string
	DBUser          string
	DBPass          string
	DBName          string
	JWTSecret       string
	RedisAddr       string
	RedisPassword   string
	RateLimitWindow time.Duration
	RateLimitMax    int
	BcryptCost      int
	Port            string
	Timezone        string
}

// Load reads configuration from the environment once at startup. A .env file
// is honored when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPass:          getEnv("DB_PASS", "postgres"),
		DBName:          getEnv("DB_NAME", "chatbud"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW", 900)) * time.Second,
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 20),
		BcryptCost:      getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		Port:            getEnv("PORT", "8080"),
		Timezone:        getEnv("TZ", "UTC"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Printf("invalid value for %s: %q, using default %d", key, val, fallback)
		return fallback
	}
	return n
}
