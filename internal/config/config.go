package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string
}

// URL builds the lib/pq connection string.
func (d *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// RedisConfig holds the optional shared-cache backend settings. An empty
// Addr keeps the cache in process memory.
type RedisConfig struct {
	Addr string
}

// OutscraperConfig holds the external places provider settings. An empty
// APIKey disables outbound calls entirely; searches then run on local data
// and the sample fallback.
type OutscraperConfig struct {
	APIKey   string
	BaseURL  string
	Region   string
	Language string
}

type Config struct {
	Port       string
	LogLevel   string
	DB         DatabaseConfig
	Redis      RedisConfig
	Outscraper OutscraperConfig
}

// Load reads configuration from the environment, with a .env file honored
// when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DatabaseConfig{
			User:     getEnv("DB_USER", "vices_user"),
			Password: getEnv("DB_PASS", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			DBName:   getEnv("DB_NAME", "vices_db"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Outscraper: OutscraperConfig{
			APIKey:   getEnv("OUTSCRAPER_API_KEY", ""),
			BaseURL:  getEnv("OUTSCRAPER_BASE_URL", ""),
			Region:   getEnv("OUTSCRAPER_REGION", "CA"),
			Language: getEnv("OUTSCRAPER_LANGUAGE", "en"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
