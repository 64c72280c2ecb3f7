package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	AppEnv        string
	MongoURI      string
	MongoDB       string
	RedisURL      string
	AccessSecret  string
	RefreshSecret string
	StripeKey     string
	CloudinaryURL string
	ClientURL     string
	LogLevel      string
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment variables", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "5000"),
		AppEnv:        getEnv("APP_ENV", "development"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "storefront"),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		AccessSecret:  os.Getenv("ACCESS_TOKEN_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_TOKEN_SECRET"),
		StripeKey:     os.Getenv("STRIPE_SECRET_KEY"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		ClientURL:     getEnv("CLIENT_URL", "http://localhost:5173"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
