package config

import "github.com/spf13/viper"

// Config holds application configuration loaded from environment variables.
type Config struct {
	AppPort       string
	DatabaseURL   string // Postgres DSN; empty selects a local SQLite file
	RedisAddr     string // optional session storage backend
	RedisPassword string
	RedisDB       int
	RabbitMQURL   string // optional rating event broker
	CookieSecure  bool
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load builds Config from the environment with sensible defaults.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("ADMIN_NAME", "Platform Administrator Account")
	viper.SetDefault("ADMIN_EMAIL", "admin@storerating.local")
	viper.SetDefault("ADMIN_PASSWORD", "Admin@12345")
	viper.AutomaticEnv()

	return &Config{
		AppPort:       viper.GetString("APP_PORT"),
		DatabaseURL:   viper.GetString("DATABASE_URL"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		RedisDB:       viper.GetInt("REDIS_DB"),
		RabbitMQURL:   viper.GetString("RABBITMQ_URL"),
		CookieSecure:  viper.GetBool("COOKIE_SECURE"),
		AdminName:     viper.GetString("ADMIN_NAME"),
		AdminEmail:    viper.GetString("ADMIN_EMAIL"),
		AdminPassword: viper.GetString("ADMIN_PASSWORD"),
	}
}
