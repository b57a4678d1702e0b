package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort       string
	DBDSN         string
	JWTSecret     string
	JWTExpiresMin int
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CORSOrigins   string
	CookieSecure  bool
	LogJSON       bool
	LogDebug      bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("JWT_EXPIRES_MIN", 10080) // 7 days
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CORS_ORIGINS", "http://127.0.0.1:3000, http://localhost:3000")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_DEBUG", false)
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromViper(viper.GetViper())
}

func FromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		AppPort:       v.GetString("APP_PORT"),
		DBDSN:         v.GetString("DB_DSN"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTExpiresMin: v.GetInt("JWT_EXPIRES_MIN"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		CORSOrigins:   v.GetString("CORS_ORIGINS"),
		CookieSecure:  v.GetBool("COOKIE_SECURE"),
		LogJSON:       v.GetBool("LOG_JSON"),
		LogDebug:      v.GetBool("LOG_DEBUG"),
	}

	var missing []string
	if cfg.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return cfg, fmt.Errorf("missing env: %s", strings.Join(missing, ", "))
	}
	if cfg.JWTExpiresMin <= 0 {
		return cfg, fmt.Errorf("JWT_EXPIRES_MIN must be positive, got %d", cfg.JWTExpiresMin)
	}
	return cfg, nil
}
