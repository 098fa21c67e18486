package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env  string
	Port string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret string
	JWTExpiry time.Duration

	// AdminKey grants the admin claim at token issuance when it matches.
	AdminKey string

	CrashJoinWindow time.Duration
	DuelTimeout     time.Duration

	HappyHourInterval   time.Duration
	HappyHourDuration   time.Duration
	HappyHourChance     float64
	HappyHourMultiplier float64
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:       getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		RedisURL:  getEnv("REDIS_URL", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASSWORD", ""),
		JWTSecret: getEnv("JWT_SECRET", ""),
		AdminKey:  getEnv("ADMIN_KEY", ""),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %v", err)
	}
	cfg.RedisDB = db

	cfg.JWTExpiry, err = getDuration("JWT_EXPIRY", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.CrashJoinWindow, err = getDuration("CRASH_JOIN_WINDOW", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.DuelTimeout, err = getDuration("DUEL_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HappyHourInterval, err = getDuration("HAPPY_HOUR_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.HappyHourDuration, err = getDuration("HAPPY_HOUR_DURATION", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.HappyHourChance, err = getFloat("HAPPY_HOUR_CHANCE", 0.2)
	if err != nil {
		return nil, err
	}
	cfg.HappyHourMultiplier, err = getFloat("HAPPY_HOUR_MULTIPLIER", 1.3)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return f, nil
}
