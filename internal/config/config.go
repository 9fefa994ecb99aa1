// Package config loads server settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server settings
type Config struct {
	// RedisAddr is the host:port of the Redis server
	RedisAddr string

	// RedisPassword is the Redis password, empty for none
	RedisPassword string

	// RedisDB is the Redis database number
	RedisDB int

	// HTTPAddr is the listen address of the HTTP API
	HTTPAddr string

	// PasscodeSeed optionally fixes the passcode generator seed. Zero means
	// seed from the clock.
	PasscodeSeed int64
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	// Missing .env is fine; the environment wins either way
	_ = godotenv.Load()

	return &Config{
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		PasscodeSeed:  int64(getEnvInt("PASSCODE_SEED", 0)),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
