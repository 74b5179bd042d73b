package utils

import (
	"os"
	"strconv"
	"time"
)

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(GetEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
