package util

import (
	"os"
)

// EnvStr returns the value of the environment variable named by the key.
func EnvStr(key, defaultValue string) string {
	if value, exist := os.LookupEnv(key); exist && value != "" {
		return value
	}

	return defaultValue
}
