package env

import (
	"os"
	"strings"
)

// Get returns the value of key, or fallback when the variable is unset or
// blank after trimming.
func Get(key, fallback string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	return val
}

// First returns the first non-blank value among the given keys, or fallback
// when none is set. Used where deployment platforms disagree on the variable
// name (PORT vs BRANDQUILL_PORT, DYNO vs WORKER_ID).
func First(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return fallback
}
