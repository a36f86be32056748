package utils

import (
	"strconv"

	"github.com/google/uuid"
)

// ParseInt converts a query value, falling back to defaultValue when it is empty,
// malformed or below 1.
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 1 {
		return defaultValue
	}

	return result
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}
