package utils

import "github.com/google/uuid"

// GenerateID returns a new random id for any entity
func GenerateID() string {
	return uuid.New().String()
}
