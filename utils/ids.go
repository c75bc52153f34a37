package utils

import "github.com/google/uuid"

// GenerateID returns a fresh id for a document or embedded record.
func GenerateID() string {
	return uuid.New().String()
}
