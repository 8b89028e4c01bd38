package tools

import (
	"github.com/google/uuid"
)

// GenerateRandomName returns a fresh UUID string, used for storage
// download tokens.
func GenerateRandomName() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	return id.String(), nil
}
