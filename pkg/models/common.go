package models

import "github.com/google/uuid"

// NewUUID returns a random id in canonical lower-case form.
func NewUUID() string {
	return uuid.NewString()
}
