package domain

import (
	"time"

	"github.com/google/uuid"
)

// Instance identifies this server installation. Created once on first
// startup and persisted.
type Instance struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// NewInstance creates the installation record with a random identity.
func NewInstance(name, version string) *Instance {
	return &Instance{
		ID:        uuid.NewString(),
		Name:      name,
		Version:   version,
		CreatedAt: time.Now(),
	}
}
