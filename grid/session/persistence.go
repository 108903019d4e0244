package session

import (
	"time"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
	"github.com/wricardo/mcp-training/pathfinder/grid/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the JSON document stored per session. The board
// carries the edited labels; the configuration is reloaded by id.
type PersistedSessionData struct {
	ID             string        `json:"id"`
	ConfigID       string        `json:"config_id"`
	CreatedAt      time.Time     `json:"created_at"`
	LastAccessedAt time.Time     `json:"last_accessed_at"`
	Board          *engine.Board `json:"board"`
}
