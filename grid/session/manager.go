package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
	"github.com/wricardo/mcp-training/pathfinder/grid/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

// maxIDLength bounds client-chosen session IDs; they double as file names
const maxIDLength = 64

// Manager handles board session lifecycle. IDs are case-insensitive.
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	logger      *slog.Logger
	mu          sync.RWMutex
}

// NewManager creates a new in-memory session manager
func NewManager() *Manager {
	return NewManagerWithPersistence(nil)
}

// NewManagerWithPersistence creates a new session manager that saves every
// change through persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
		logger:      slog.Default().With("component", "session_manager"),
	}
}

// Create creates a new session. An empty id generates a random 4-character one.
func (m *Manager) Create(id, configID string, config *engine.BoardConfig) (*service.Session, error) {
	if id == "" {
		id = m.generateSessionID()
	} else if err := validateID(id); err != nil {
		return nil, err
	}

	board, err := engine.NewBoard(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	session := &service.Session{
		ID:             key,
		ConfigID:       configID,
		Board:          board,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[key] = session

	// A failed save leaves the session usable in memory
	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			m.logger.Warn("failed to persist session", "session_id", key, "error", err)
		}
	}

	return session, nil
}

// Get retrieves a session by ID, loading it from persistence when it is not
// in memory
func (m *Manager) Get(id string) (*service.Session, error) {
	key := strings.ToLower(id)

	m.mu.RLock()
	session, exists := m.sessions[key]
	m.mu.RUnlock()
	if exists {
		return session, nil
	}

	if validateID(key) != nil || m.persistence == nil || !m.persistence.Exists(key) {
		return nil, ErrSessionNotFound
	}

	session, err := m.persistence.Load(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have loaded it meanwhile
	if existing, ok := m.sessions[key]; ok {
		return existing, nil
	}
	m.sessions[key] = session
	return session, nil
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id, configID string, config *engine.BoardConfig) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}
	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, configID, config)
	}
	return nil, err
}

// List returns all sessions in memory
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

// Delete removes a session from memory and from persistence
func (m *Manager) Delete(id string) error {
	key := strings.ToLower(id)

	m.mu.Lock()
	defer m.mu.Unlock()

	_, inMemory := m.sessions[key]
	delete(m.sessions, key)

	if m.persistence != nil && validateID(key) == nil && m.persistence.Exists(key) {
		if err := m.persistence.Delete(key); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory removes a session from memory only
func (m *Manager) DeleteFromMemory(id string) error {
	key := strings.ToLower(id)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[key]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, key)
	return nil
}

// UpdateLastAccessed updates the last accessed time for a session
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[strings.ToLower(id)]
	if !exists {
		return ErrSessionNotFound
	}
	session.LastAccessedAt = time.Now()
	return nil
}

// Save writes a session to persistence. Without persistence it is a no-op.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}

	return m.persistence.Save(session)
}

// CleanupExpiredSessions removes in-memory sessions that have not been
// accessed within maxAge. Persisted copies are kept.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, session := range m.sessions {
		if session.LastAccessedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of sessions in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// LoadPersistedSessions loads every persisted session into memory. Sessions
// that fail to load are logged and skipped.
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		key := strings.ToLower(id)
		if _, exists := m.sessions[key]; exists {
			continue
		}

		session, err := m.persistence.Load(id)
		if err != nil {
			m.logger.Warn("failed to load persisted session", "session_id", id, "error", err)
			continue
		}

		m.sessions[key] = session
		loaded++
	}

	if loaded > 0 {
		m.logger.Info("loaded persisted sessions", "count", loaded)
	}
	return nil
}

// SaveAllSessions writes every in-memory session to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	sessions := m.List()
	failed := 0
	for _, session := range sessions {
		if err := m.persistence.Save(session); err != nil {
			m.logger.Warn("failed to save session", "session_id", session.ID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to save %d sessions", failed)
	}
	return nil
}

// generateSessionID returns a random 4-character hex ID not yet in use
func (m *Manager) generateSessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for {
		b := make([]byte, 2)
		rand.Read(b)
		id := hex.EncodeToString(b)
		if _, exists := m.sessions[id]; !exists {
			return id
		}
	}
}

// validateID accepts letters, digits, '-' and '_'
func validateID(id string) error {
	if id == "" || len(id) > maxIDLength {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
		}
	}
	return nil
}
