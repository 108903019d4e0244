package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
	"github.com/wricardo/mcp-training/pathfinder/grid/service"
)

// FilePersistence implements SessionPersistence with one JSON file per session
type FilePersistence struct {
	sessionsDir   string
	configManager service.ConfigManager
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string, configManager service.ConfigManager) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir:   sessionsDir,
		configManager: configManager,
	}, nil
}

// Save persists a session to a JSON file
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil || session.Board == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data := PersistedSessionData{
		ID:             session.ID,
		ConfigID:       session.ConfigID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Board:          session.Board,
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file
	path := fp.getFilePath(session.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load retrieves a session from a JSON file
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	jsonData, err := os.ReadFile(fp.getFilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	if err := checkBoard(data.Board); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}

	config, err := fp.configManager.LoadConfig(data.ConfigID)
	if err != nil {
		// The board itself is intact; fall back so the session stays usable
		config = fp.configManager.GetDefault()
		if config == nil {
			return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigID, err)
		}
	}

	return &service.Session{
		ID:             data.ID,
		ConfigID:       data.ConfigID,
		Board:          data.Board,
		Config:         config,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}
	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, id+".json")
}

// checkBoard rejects persisted boards whose grid shape is broken. Duplicate
// endpoints are legal board state and are left for the path search to report.
func checkBoard(b *engine.Board) error {
	if b == nil || b.Grid == nil {
		return fmt.Errorf("%w: missing board", engine.ErrInvalidGrid)
	}
	g := b.Grid
	if g.Rows < engine.MinGridSize || g.Rows > engine.MaxGridSize ||
		g.Cols < engine.MinGridSize || g.Cols > engine.MaxGridSize || len(g.Labels) != g.Rows {
		return fmt.Errorf("%w: bad dimensions %dx%d", engine.ErrInvalidGrid, g.Rows, g.Cols)
	}
	for r, row := range g.Labels {
		if len(row) != g.Cols {
			return fmt.Errorf("%w: row %d has %d cells", engine.ErrInvalidGrid, r, len(row))
		}
		for _, l := range row {
			if !l.Valid() {
				return fmt.Errorf("%w: unknown label %q", engine.ErrInvalidGrid, l)
			}
		}
	}
	return nil
}
