package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
)

// BoardService defines all board-related operations
type BoardService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Board Editing
	GetBoard(ctx context.Context, sessionID string) (*BoardState, error)
	CycleCell(ctx context.Context, sessionID string, cell engine.Cell) (*CellResult, error)
	SetCell(ctx context.Context, sessionID string, cell engine.Cell, label engine.Label) (*CellResult, error)
	ClearBoard(ctx context.Context, sessionID string) (*BoardState, error)
	Reset(ctx context.Context, sessionID string) (*BoardState, error)

	// Pathfinding
	FindPath(ctx context.Context, sessionID string) (*PathResult, error)
	ClearPath(ctx context.Context, sessionID string) (*BoardState, error)
	Solve(ctx context.Context, layout []string) (*PathResult, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.BoardConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, configID string, config *engine.BoardConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles board configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	SaveConfig(name string, config *engine.BoardConfig) error
}

// Session is one editable board together with the configuration it came from
type Session struct {
	ID             string
	ConfigID       string
	Board          *engine.Board
	Config         *engine.BoardConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
