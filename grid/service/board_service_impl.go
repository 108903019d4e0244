package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("config not found")
	ErrInvalidCell     = errors.New("invalid cell")
	ErrInvalidConfig   = errors.New("invalid config")
)

// boardServiceImpl implements the BoardService interface
type boardServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *slog.Logger

	// mu guards session boards and access times. Reads take the write lock
	// too because lookup refreshes LastAccessedAt.
	mu sync.Mutex
}

// NewBoardService creates a new board service instance
func NewBoardService(sessions SessionManager, configs ConfigManager, logger *slog.Logger) BoardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &boardServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger.With("component", "board_service"),
	}
}

// CreateSession creates a new board session from a named configuration, or
// from the default configuration when configName is empty
func (s *boardServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config, configID, err := s.resolveConfig(configName)
	if err != nil {
		return nil, err
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.InfoContext(ctx, "session created", "session_id", sess.ID, "config", configID)
	return sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *boardServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *boardServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *boardServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSessionNotFound, sessionID, err)
	}
	s.logger.InfoContext(ctx, "session deleted", "session_id", sessionID)
	return nil
}

// GetBoard returns the current board of a session
func (s *boardServiceImpl) GetBoard(ctx context.Context, sessionID string) (*BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return NewBoardState(sess.Board), nil
}

// CycleCell advances the label of one cell
func (s *boardServiceImpl) CycleCell(ctx context.Context, sessionID string, cell engine.Cell) (*CellResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	label, err := sess.Board.CycleCell(cell)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCell, err)
	}

	s.persist(ctx, sess.ID, "cycle_cell")
	return &CellResult{Cell: cell, Label: label, Board: NewBoardState(sess.Board)}, nil
}

// SetCell assigns a label to one cell
func (s *boardServiceImpl) SetCell(ctx context.Context, sessionID string, cell engine.Cell, label engine.Label) (*CellResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Board.SetCell(cell, label); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCell, err)
	}

	s.persist(ctx, sess.ID, "set_cell")
	return &CellResult{Cell: cell, Label: label, Board: NewBoardState(sess.Board)}, nil
}

// ClearBoard sets every cell of the session board back to open
func (s *boardServiceImpl) ClearBoard(ctx context.Context, sessionID string) (*BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Board.ClearBoard()
	s.persist(ctx, sess.ID, "clear_board")
	return NewBoardState(sess.Board), nil
}

// Reset rebuilds the session board from its configuration
func (s *boardServiceImpl) Reset(ctx context.Context, sessionID string) (*BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	board, err := engine.NewBoard(sess.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild board: %w", err)
	}
	sess.Board = board

	s.persist(ctx, sess.ID, "reset")
	return NewBoardState(sess.Board), nil
}

// FindPath searches for the shortest path on the session board and stores
// the overlay. Only corrupt paths and lookup failures are returned as errors.
func (s *boardServiceImpl) FindPath(ctx context.Context, sessionID string) (*PathResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	result, findErr := sess.Board.FindPath()
	pathResult, err := newPathResult(result, findErr)
	if err != nil {
		s.logger.ErrorContext(ctx, "path search failed", "session_id", sess.ID, "error", err)
		return nil, err
	}
	pathResult.Board = NewBoardState(sess.Board)

	s.logger.DebugContext(ctx, "path search",
		"session_id", sess.ID,
		"found", pathResult.Found,
		"length", pathResult.Length,
		"error_kind", pathResult.ErrorKind,
		"expanded", pathResult.Expanded)

	s.persist(ctx, sess.ID, "find_path")
	return pathResult, nil
}

// ClearPath removes the path overlay from the session board
func (s *boardServiceImpl) ClearPath(ctx context.Context, sessionID string) (*BoardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Board.ClearPath()
	s.persist(ctx, sess.ID, "clear_path")
	return NewBoardState(sess.Board), nil
}

// Solve runs a path search on a layout without creating a session
func (s *boardServiceImpl) Solve(ctx context.Context, layout []string) (*PathResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grid, err := engine.ParseLayout(layout)
	if err != nil {
		return newPathResult(nil, err)
	}

	result, err := engine.ComputePath(grid)
	return newPathResult(result, err)
}

// ListConfigs returns available board configurations
func (s *boardServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board configuration
func (s *boardServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigNotFound, configName, err)
	}
	return config, nil
}

// SaveConfig saves a board configuration to disk
func (s *boardServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	if configName == "" {
		return fmt.Errorf("%w: config id is required", ErrInvalidConfig)
	}
	if err := engine.ValidateBoardConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "config saved", "config", configName)
	return nil
}

// resolveConfig loads the named configuration or falls back to the default
func (s *boardServiceImpl) resolveConfig(configName string) (*engine.BoardConfig, string, error) {
	if configName == "" {
		config := s.configs.GetDefault()
		if config == nil {
			config = engine.DefaultBoardConfig()
		}
		return config, s.configID(config.Name), nil
	}

	config, err := s.configs.LoadConfig(configName)
	if err == nil {
		return config, configName, nil
	}

	// Provide helpful error message with available options
	available, listErr := s.configs.ListConfigs()
	if listErr == nil && len(available) > 0 {
		ids := make([]string, 0, len(available))
		for _, cfg := range available {
			ids = append(ids, cfg.ConfigID)
		}
		return nil, "", fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, ids)
	}
	return nil, "", fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
}

// configID returns the config_id for a given display name
func (s *boardServiceImpl) configID(displayName string) string {
	available, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range available {
			if cfg.Name == displayName {
				return cfg.ConfigID
			}
		}
	}
	if displayName == "" {
		return "default"
	}
	return displayName
}

// lookup finds a session and marks it accessed
func (s *boardServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.sessions.UpdateLastAccessed(sess.ID)
	return sess, nil
}

// persist saves a session after a mutation; failures are logged only
func (s *boardServiceImpl) persist(ctx context.Context, sessionID, op string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to persist session", "session_id", sessionID, "op", op, "error", err)
	}
}

// newPathResult converts an engine outcome into a PathResult. Expected
// failures become a not-found result; corrupt paths and unknown errors are
// returned as errors.
func newPathResult(result *engine.Result, err error) (*PathResult, error) {
	if err == nil {
		return &PathResult{
			Found:    true,
			Length:   result.Length,
			Path:     result.Path,
			Steps:    result.Steps,
			Message:  fmt.Sprintf("Path found: %d steps.", result.Length),
			Expanded: result.Expanded,
		}, nil
	}

	switch kind := engine.KindOf(err); kind {
	case engine.KindMissingEndpoints, engine.KindNotFound, engine.KindInvalidGrid:
		return &PathResult{
			Found:     false,
			ErrorKind: kind,
			Message:   engine.UserMessage(err),
		}, nil
	default:
		return nil, err
	}
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Board:          NewBoardState(sess.Board),
		BoardConfig:    sess.Config,
	}
}
