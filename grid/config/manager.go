package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
	"github.com/wricardo/mcp-training/pathfinder/grid/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultConfigID is the configuration used when no name is given
const DefaultConfigID = "classic"

// Manager handles board configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.BoardConfig
	configs       map[string]*engine.BoardConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.BoardConfig),
	}

	m.defaultConfig = m.pickDefault()
	return m, nil
}

// LoadConfig loads a configuration by name
func (m *Manager) LoadConfig(name string) (*engine.BoardConfig, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := engine.LoadBoardConfig(m.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = config
	return config, nil
}

// ListConfigs returns information about all valid configurations, sorted by id
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadConfig(id)
		if err != nil {
			// Skip invalid configs
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			Rows:        config.Rows,
			Cols:        config.Cols,
		})
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.BoardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops all cached configurations and picks the default again
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.BoardConfig)
	m.mu.Unlock()

	def := m.pickDefault()

	m.mu.Lock()
	m.defaultConfig = def
	m.mu.Unlock()
	return nil
}

// SaveConfig validates a configuration and writes it to disk
func (m *Manager) SaveConfig(name string, config *engine.BoardConfig) error {
	if err := engine.ValidateBoardConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()
	return nil
}

// pickDefault prefers classic.json, then the first valid config on disk, then
// the built-in empty board
func (m *Manager) pickDefault() *engine.BoardConfig {
	if config, err := m.LoadConfig(DefaultConfigID); err == nil {
		return config
	}

	configs, err := m.ListConfigs()
	if err == nil && len(configs) > 0 {
		if config, err := m.LoadConfig(configs[0].ConfigID); err == nil {
			return config
		}
	}

	return engine.DefaultBoardConfig()
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.configDir, name+".json")
}
