package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wricardo/mcp-training/pathfinder/grid/config"
	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
)

func newTestConfigManager(t *testing.T) *config.Manager {
	t.Helper()
	dir := t.TempDir()
	data, _ := json.Marshal(createTestConfig())
	if err := os.WriteFile(filepath.Join(dir, "classic.json"), data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	manager, err := config.NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	return manager
}

func TestFilePersistence(t *testing.T) {
	configManager := newTestConfigManager(t)
	dir := t.TempDir()

	persistence, err := NewFilePersistence(dir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManager()
	session, _ := manager.Create("p001", "classic", configManager.GetDefault())
	session.Board.CycleCell(engine.Cell{Row: 0, Col: 1})
	session.Board.SetCell(engine.Cell{Row: 0, Col: 1}, engine.Open)
	if _, err := session.Board.FindPath(); err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}

	t.Run("save and load", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if !persistence.Exists("p001") {
			t.Fatal("Expected session file to exist")
		}

		loaded, err := persistence.Load("p001")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.ConfigID != "classic" || loaded.Config.Name != "Test Board" {
			t.Errorf("Config not restored: %q %+v", loaded.ConfigID, loaded.Config)
		}
		if diff := cmp.Diff(session.Board, loaded.Board); diff != "" {
			t.Errorf("Board mismatch (-saved +loaded):\n%s", diff)
		}
		if !loaded.CreatedAt.Equal(session.CreatedAt) {
			t.Errorf("CreatedAt not restored")
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		ids, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}
		if diff := cmp.Diff([]string{"p001"}, ids); diff != "" {
			t.Errorf("IDs mismatch (-want +got):\n%s", diff)
		}

		if err := persistence.Delete("p001"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists("p001") {
			t.Error("Expected session file to be removed")
		}
		if err := persistence.Delete("p001"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("load missing", func(t *testing.T) {
		if _, err := persistence.Load("none"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("load corrupt file", func(t *testing.T) {
		os.WriteFile(filepath.Join(dir, "bad1.json"), []byte("{"), 0644)
		if _, err := persistence.Load("bad1"); err == nil {
			t.Error("Expected error for corrupt file")
		}

		os.WriteFile(filepath.Join(dir, "bad2.json"), []byte(`{"id":"bad2","board":{"grid":{"rows":2,"cols":2,"labels":[["open"]]}}}`), 0644)
		if _, err := persistence.Load("bad2"); err == nil {
			t.Error("Expected error for malformed board")
		}
	})

	t.Run("unknown config falls back to default", func(t *testing.T) {
		other, _ := manager.Create("p002", "deleted-config", configManager.GetDefault())
		if err := persistence.Save(other); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		loaded, err := persistence.Load("p002")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Config == nil || loaded.ConfigID != "deleted-config" {
			t.Errorf("Expected default config with original id, got %+v", loaded)
		}
	})
}

func TestFilePersistenceFileStructure(t *testing.T) {
	configManager := newTestConfigManager(t)
	dir := t.TempDir()
	persistence, _ := NewFilePersistence(dir, configManager)

	manager := NewManager()
	session, _ := manager.Create("f001", "classic", configManager.GetDefault())
	if err := persistence.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "f001.json"))
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Session file is not valid JSON: %v", err)
	}
	for _, key := range []string{"id", "config_id", "created_at", "last_accessed_at", "board"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("Expected key %q in session file", key)
		}
	}
	if !strings.Contains(string(raw), `"blocked"`) {
		t.Error("Expected labels to be stored by name")
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("Temporary file left behind: %s", e.Name())
		}
	}
}

func TestManagerWithPersistence(t *testing.T) {
	configManager := newTestConfigManager(t)
	persistence, err := NewFilePersistence(t.TempDir(), configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)
	session, err := manager.Create("auto1", "classic", configManager.GetDefault())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if !persistence.Exists(session.ID) {
		t.Error("Session should be saved on creation")
	}

	session.Board.SetCell(engine.Cell{Row: 1, Col: 1}, engine.Open)
	if err := manager.Save(session.ID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Run("get loads from persistence", func(t *testing.T) {
		fresh := NewManagerWithPersistence(persistence)
		loaded, err := fresh.Get("AUTO1")
		if err != nil {
			t.Fatalf("Get from persistence failed: %v", err)
		}
		if loaded.Board.Grid.Label(engine.Cell{Row: 1, Col: 1}) != engine.Open {
			t.Error("Expected edited label to survive reload")
		}
	})

	t.Run("load persisted sessions", func(t *testing.T) {
		manager.Create("auto2", "classic", configManager.GetDefault())
		fresh := NewManagerWithPersistence(persistence)
		if err := fresh.LoadPersistedSessions(); err != nil {
			t.Fatalf("LoadPersistedSessions failed: %v", err)
		}
		if fresh.Count() != 2 {
			t.Errorf("Expected 2 loaded sessions, got %d", fresh.Count())
		}
	})

	t.Run("delete removes file", func(t *testing.T) {
		fresh := NewManagerWithPersistence(persistence)
		if err := fresh.Delete("auto2"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists("auto2") {
			t.Error("Expected persisted file to be deleted")
		}
	})

	t.Run("save all", func(t *testing.T) {
		if err := manager.SaveAllSessions(); err != nil {
			t.Errorf("SaveAllSessions failed: %v", err)
		}
	})
}
