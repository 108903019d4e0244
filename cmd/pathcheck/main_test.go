package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
)

// writeConfig stores config as name.json in dir and returns the path
func writeConfig(t *testing.T, dir, name string, config any) string {
	t.Helper()
	data, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := newApp(&buf).Run(context.Background(), append([]string{"pathcheck"}, args...))
	return buf.String(), err
}

func mustGrid(t *testing.T, rows ...string) *engine.Grid {
	t.Helper()
	grid, err := engine.ParseLayout(rows)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	return grid
}

func TestAnalyzeGrid(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
		want   Analysis
	}{
		{
			name:   "center wall",
			layout: []string{"S..", ".#.", "..E"},
			want: Analysis{
				Rows: 3, Cols: 3, Open: 8, Blocked: 1,
				Start: engine.Cell{Row: 0, Col: 0}, End: engine.Cell{Row: 2, Col: 2},
				HasStart: true, HasEnd: true,
				Components: 1, Largest: 8, Connected: true,
				Length: 4, Manhattan: 4,
			},
		},
		{
			name:   "split by wall",
			layout: []string{"S..", "###", "..E"},
			want: Analysis{
				Rows: 3, Cols: 3, Open: 6, Blocked: 3,
				Start: engine.Cell{Row: 0, Col: 0}, End: engine.Cell{Row: 2, Col: 2},
				HasStart: true, HasEnd: true,
				Components: 2, Largest: 3,
				Outcome: engine.KindNotFound, Manhattan: 4,
			},
		},
		{
			name:   "no end",
			layout: []string{"S.#", "..#"},
			want: Analysis{
				Rows: 2, Cols: 3, Open: 4, Blocked: 2,
				Start: engine.Cell{Row: 0, Col: 0}, HasStart: true,
				Components: 1, Largest: 4,
				Outcome: engine.KindMissingEndpoints,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzeGrid(mustGrid(t, tt.layout...))
			// Expansion counts are an implementation detail of the search
			got.Expanded = 0
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("analysis mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeGridAgreesWithPathfinder(t *testing.T) {
	layouts := [][]string{
		{"S#E"},
		{"S.E"},
		{"S#.", ".#.", "..E"},
		{"S#..", "##..", "...E"},
		{"SE"},
	}
	for _, layout := range layouts {
		a := analyzeGrid(mustGrid(t, layout...))
		if a.Connected != a.Found() {
			t.Errorf("%v: connected=%v found=%v", layout, a.Connected, a.Found())
		}
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name         string
		config       any
		valid        bool
		wantError    string
		wantWarnings []string
	}{
		{
			name: "good",
			config: engine.BoardConfig{
				Name: "Good", Description: "d", Rows: 2, Cols: 3, Layout: []string{"S..", "..E"},
			},
			valid: true,
		},
		{
			name: "empty",
			config: engine.BoardConfig{
				Name: "Empty", Description: "d", Rows: 4, Cols: 4,
			},
			valid:        true,
			wantWarnings: []string{"No layout: board starts all open", "Start or end not placed"},
		},
		{
			name: "walled",
			config: engine.BoardConfig{
				Name: "Walled", Description: "d", Rows: 1, Cols: 3, Layout: []string{"S#E"},
			},
			valid:        true,
			wantWarnings: []string{"End (0,2) is unreachable from start (0,0)"},
		},
		{
			name: "two starts",
			config: engine.BoardConfig{
				Name: "Two", Description: "d", Rows: 1, Cols: 3, Layout: []string{"S.S"},
			},
			wantError: "at most one allowed",
		},
		{
			name: "bad character",
			config: engine.BoardConfig{
				Name: "Bad", Description: "d", Rows: 1, Cols: 2, Layout: []string{"SX"},
			},
			wantError: "invalid character 'X'",
		},
		{
			name:      "not json",
			config:    "just a string",
			wantError: "Invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, dir, strings.ReplaceAll(tt.name, " ", "_"), tt.config)
			result := validateFile(path)

			if result.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (errors %v)", result.Valid, tt.valid, result.Errors)
			}
			if tt.wantError != "" {
				if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], tt.wantError) {
					t.Errorf("Expected error containing %q, got %v", tt.wantError, result.Errors)
				}
			}
			if diff := cmp.Diff(tt.wantWarnings, result.Warnings); diff != "" {
				t.Errorf("warnings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateFileMissing(t *testing.T) {
	result := validateFile(filepath.Join(t.TempDir(), "nope.json"))
	if result.Valid || len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Failed to read file") {
		t.Errorf("Unexpected result %+v", result)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a", engine.BoardConfig{Name: "A", Description: "d", Rows: 1, Cols: 2, Layout: []string{"SE"}})
	writeConfig(t, dir, "b", engine.BoardConfig{Name: "B", Description: "d", Rows: 1, Cols: 2, Layout: []string{"EE"}})

	out, err := runApp(t, "--config-dir", dir, "validate")
	if err == nil {
		t.Error("Expected error when a configuration is invalid")
	}
	for _, want := range []string{"✅ a.json", "❌ b.json", "1 of 2 configurations valid"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}

	// Explicit files bypass the directory scan
	out, err = runApp(t, "validate", filepath.Join(dir, "a.json"))
	if err != nil {
		t.Fatalf("validate a.json failed: %v", err)
	}
	if !strings.Contains(out, "1 of 1 configurations valid") {
		t.Errorf("Unexpected output:\n%s", out)
	}
}

func TestValidateCommandEmptyDir(t *testing.T) {
	if _, err := runApp(t, "--config-dir", t.TempDir(), "validate"); err == nil {
		t.Error("Expected error for directory without configs")
	}
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "tiny", engine.BoardConfig{
		Name: "Tiny", Description: "d", Rows: 3, Cols: 3, Layout: []string{"S..", ".#.", "..E"},
	})

	out, err := runApp(t, "--config-dir", dir, "analyze")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	for _, want := range []string{
		"=== Analyzing tiny.json ===",
		"Grid: 3 x 3 (8 open, 1 blocked)",
		"Regions: 1 (largest 8 cells)",
		"Shortest path: 4 steps (Manhattan 4, detour 0,",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "disagree") {
		t.Errorf("Unexpected disagreement:\n%s", out)
	}
}

func TestSolveCommand(t *testing.T) {
	out, err := runApp(t, "solve", "S..", ".#.", "..E")
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	expected := "S>v\n.#v\n..E\nPath found: 4 steps.\nRoute: (0,0) -> (0,1) -> (0,2) -> (1,2) -> (2,2)\n"
	if !strings.HasPrefix(out, expected) {
		t.Errorf("Unexpected output:\n%s", out)
	}

	out, err = runApp(t, "solve", "S#E")
	if err == nil || !strings.Contains(err.Error(), string(engine.KindNotFound)) {
		t.Errorf("Expected not_found error, got %v", err)
	}
	if !strings.Contains(out, "No path found.") {
		t.Errorf("Expected user message in output:\n%s", out)
	}

	if _, err := runApp(t, "solve"); err == nil {
		t.Error("Expected error without layout")
	}
	if _, err := runApp(t, "solve", "S..", "E"); err == nil {
		t.Error("Expected error for ragged layout")
	}
}

func TestSolveCommandFromFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "line", engine.BoardConfig{
		Name: "Line", Description: "d", Rows: 1, Cols: 4, Layout: []string{"S..E"},
	})

	out, err := runApp(t, "solve", "--file", path)
	if err != nil {
		t.Fatalf("solve --file failed: %v", err)
	}
	if !strings.HasPrefix(out, "S>>E\n") {
		t.Errorf("Unexpected rendering:\n%s", out)
	}
}
