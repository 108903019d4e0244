package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Warnings never make a file invalid.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

// validateFile loads and validates a single configuration file, then checks
// that a path exists when both endpoints are placed.
func validateFile(path string) ValidationResult {
	result := ValidationResult{File: filepath.Base(path), Valid: true}

	fail := func(format string, args ...any) ValidationResult {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, args...))
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail("Failed to read file: %v", err)
	}

	var config engine.BoardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return fail("Invalid JSON: %v", err)
	}

	if err := engine.ValidateBoardConfig(&config); err != nil {
		return fail("%v", err)
	}

	grid, err := engine.NewGridFromConfig(&config)
	if err != nil {
		return fail("%v", err)
	}

	if len(config.Layout) == 0 {
		result.Warnings = append(result.Warnings, "No layout: board starts all open")
	}

	a := analyzeGrid(grid)
	switch {
	case !a.HasStart || !a.HasEnd:
		result.Warnings = append(result.Warnings, "Start or end not placed")
	case a.Outcome == engine.KindCorruptPath:
		return fail("Pathfinder returned a corrupt path")
	case !a.Found():
		result.Warnings = append(result.Warnings, fmt.Sprintf("End %s is unreachable from start %s", a.End, a.Start))
	}

	return result
}
