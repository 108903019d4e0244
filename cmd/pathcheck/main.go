// Command pathcheck inspects board configuration files offline.
//
//	pathcheck validate [files...]   check JSON structure, size and labels
//	pathcheck analyze [files...]    connectivity and shortest path summary
//	pathcheck solve S.# ..E         solve a layout given as rows
//
// Without file arguments, validate and analyze read every *.json file in
// --config-dir (default "configs", env CONFIG_DIR).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/pathfinder/grid/engine"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "pathcheck",
		Usage:  "validate, analyze and solve pathfinder board configurations",
		Writer: w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory scanned when no files are given",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check configuration files",
				ArgsUsage: "[files...]",
				Action:    validateAction,
			},
			{
				Name:      "analyze",
				Usage:     "print connectivity and shortest path details",
				ArgsUsage: "[files...]",
				Action:    analyzeAction,
			},
			{
				Name:      "solve",
				Usage:     "solve a layout given as rows of . # S E",
				ArgsUsage: "ROW [ROW...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "solve the layout of a configuration file instead",
					},
				},
				Action: solveAction,
			},
		},
	}
}

// out is the writer of the root command; subcommands do not carry their own
func out(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

// configFiles returns the explicit arguments, or every JSON file in the config dir
func configFiles(cmd *cli.Command) ([]string, error) {
	if cmd.Args().Len() > 0 {
		return cmd.Args().Slice(), nil
	}

	dir := cmd.String("config-dir")
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no configuration files in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func validateAction(ctx context.Context, cmd *cli.Command) error {
	w := out(cmd)
	files, err := configFiles(cmd)
	if err != nil {
		return err
	}

	invalid := 0
	for _, file := range files {
		result := validateFile(file)
		if result.Valid {
			fmt.Fprintf(w, "✅ %s\n", result.File)
		} else {
			invalid++
			fmt.Fprintf(w, "❌ %s\n", result.File)
		}
		for _, msg := range result.Errors {
			fmt.Fprintf(w, "   - %s\n", msg)
		}
		for _, msg := range result.Warnings {
			fmt.Fprintf(w, "   ! %s\n", msg)
		}
	}

	fmt.Fprintf(w, "\n%d of %d configurations valid\n", len(files)-invalid, len(files))
	if invalid > 0 {
		return fmt.Errorf("%d invalid configuration(s)", invalid)
	}
	return nil
}

func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	w := out(cmd)
	files, err := configFiles(cmd)
	if err != nil {
		return err
	}

	for _, file := range files {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", filepath.Base(file))

		config, err := engine.LoadBoardConfig(file)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}
		grid, err := engine.NewGridFromConfig(config)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			continue
		}

		writeAnalysis(w, config.Name, analyzeGrid(grid))
	}
	return nil
}

func solveAction(ctx context.Context, cmd *cli.Command) error {
	w := out(cmd)
	config := &engine.BoardConfig{Name: "command line", Description: "layout from arguments"}

	if file := cmd.String("file"); file != "" {
		loaded, err := engine.LoadBoardConfig(file)
		if err != nil {
			return err
		}
		config = loaded
	} else {
		if cmd.Args().Len() == 0 {
			return errors.New("solve needs layout rows or --file")
		}
		config.Layout = cmd.Args().Slice()
		config.Rows = len(config.Layout)
		config.Cols = len(config.Layout[0])
	}

	board, err := engine.NewBoard(config)
	if err != nil {
		return err
	}

	result, err := board.FindPath()
	fmt.Fprint(w, board.Render())
	fmt.Fprintln(w, board.Message)
	if err != nil {
		return fmt.Errorf("%s: %w", engine.KindOf(err), err)
	}

	steps := make([]string, 0, len(result.Path))
	for _, c := range result.Path {
		steps = append(steps, c.String())
	}
	fmt.Fprintf(w, "Route: %s\n", strings.Join(steps, " -> "))
	fmt.Fprintf(w, "Expanded: %d\n", result.Expanded)
	return nil
}
