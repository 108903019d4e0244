// Package config provides board configuration management for the pathfinder.
//
// Board configurations are JSON files in a config directory. The file name
// without its extension is the config id used when creating a session:
//
//	{
//	  "name": "Maze",
//	  "description": "Winding corridors",
//	  "rows": 5,
//	  "cols": 7,
//	  "layout": ["S.#....", ".##.##.", "...#...", ".#...#.", ".#.#.#E"]
//	}
//
// Layout characters are '.' open, 'S' start, 'E' end and '#' blocked. A
// missing layout describes an all-open board of the given size.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	maze, err := manager.LoadConfig("maze")
//	configs, err := manager.ListConfigs()
//	def := manager.GetDefault()
//
// The default configuration is classic.json when present, otherwise the first
// valid file, otherwise an empty 9x16 board.
package config
