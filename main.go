// Command pathfinder starts the grid pathfinder server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config and session directories, logging, version
// output, and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/pathfinder/api"
	"github.com/wricardo/mcp-training/pathfinder/grid/config"
	"github.com/wricardo/mcp-training/pathfinder/grid/service"
	"github.com/wricardo/mcp-training/pathfinder/grid/session"
	"github.com/wricardo/mcp-training/pathfinder/logging"
	"github.com/wricardo/mcp-training/pathfinder/transport/mcp"
	"github.com/wricardo/mcp-training/pathfinder/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Grid Pathfinder Server"
)

const (
	sessionMaxAge       = 24 * time.Hour
	sessionCleanupEvery = time.Hour
	filesystemSyncEvery = 5 * time.Second
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	configDir    = flag.String("config-dir", "configs", "Directory containing board configurations (env CONFIG_DIR)")
	sessionsDir  = flag.String("sessions-dir", "sessions", "Directory for persisted sessions (env SESSIONS_DIR)")
	logLevel     = flag.String("log-level", "info", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	logFormat    = flag.String("log-format", "text", "Log format: text or json (env LOG_FORMAT)")
	debug        = flag.Bool("debug", false, "Enable debug logging (same as -log-level debug)")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// envFlags maps flags to the environment variables that override their defaults.
var envFlags = map[string]string{
	"config-dir":   "CONFIG_DIR",
	"sessions-dir": "SESSIONS_DIR",
	"log-level":    "LOG_LEVEL",
	"log-format":   "LOG_FORMAT",
}

// applyEnvDefaults copies environment overrides into fs. Command line flags
// parsed afterwards still win.
func applyEnvDefaults(fs *flag.FlagSet) error {
	for name, key := range envFlags {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -log-format json   # Structured logs\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	if err := applyEnvDefaults(flag.CommandLine); err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(2)
	}
	flag.Parse()

	// Show version if requested
	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	// Determine mode from command
	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}

	logger := newLogger(mode)
	slog.SetDefault(logger)

	if envErr == nil {
		logger.Info("loaded environment variables from .env file")
	} else if !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("error loading .env file", "error", envErr)
	}

	logger.Info("starting", "app", AppName, "version", Version, "mode", mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boardService, err := initializeServices(ctx, logger)
	if err != nil {
		logger.Error("failed to initialize services", "error", err)
		os.Exit(1)
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		if err := runStdioMCPWithInternalServer(ctx, boardService, logger); err != nil {
			logger.Error("MCP stdio server error", "error", err)
			os.Exit(1)
		}

	case "server", "http":
		if err := runHTTPServer(ctx, boardService, logger); err != nil {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}

	default:
		logger.Error("unknown mode, use 'server' (default) or 'stdio-mcp'", "mode", mode)
		os.Exit(2)
	}
}

// newLogger builds the process logger. Stdio MCP speaks on stdout, so logs go to stderr there.
func newLogger(mode string) *slog.Logger {
	level := *logLevel
	if *debug {
		level = "debug"
	}

	var w io.Writer = os.Stdout
	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		w = os.Stderr
	}

	return logging.New(w, logging.Options{
		Level:     level,
		Format:    *logFormat,
		AddSource: *debug,
	})
}

// mcpHandler serves single JSON-RPC messages for the MCP client over HTTP.
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter combines the REST API with the /mcp endpoint.
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHandler(mcpClient))
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(ctx context.Context, boardService service.BoardService, logger *slog.Logger) error {
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	apiServer := api.NewServer(boardService, hub, logger)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serverErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			"addr", addr,
			"api", fmt.Sprintf("http://%s/api", addr),
			"websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if ngrokRequested() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, mainRouter, logger)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	wg.Wait()
	logger.Info("server stopped")
	return runErr
}

// ngrokRequested reports whether the tunnel is enabled by flag or NGROK_ENABLED.
func ngrokRequested() bool {
	if *ngrokEnabled {
		return true
	}
	env := os.Getenv("NGROK_ENABLED")
	return env == "true" || env == "1"
}

// ngrokAuthToken resolves the auth token from flag or environment (both spellings).
func ngrokAuthToken() string {
	if *ngrokAuth != "" {
		return *ngrokAuth
	}
	if token := os.Getenv("NGROK_AUTHTOKEN"); token != "" {
		return token
	}
	return os.Getenv("NGROK_AUTH_TOKEN")
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled.
func runNgrok(ctx context.Context, handler http.Handler, logger *slog.Logger) {
	logger = logger.With("component", "ngrok")

	authToken := ngrokAuthToken()
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN)")
		return
	}

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		logger.Info("using custom ngrok domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", "error", err)
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Error("failed to close ngrok tunnel", "error", err)
		}
	}()

	ngrokURL := tun.URL()
	logger.Info("ngrok tunnel established",
		"url", ngrokURL,
		"api", ngrokURL+"/api",
		"websocket", ngrokURL+"/ws?session=<session_id>",
		"mcp", ngrokURL+"/mcp")

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("ngrok server error", "error", err)
	}
	logger.Info("ngrok tunnel closed")
}

// initializeServices wires session/config managers and the board service.
// It also starts background routines, bound to ctx, that prune stale sessions.
func initializeServices(ctx context.Context, logger *slog.Logger) (service.BoardService, error) {
	// Config manager first; persistence needs it to rebuild boards
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(*sessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)

	if err := sessionManager.LoadPersistedSessions(); err != nil {
		logger.Warn("failed to load persisted sessions", "error", err)
	}

	boardService := service.NewBoardService(sessionManager, configManager, logger)

	go sessionCleanupRoutine(ctx, sessionManager, logger)
	go filesystemSyncRoutine(ctx, sessionManager, persistence, logger)

	return boardService, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, logger *slog.Logger) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				logger.Info("cleaned up expired sessions", "count", removed)
			}
		}
	}
}

// filesystemSyncRoutine periodically removes sessions from memory whose files were deleted.
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence, logger *slog.Logger) {
	if persistence == nil {
		return
	}

	ticker := time.NewTicker(filesystemSyncEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := syncWithFilesystem(manager, persistence, logger); pruned > 0 {
				logger.Info("filesystem sync pruned orphaned sessions", "count", pruned)
			}
		}
	}
}

// syncWithFilesystem drops in-memory sessions that no longer have a file.
func syncWithFilesystem(manager *session.Manager, persistence session.SessionPersistence, logger *slog.Logger) int {
	pruned := 0
	for _, sess := range manager.List() {
		if persistence.Exists(sess.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(sess.ID); err == nil {
			pruned++
			logger.Debug("pruned session from memory (file deleted)", "session_id", sess.ID)
		}
	}
	return pruned
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, boardService service.BoardService, logger *slog.Logger) error {
	const externalURL = "http://localhost:8080"

	baseURL := externalURL
	if !apiAvailable(externalURL) {
		logger.Info("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(logger)
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(boardService, hub, logger)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", "error", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
	}

	logger.Info("MCP stdio server ready", "api", baseURL)
	return server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer())
}

// apiAvailable probes the health endpoint of a running server.
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
