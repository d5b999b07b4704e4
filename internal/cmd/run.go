package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cerfaos/analyse/internal/logging"
	"github.com/cerfaos/analyse/internal/report"
	"github.com/cerfaos/analyse/internal/server"
	"github.com/cerfaos/analyse/internal/store"
	syncsvc "github.com/cerfaos/analyse/internal/sync"
	"github.com/cerfaos/analyse/internal/workers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

// APIConfig holds export API credentials from CLI flags or environment
type APIConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// RuntimeConfig holds all runtime configuration from CLI flags
type RuntimeConfig struct {
	DBPath       string
	MCPPort      int
	SyncInterval time.Duration
	NoSync       bool
	SyncUserID   int64
	API          APIConfig
}

// Run is the main entry point for the unified run mode
func Run(cfg *RuntimeConfig) error {
	logging.Info("starting analyse",
		"db_path", cfg.DBPath,
		"mcp_port", cfg.MCPPort,
		"no_sync", cfg.NoSync,
		"user_id", cfg.SyncUserID,
		"sync_interval", cfg.SyncInterval.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logging.Info("received shutdown signal", "signal", sig.String())
		cancel()
	}()

	logging.Info("opening database", "path", cfg.DBPath)
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	if count, err := st.CountActivities(ctx); err == nil {
		logging.Info("database ready", "activities", count)
	}

	g, gCtx := errgroup.WithContext(ctx)

	if !cfg.NoSync {
		if err := validateAPIConfig(cfg.API); err != nil {
			return err
		}

		client := syncsvc.NewClient(syncsvc.Config{
			BaseURL:      cfg.API.BaseURL,
			TokenURL:     cfg.API.TokenURL,
			ClientID:     cfg.API.ClientID,
			ClientSecret: cfg.API.ClientSecret,
			RefreshToken: cfg.API.RefreshToken,
		})
		service := syncsvc.NewService(st, client)

		logging.Info("starting background workers")
		syncer := workers.NewSyncer(service, cfg.SyncUserID, cfg.SyncInterval)
		g.Go(func() error {
			syncer.Run(gCtx)
			return nil
		})
	} else {
		logging.Info("running in offline mode (--no-sync), skipping export API sync")
	}

	generator := report.NewGenerator(st, st, st)
	srv := server.New(generator)

	var serverErr error
	if cfg.MCPPort > 0 {
		serverErr = runHTTPServer(ctx, srv.MCPServer(), cfg.MCPPort)
	} else {
		logging.Info("MCP server running via stdio")
		serverErr = srv.Run(ctx)
	}

	if !cfg.NoSync {
		logging.Info("waiting for workers to shut down")
		if err := g.Wait(); err != nil {
			logging.Warn("worker error during shutdown", "error", err.Error())
		} else {
			logging.Info("all workers shut down gracefully")
		}
	}

	return serverErr
}

func validateAPIConfig(api APIConfig) error {
	switch {
	case api.BaseURL == "":
		return fmt.Errorf("export API base URL is required (--api-base-url or ANALYSE_API_BASE_URL), or pass --no-sync")
	case api.TokenURL == "":
		return fmt.Errorf("export API token URL is required (--api-token-url or ANALYSE_API_TOKEN_URL)")
	case api.ClientID == "" || api.ClientSecret == "":
		return fmt.Errorf("export API client credentials are required (--api-client-id / --api-client-secret)")
	case api.RefreshToken == "":
		return fmt.Errorf("export API refresh token is required (--api-refresh-token or ANALYSE_API_REFRESH_TOKEN)")
	}
	return nil
}

// runHTTPServer runs the MCP server over HTTP/SSE
func runHTTPServer(ctx context.Context, mcpServer *mcp.Server, port int) error {
	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	addr := fmt.Sprintf(":%d", port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errChan := make(chan error, 1)
	go func() {
		logging.Info("MCP server running via HTTP/SSE",
			"address", addr,
			"endpoint", fmt.Sprintf("http://localhost%s", addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logging.Info("shutting down HTTP server")
		return httpServer.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}
