package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/cerfaos/analyse/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbosity    int
	dbPath       string
	mcpPort      int
	syncInterval time.Duration
	noSync       bool
	syncUserID   int64

	apiBaseURL      string
	apiTokenURL     string
	apiClientID     string
	apiClientSecret string
	apiRefreshToken string
)

var rootCmd = &cobra.Command{
	Use:   "analyse",
	Short: "Training analytics server - period reports over your activity history",
	Long: `analyse keeps a local SQLite copy of your training history and builds
monthly and annual analytics reports from it: totals, heart-rate zone
distribution, CTL/ATL training load, top activities, personal records,
and per-type breakdowns.

The server runs with:
- Periodic delta sync of activities, records, and profile from the export API
- MCP server exposing the report tools to AI assistants (stdio or HTTP/SSE)

Export API credentials come from the --api-* flags or the matching
ANALYSE_API_* environment variables. Use --no-sync to serve reports from
an existing database without touching the API.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logging.Level(verbosity))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rtCfg := &RuntimeConfig{
			DBPath:       dbPath,
			MCPPort:      mcpPort,
			SyncInterval: syncInterval,
			NoSync:       noSync,
			SyncUserID:   syncUserID,
			API: APIConfig{
				BaseURL:      apiBaseURL,
				TokenURL:     apiTokenURL,
				ClientID:     apiClientID,
				ClientSecret: apiClientSecret,
				RefreshToken: apiRefreshToken,
			},
		}
		return Run(rtCfg)
	},
}

func init() {
	// Logging verbosity
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-v for debug, -vv for trace with HTTP details)")

	// Runtime settings as CLI flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "analyse.db", "path to SQLite database file")
	rootCmd.PersistentFlags().IntVarP(&mcpPort, "port", "p", 8080, "MCP server port (0 for stdio mode)")
	rootCmd.PersistentFlags().DurationVar(&syncInterval, "sync-interval", 15*time.Minute, "interval between export API syncs")
	rootCmd.PersistentFlags().Int64Var(&syncUserID, "user", 1, "user id to sync and report on")

	// Offline mode
	rootCmd.PersistentFlags().BoolVar(&noSync, "no-sync", false, "serve reports from the local database only, without export API sync")

	// Export API access
	rootCmd.PersistentFlags().StringVar(&apiBaseURL, "api-base-url", envOr("ANALYSE_API_BASE_URL", ""), "export API base URL")
	rootCmd.PersistentFlags().StringVar(&apiTokenURL, "api-token-url", envOr("ANALYSE_API_TOKEN_URL", ""), "export API OAuth token URL")
	rootCmd.PersistentFlags().StringVar(&apiClientID, "api-client-id", envOr("ANALYSE_API_CLIENT_ID", ""), "export API OAuth client id")
	rootCmd.PersistentFlags().StringVar(&apiClientSecret, "api-client-secret", envOr("ANALYSE_API_CLIENT_SECRET", ""), "export API OAuth client secret")
	rootCmd.PersistentFlags().StringVar(&apiRefreshToken, "api-refresh-token", envOr("ANALYSE_API_REFRESH_TOKEN", ""), "export API OAuth refresh token")

	rootCmd.AddCommand(reportCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
