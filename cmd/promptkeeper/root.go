package main

import (
	"github.com/spf13/cobra"

	"github.com/zerpitt/prompt-keeper-project/internal/config"
	"github.com/zerpitt/prompt-keeper-project/pkg/logger"
)

var (
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "promptkeeper",
	Short: "Personal library of reusable, templated AI prompts",
	Long: `promptkeeper stores multi-step prompt workflows with named [variables],
keeps a version history of every edit, and serves a filtered, live-updating
catalog over HTTP.

Configuration is read from the environment (and an optional .env file):
  MONGODB_URI        document store (in-memory when unset)
  REDIS_HOST         live updates across instances and shared rate limits
  KEYCLOAK_URL       OIDC issuer base, with KEYCLOAK_REALM and KEYCLOAK_CLIENT_ID
  MINIO_ENDPOINT     object storage for collection backups`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.LogLevel = logLevel
		}
		logger.Init(loaded.LogLevel)
		logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default: LOG_LEVEL or info)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
}
