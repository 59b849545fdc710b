package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zerpitt/prompt-keeper-project/pkg/logger"
)

var backupUser string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or restore a user's prompt collection",
	Long: `Backups are JSON archives of a user's categories and prompts, history
included, stored in the configured MinIO bucket under backups/<user>/.`,
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the user's collection to object storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackups(cmd.Context(), func(rt *runtime) error {
			key, err := rt.backups.Export(cmd.Context(), backupUser)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		})
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [key]",
	Short: "Import an archive into the user's collection (latest when no key is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withBackups(cmd.Context(), func(rt *runtime) error {
			ctx := cmd.Context()
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				latest, err := rt.backups.Latest(ctx, backupUser)
				if err != nil {
					return err
				}
				if latest == "" {
					return fmt.Errorf("no backups found for %s", backupUser)
				}
				key = latest
			}
			res, err := rt.backups.Restore(ctx, backupUser, key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d prompts and %d categories from %s\n", res.Prompts, res.Categories, key)
			return nil
		})
	},
}

func withBackups(ctx context.Context, fn func(rt *runtime) error) error {
	if backupUser == "" {
		return errors.New("--user is required")
	}
	rt, err := openRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close(context.Background())
	if rt.backups == nil {
		return errors.New("object storage is not configured (set MINIO_ENDPOINT)")
	}
	if !rt.cfg.MongoDB.Enabled() {
		logger.Warnf("no MongoDB configured; the backup reflects an empty in-memory store")
	}
	return fn(rt)
}

func init() {
	backupCmd.PersistentFlags().StringVar(&backupUser, "user", "", "owner (token subject) of the collection")
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupRestoreCmd)
}
