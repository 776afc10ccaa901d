package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect or reset the committed snapshot",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the committed snapshot metadata",
	RunE:  runSnapshotShow,
}

var snapshotResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the committed snapshot so the next scan treats every quest as new",
	RunE:  runSnapshotReset,
}

func init() {
	snapshotResetCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotResetCmd)
	RootCmd.AddCommand(snapshotCmd)
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	stores := openStateStores(cfg, l)
	snap := stores.repo.Load()
	if snap == nil {
		l.Info("No snapshot committed yet", zap.String("dir", stores.repo.Dir()))
		return nil
	}

	fields := []zap.Field{
		zap.String("data_version", snap.DataVersion),
		zap.Time("created_at", snap.CreatedAt),
		zap.Int("entries", len(snap.Entries)),
		zap.Int("artifacts", stores.index.Len()),
		zap.Strings("backups", stores.repo.Backups()),
	}
	if meta := stores.repo.LoadMeta(); meta != nil {
		fields = append(fields,
			zap.Time("last_sync_at", meta.LastSyncAt),
			zap.Int("total_artifacts", meta.TotalArtifactsGenerated),
		)
	}
	l.Info("Committed snapshot", fields...)
	return nil
}

func runSnapshotReset(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	stores := openStateStores(cfg, l)
	if !stores.repo.Exists() {
		l.Info("No snapshot to reset", zap.String("dir", stores.repo.Dir()))
		return nil
	}

	if !confirmDestructiveAction("The committed snapshot will be deleted and every quest will be regenerated on the next run.") {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	if err := stores.repo.Delete(); err != nil {
		return fmt.Errorf("failed to reset snapshot: %w", err)
	}
	l.Info("Snapshot reset", zap.String("dir", stores.repo.Dir()))
	return nil
}
