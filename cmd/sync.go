package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quest-sync/core/snapshot"
	"quest-sync/core/syncer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// previewLimit is how many candidates a dry run prints.
const previewLimit = 20

var (
	fullSync   bool
	exportSync bool
	repairSync bool
	dryRunSync bool
	syncIDs    []int
)

// syncCmd is the parent command for the scan/apply workflow.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Detect changed quests and regenerate their narration",
}

var syncScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Report new, changed and removed quests (nothing is written)",
	RunE:  runSyncScan,
}

var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan, synthesize the regeneration set and commit the snapshot",
	Long: `Scan both sources, diff against the committed snapshot, synthesize narration
for new and changed quests and commit the new snapshot.

Examples:
  # Preview the regeneration set
  sync run --dry-run

  # Regenerate new and changed quests without prompting
  sync run --yes

  # Full resync: also regenerate unchanged quests whose audio is missing
  sync run --full --yes

  # Only two quests, then upload the audio to object storage
  sync run --id 101 --id 102 --export --yes`,
	RunE: runSyncRun,
}

func init() {
	syncRunCmd.Flags().BoolVar(&fullSync, "full", false, "Consider unchanged quests too (regenerate missing artifacts)")
	syncRunCmd.Flags().BoolVar(&repairSync, "repair", false, "Repair missing artifacts of unchanged quests")
	syncRunCmd.Flags().BoolVar(&exportSync, "export", false, "Upload written artifacts to object storage after commit")
	syncRunCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Print the regeneration set without synthesizing or committing")
	syncRunCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm synthesis (non-interactive)")
	syncRunCmd.Flags().IntSliceVar(&syncIDs, "id", nil, "Restrict regeneration to these quest ids (repeatable)")

	syncCmd.AddCommand(syncScanCmd)
	syncCmd.AddCommand(syncRunCmd)
	RootCmd.AddCommand(syncCmd)
}

// signalContext is cancelled on SIGINT or SIGTERM so a running apply stops cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSyncScan(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	rt, err := newRuntime(cfg, l)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	scan, err := rt.orchestrator.Scan(ctx)
	if err != nil {
		return err
	}
	if !scan.Success {
		return fmt.Errorf("scan failed: %s", scan.Error)
	}
	printScanReport(l, scan)
	return nil
}

func runSyncRun(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	rt, err := newRuntime(cfg, l)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Step 1: Scan (always runs)
	scan, err := rt.orchestrator.Scan(ctx)
	if err != nil {
		return err
	}
	if !scan.Success {
		return fmt.Errorf("scan failed: %s", scan.Error)
	}
	printScanReport(l, scan)

	// Step 2: Plan
	opts := cfg.Sync.ApplyOptions()
	if fullSync {
		opts.OnlyNewAndChanged = false
	}
	if cmd.Flags().Changed("repair") {
		opts.RepairMissing = repairSync
	}
	if cmd.Flags().Changed("export") {
		opts.AutoExport = exportSync
	}
	opts.IDs = syncIDs

	plan := rt.orchestrator.Plan(scan, opts)
	if dryRunSync {
		printPlanPreview(plan)
		l.Info("Dry-run mode: nothing was synthesized or committed.")
		return nil
	}

	// Step 3: Apply (if confirmed)
	if len(plan) > 0 && !confirmDestructiveAction(fmt.Sprintf("%d quests will be sent to %s.", len(plan), rt.synthesizer.Name())) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	res, err := rt.orchestrator.Apply(ctx, scan, opts)
	if err != nil {
		return err
	}
	printApplyReport(l, res)

	switch {
	case res.Cancelled:
		return errors.New("apply cancelled, snapshot not committed")
	case !res.Success:
		return fmt.Errorf("apply finished with errors: %s", res.Error)
	}
	return nil
}

// printScanReport prints the diff counts and a few sample entries.
func printScanReport(l *zap.Logger, scan *syncer.ScanResult) {
	s := scan.Summary
	c := scan.Diff.Counts

	l.Info("Scan report",
		zap.Int("source_a", s.SourceA),
		zap.Int("source_b", s.SourceB),
		zap.Bool("source_b_available", s.SourceBAvailable),
		zap.Int("enriched", s.Enriched),
		zap.Int("dropped_b_only", s.DroppedBOnly),
		zap.String("old_version", scan.Diff.OldDataVersion),
		zap.String("new_version", scan.Diff.NewDataVersion),
		zap.Int("new", c.New),
		zap.Int("changed", c.Changed),
		zap.Int("removed", c.Removed),
		zap.Int("unchanged", c.Unchanged),
	)

	changes := scan.Diff.Filter(snapshot.DiffNew, snapshot.DiffChanged, snapshot.DiffRemoved)
	maxShow := 5
	if len(changes) < maxShow {
		maxShow = len(changes)
	}
	for _, e := range changes[:maxShow] {
		l.Info("Sample change",
			zap.String("type", e.DiffType.String()),
			zap.Int("quest_id", e.QuestID),
			zap.String("title", e.Title),
			zap.String("zone", e.Zone),
		)
	}
	if len(changes) > maxShow {
		l.Info("Additional changes not shown", zap.Int("count", len(changes)-maxShow))
	}
}

// printPlanPreview lists the first candidates of a dry run.
func printPlanPreview(plan []syncer.Candidate) {
	fmt.Printf("\n%d quests would be regenerated:\n", len(plan))
	shown := plan
	if len(shown) > previewLimit {
		shown = shown[:previewLimit]
	}
	for _, c := range shown {
		fmt.Printf("  [%s] %d %s (%s) %v\n", c.DiffType, c.QuestID, c.Title, c.Zone, c.Variants)
	}
	if len(plan) > previewLimit {
		fmt.Printf("  ... and %d more\n", len(plan)-previewLimit)
	}
}

// printApplyReport prints the apply totals and up to five failures.
func printApplyReport(l *zap.Logger, res *syncer.ApplyResult) {
	l.Info("Apply report",
		zap.Bool("success", res.Success),
		zap.Bool("committed", res.Committed),
		zap.Bool("cancelled", res.Cancelled),
		zap.Int("selected", res.Selected),
		zap.Int("synthesized", res.Synthesized),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", len(res.Failures)),
		zap.String("data_version", res.DataVersion),
		zap.Bool("exported", res.Exported),
		zap.Duration("took", res.FinishedAt.Sub(res.StartedAt)),
	)

	maxShow := 5
	if len(res.Failures) < maxShow {
		maxShow = len(res.Failures)
	}
	for _, f := range res.Failures[:maxShow] {
		l.Warn("Failed synthesis",
			zap.Int("quest_id", f.QuestID),
			zap.String("variant", string(f.Variant)),
			zap.String("error", f.Error),
		)
	}
	if len(res.Failures) > maxShow {
		l.Warn("Additional failures not shown", zap.Int("count", len(res.Failures)-maxShow))
	}
}
