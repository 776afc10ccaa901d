package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the artifact index",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the artifact index from the audio directory",
	Long: `Walks <audio_root>/<language_code>, parses every file name that follows the
Record_<id>_<category>_<variant>_<title>.<ext> convention and replaces the
persisted artifact index with the result.`,
	RunE: runIndexRebuild,
}

func init() {
	indexCmd.AddCommand(indexRebuildCmd)
	RootCmd.AddCommand(indexCmd)
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	stores := openStateStores(cfg, l)
	root := languageRoot(cfg)

	report, err := (&indexRebuild{stores: stores, root: root}).RebuildIndex()
	if err != nil {
		return fmt.Errorf("failed to rebuild artifact index from %s: %w", root, err)
	}

	l.Info("Artifact index rebuilt",
		zap.String("root", root),
		zap.String("index", stores.indexStore.Path()),
		zap.Int("indexed", report.Indexed),
		zap.Int("skipped", report.Skipped),
	)
	for _, e := range report.Errors {
		l.Warn("Unreadable entry", zap.String("error", e))
	}
	return nil
}
