package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"quest-sync/core/artifact"
	"quest-sync/core/database"
	"quest-sync/core/source"
	"quest-sync/core/storage"
	"quest-sync/feature/integrity"
	"quest-sync/feature/quest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	fixFlag  bool
	jsonFlag bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the storage bucket, the catalog table and the artifact index",
	Long: `Checks that the enrichment bucket and catalog object exist, that the quest
catalog table exposes the expected columns and that the artifact index matches
the audio directory. With --fix a missing bucket is created and the artifact
index is rebuilt from disk.`,
	RunE: runIntegrityChecks,
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create a missing bucket and rebuild the artifact index")
	integrityCmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the full report as JSON")
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrityChecks(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	cfg, l, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer l.Sync()

	stores := openStateStores(cfg, l)

	var db *gorm.DB
	if cfg.Sources.AType == source.BackendDatabase {
		if conn, err := database.Connect(cfg.Database); err != nil {
			l.Warn("Database connection failed", zap.Error(err))
		} else {
			db = conn
		}
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		l.Warn("Storage client unavailable", zap.Error(err))
	}

	svc := integrity.NewService(integrity.Targets{
		Client:        client,
		Bucket:        cfg.Storage.Bucket,
		CatalogObject: catalogObject(cfg.Sources),
		DB:            db,
		Table:         cfg.Sources.ATable,
		Model:         quest.Row{},
		Required:      quest.RequiredColumns,
		Fs:            stores.fs,
		ArtifactRoot:  languageRoot(cfg),
		Index:         stores.index,
		Rebuilder:     &indexRebuild{stores: stores, root: languageRoot(cfg)},
	}, l)

	report := svc.CheckAll(cmd.Context(), fixFlag)

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	failed := 0
	for _, name := range []string{"storage", "database", "artifacts"} {
		status := statusOf(report[name])
		if status == "error" {
			failed++
		}
		l.Info("Integrity check", zap.String("check", name), zap.String("status", status), zap.Any("report", report[name]))
	}
	l.Info("Integrity checks finished", zap.Duration("took", time.Since(startTime)), zap.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d integrity checks failed", failed)
	}
	return nil
}

// indexRebuild rebuilds and saves the index without the full sync runtime.
type indexRebuild struct {
	stores *stateStores
	root   string
}

func (r *indexRebuild) RebuildIndex() (artifact.ScanReport, error) {
	report, err := r.stores.index.Rebuild(r.stores.fs, r.root)
	if err != nil {
		return report, err
	}
	return report, r.stores.indexStore.Save(r.stores.index)
}

// catalogObject is the enrichment object to probe, empty when source B is not in storage.
func catalogObject(cfg source.Config) string {
	if cfg.BType == source.BackendStorage {
		return cfg.BObject
	}
	return ""
}

func statusOf(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "error"
	}
	var s struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return "error"
	}
	return s.Status
}
