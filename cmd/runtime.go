package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quest-sync/core/artifact"
	"quest-sync/core/config"
	"quest-sync/core/database"
	"quest-sync/core/logger"
	"quest-sync/core/reconcile"
	"quest-sync/core/snapshot"
	"quest-sync/core/source"
	"quest-sync/core/storage"
	"quest-sync/core/syncer"
	"quest-sync/core/synth"
	"quest-sync/core/utils"
	"quest-sync/feature/quest"
	syncfeature "quest-sync/feature/sync"
)

// stateStores are the local files the sync workflow owns.
type stateStores struct {
	fs         afero.Fs
	repo       *snapshot.Repository
	index      *artifact.Index
	indexStore *artifact.Store
}

// runtime is the fully wired sync workflow.
type runtime struct {
	*stateStores
	cfg          *config.Config
	logger       *zap.Logger
	db           *gorm.DB
	client       storage.Client
	a, b         source.Source
	reconciler   *reconcile.Reconciler
	synthesizer  synth.Synthesizer
	orchestrator *syncer.Orchestrator
}

// openStateStores opens the snapshot repository and loads the artifact index.
// A corrupt index file is rebuilt from the files on disk.
func openStateStores(cfg *config.Config, l *zap.Logger) *stateStores {
	fs := afero.NewOsFs()
	clock := utils.RealClock{}
	lang := cfg.Sync.LanguageCode

	repo := snapshot.NewRepository(fs, cfg.Sync.OutputRoot, lang, clock, l)
	indexStore := artifact.NewStore(fs, repo.Dir(), clock)

	index, err := indexStore.Load(lang)
	if err != nil {
		l.Warn("Artifact index unreadable, rebuilding from disk", zap.String("path", indexStore.Path()), zap.Error(err))
		index = artifact.NewIndex(lang)
		if _, err := index.Rebuild(fs, languageRoot(cfg)); err != nil {
			l.Warn("Artifact index rebuild failed", zap.Error(err))
		}
	}

	return &stateStores{fs: fs, repo: repo, index: index, indexStore: indexStore}
}

func languageRoot(cfg *config.Config) string {
	return cfg.Sync.AudioRoot + "/" + cfg.Sync.LanguageCode
}

// newRuntime connects the backends and builds the orchestrator.
func newRuntime(cfg *config.Config, l *zap.Logger) (*runtime, error) {
	stores := openStateStores(cfg, l)

	var db *gorm.DB
	if cfg.Sources.AType == source.BackendDatabase {
		conn, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		db = conn
		l.Info("Connected to quest database", zap.String("driver", cfg.Database.Driver))
	}

	var client storage.Client
	if c, err := storage.NewClient(cfg.Storage); err != nil {
		l.Warn("Optional storage client unavailable", zap.Error(err))
	} else {
		client = c
	}

	a, b, err := quest.NewSources(cfg.Sources, quest.Backends{
		DB:     db,
		Client: client,
		Bucket: cfg.Storage.Bucket,
		Fs:     stores.fs,
	}, l)
	if err != nil {
		return nil, err
	}

	rec, err := reconcile.NewReconciler(a, b, reconcile.Options{CacheTTL: cfg.Sync.CacheTTL()}, l)
	if err != nil {
		return nil, err
	}

	synthesizer, err := synth.New(cfg.Synthesis)
	if err != nil {
		return nil, err
	}
	if !synthesizer.IsConfigured() {
		l.Warn("Speech provider is not configured; apply will not synthesize", zap.String("provider", synthesizer.Name()))
	}

	var exporter syncer.Exporter
	if client != nil {
		exporter = syncfeature.NewStorageExporter(client, cfg.Storage.Bucket, cfg.Sync.ExportPrefix, stores.fs, l)
	}

	opts, err := cfg.Sync.Options()
	if err != nil {
		return nil, fmt.Errorf("invalid sync configuration: %w", err)
	}

	orch, err := syncer.New(syncer.Deps{
		Reconciler:  rec,
		Repository:  stores.repo,
		Index:       stores.index,
		Synthesizer: synthesizer,
		Fs:          stores.fs,
		IndexStore:  stores.indexStore,
		Exporter:    exporter,
		Logger:      l,
	}, opts)
	if err != nil {
		return nil, err
	}

	return &runtime{
		stateStores:  stores,
		cfg:          cfg,
		logger:       l,
		db:           db,
		client:       client,
		a:            a,
		b:            b,
		reconciler:   rec,
		synthesizer:  synthesizer,
		orchestrator: orch,
	}, nil
}

// loadConfigAndLogger is the common prologue of every command.
func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}
