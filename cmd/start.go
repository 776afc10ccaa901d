package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"quest-sync/core/loader"
	"quest-sync/core/logger"
	"quest-sync/core/middleware/auth"
	"quest-sync/core/middleware/rayid"

	"quest-sync/feature/integrity"
	"quest-sync/feature/quest"
	syncfeature "quest-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "quest-sync/docs/swagger"
)

// @title Quest Sync API
// @version 1.0
// @description Reconciled quest catalog and narration audio sync.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the quest-sync server",
	Long:  `Starts the HTTP server exposing the reconciled quests and the scan/apply workflow.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration and Logger
		cfg, logg, err := loadConfigAndLogger()
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)
		logg = logg.With(zap.String("language", cfg.Sync.LanguageCode))

		// 2. Wire sources, state stores and the orchestrator
		rt, err := newRuntime(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to initialize sync runtime", zap.Error(err))
		}

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 4. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(quest.NewFeature(quest.NewService(rt.reconciler, rt.index, rt.a, rt.b, logg)))
		mgr.Register(syncfeature.NewFeature(syncfeature.NewService(rt.orchestrator, cfg.Sync.ApplyOptions(), logg)))
		mgr.Register(integrity.NewFeature(integrity.Targets{
			Client:        rt.client,
			Bucket:        cfg.Storage.Bucket,
			CatalogObject: catalogObject(cfg.Sources),
			DB:            rt.db,
			Table:         cfg.Sources.ATable,
			Model:         quest.Row{},
			Required:      quest.RequiredColumns,
			Fs:            rt.fs,
			ArtifactRoot:  rt.orchestrator.LanguageRoot(),
			Index:         rt.index,
			Rebuilder:     rt.orchestrator,
		}, logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
		if !cfg.Server.AuthEnabled() {
			logg.Warn("API key not set, requests are not authenticated")
		}

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", mgr.Enabled()))

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
