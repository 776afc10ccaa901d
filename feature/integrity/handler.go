package integrity

import (
	"quest-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/database", h.HandleDatabaseCheck)
	group.Get("/artifacts", h.HandleArtifactCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Checks the storage bucket, the quest catalog table and the artifact index.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create a missing bucket and rebuild the artifact index"
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"
	l.Info("Triggering all integrity checks", zap.Bool("fix", fix))

	return c.JSON(h.service.CheckAll(c.Context(), fix))
}

// HandleStorageCheck checks and optionally fixes the bucket.
// @Summary Check Storage
// @Description Checks the bucket exists and the enrichment catalog is readable. Optionally creates the bucket.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket if missing"
// @Success 200 {object} checks.StorageReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if c.Query("fix") == "true" {
		if err := h.service.FixStorage(c.Context(), report); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(report)
}

// HandleDatabaseCheck checks the catalog table schema.
// @Summary Check Database
// @Description Compares the quest catalog table with the expected columns.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.TableReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/database [get]
func (h *Handler) HandleDatabaseCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckDatabase()
	if err != nil {
		l.Error("Database check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if report.Status != "ok" {
		l.Warn("Catalog table drift detected",
			zap.Strings("missing_required", report.MissingRequired),
			zap.Strings("missing_optional", report.MissingOptional),
		)
	}
	return c.JSON(report)
}

// HandleArtifactCheck cross-checks the artifact index with the files on disk.
// @Summary Check Artifacts
// @Description Lists indexed artifacts missing on disk and artifact files missing from the index. Optionally rebuilds the index.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Rebuild the index from disk"
// @Success 200 {object} checks.ArtifactReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/artifacts [get]
func (h *Handler) HandleArtifactCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	check := h.service.CheckArtifacts
	if c.Query("fix") == "true" {
		check = h.service.FixArtifacts
	}
	report, err := check()
	if err != nil {
		l.Error("Artifact check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
