package sync

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quest-sync/core/logger"
	"quest-sync/core/syncer"
)

// Handler handles HTTP requests for the sync workflow.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync and artifact routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/status", h.HandleStatus)
	group.Post("/scan", h.HandleScan)
	group.Get("/plan", h.HandlePlan)
	group.Post("/apply", h.HandleApply)
	group.Delete("/snapshot", h.HandleReset)

	artifacts := app.Group("/artifacts")
	artifacts.Post("/rebuild", h.HandleRebuild)
	artifacts.Get("/:id", h.HandleArtifacts)
}

// HandleStatus reports the orchestrator state.
// @Summary Sync Status
// @Description Current state, pending diff counts, last apply and persisted metadata.
// @Tags sync
// @Produce json
// @Success 200 {object} syncer.Status
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleScan reconciles the sources and diffs them against the snapshot.
// @Summary Scan
// @Description Fetch both sources, merge and diff against the committed snapshot. Nothing is persisted.
// @Tags sync
// @Produce json
// @Success 200 {object} syncer.ScanResult
// @Failure 409 {object} map[string]string "Busy"
// @Router /sync/scan [post]
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Scan(c.Context())
	if err != nil {
		return h.fail(c, l, "Scan", err)
	}
	if !res.Success {
		l.Warn("Scan did not succeed", zap.String("error", res.Error), zap.Bool("cancelled", res.Cancelled))
	}
	return c.JSON(res)
}

// HandlePlan previews what apply would regenerate.
// @Summary Apply Preview
// @Description List the regeneration candidates of the pending scan without synthesizing.
// @Tags sync
// @Produce json
// @Param full query bool false "Consider unchanged records too"
// @Param repair query bool false "Repair missing artifacts of unchanged records"
// @Param ids query string false "Comma separated quest ids"
// @Success 200 {array} syncer.Candidate
// @Failure 409 {object} map[string]string "No pending scan"
// @Router /sync/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts, err := h.applyOptions(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	plan, err := h.service.Plan(opts)
	if err != nil {
		return h.fail(c, l, "Plan", err)
	}
	return c.JSON(plan)
}

// HandleApply applies the pending scan.
// @Summary Apply
// @Description Synthesize the regeneration set of the pending scan and commit the snapshot.
// @Tags sync
// @Produce json
// @Param full query bool false "Consider unchanged records too"
// @Param export query bool false "Export written artifacts to object storage"
// @Param repair query bool false "Repair missing artifacts of unchanged records"
// @Param ids query string false "Comma separated quest ids"
// @Success 200 {object} syncer.ApplyResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "No pending scan or busy"
// @Router /sync/apply [post]
func (h *Handler) HandleApply(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts, err := h.applyOptions(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	res, err := h.service.Apply(c.Context(), opts)
	if err != nil {
		return h.fail(c, l, "Apply", err)
	}
	if !res.Success {
		l.Warn("Apply did not succeed",
			zap.String("error", res.Error),
			zap.Int("failures", len(res.Failures)),
			zap.Bool("committed", res.Committed),
		)
	}
	return c.JSON(res)
}

// HandleReset deletes the committed snapshot.
// @Summary Reset Snapshot
// @Description Delete the committed snapshot so the next scan treats every record as new.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string "Busy"
// @Router /sync/snapshot [delete]
func (h *Handler) HandleReset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Reset(); err != nil {
		return h.fail(c, l, "Reset", err)
	}
	return c.JSON(fiber.Map{"status": "reset"})
}

// HandleArtifacts lists the indexed artifacts of one quest.
// @Summary Quest Artifacts
// @Description Indexed audio artifacts of one quest.
// @Tags artifacts
// @Produce json
// @Param id path int true "Quest ID"
// @Success 200 {array} artifact.Entry
// @Failure 400 {object} map[string]string "Invalid ID"
// @Router /artifacts/{id} [get]
func (h *Handler) HandleArtifacts(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid quest id",
		})
	}
	return c.JSON(h.service.Artifacts(id))
}

// HandleRebuild rescans the artifact directory.
// @Summary Rebuild Artifact Index
// @Description Rebuild the artifact index from the files on disk and persist it.
// @Tags artifacts
// @Produce json
// @Success 200 {object} artifact.ScanReport
// @Failure 409 {object} map[string]string "Busy"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /artifacts/rebuild [post]
func (h *Handler) HandleRebuild(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.RebuildIndex()
	if err != nil {
		return h.fail(c, l, "Index rebuild", err)
	}
	return c.JSON(report)
}

// applyOptions overlays query parameters on the configured defaults.
func (h *Handler) applyOptions(c *fiber.Ctx) (syncer.ApplyOptions, error) {
	opts := h.service.Defaults()
	if c.Query("full") != "" {
		opts.OnlyNewAndChanged = !c.QueryBool("full")
	}
	if c.Query("repair") != "" {
		opts.RepairMissing = c.QueryBool("repair")
	}
	if c.Query("export") != "" {
		opts.AutoExport = c.QueryBool("export")
	}
	if raw := c.Query("ids"); raw != "" {
		ids, err := parseIDs(raw)
		if err != nil {
			return opts, err
		}
		opts.IDs = ids
	}
	return opts, nil
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, op string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, syncer.ErrBusy), errors.Is(err, syncer.ErrNoScan):
		status = fiber.StatusConflict
	case errors.Is(err, syncer.ErrInvalidArgument):
		status = fiber.StatusBadRequest
	default:
		l.Error(op+" failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func parseIDs(raw string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, errors.New("invalid quest id: " + part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
