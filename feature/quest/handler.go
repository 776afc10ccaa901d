package quest

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"quest-sync/core/logger"
	"quest-sync/core/source"
)

// Handler handles HTTP requests for quests.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the quest routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/quests")
	group.Get("/", h.HandleList)
	group.Get("/sources", h.HandleSources)
	group.Get("/:id", h.HandleGet)
}

// HandleGet returns one reconciled quest.
// @Summary Get Quest
// @Description Get the reconciled record of one quest, with artifact flags.
// @Tags quests
// @Produce json
// @Param id path int true "Quest ID"
// @Success 200 {object} models.Quest
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /quests/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid quest id",
		})
	}

	q, err := h.service.Get(c.Context(), id)
	if errors.Is(err, source.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "quest not found",
		})
	}
	if err != nil {
		l.Error("Quest lookup failed", zap.Int("quest_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(q)
}

// HandleList returns a page of reconciled quests.
// @Summary List Quests
// @Description List reconciled quests, optionally filtered by zone, category or main story flag.
// @Tags quests
// @Produce json
// @Param zone query string false "Zone"
// @Param category query string false "Category (Main, Side, Group...)"
// @Param main query bool false "Main story only"
// @Param offset query int false "Offset"
// @Param limit query int false "Page size (max 500)"
// @Success 200 {object} quest.Page
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /quests [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	f := Filter{
		Zone:     c.Query("zone"),
		Category: c.Query("category"),
		Offset:   c.QueryInt("offset", 0),
		Limit:    c.QueryInt("limit", defaultLimit),
	}
	if raw := c.Query("main"); raw != "" {
		main := c.QueryBool("main")
		f.MainStory = &main
	}

	page, err := h.service.List(c.Context(), f)
	if err != nil {
		l.Error("Quest listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(page)
}

// HandleSources reports source availability.
// @Summary Source Availability
// @Description Probe source A and source B.
// @Tags quests
// @Produce json
// @Success 200 {array} quest.SourceStatus
// @Router /quests/sources [get]
func (h *Handler) HandleSources(c *fiber.Ctx) error {
	return c.JSON(h.service.Sources(c.Context()))
}
