package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devking-app/devking-api/internal/service"
	"github.com/devking-app/devking-api/internal/utils"
)

// AdminDashboardHandler exposes platform-wide analytics endpoints.
type AdminDashboardHandler struct {
	service service.AdminDashboardService
	logger  zerolog.Logger
}

// NewAdminDashboardHandler constructs an admin dashboard handler.
func NewAdminDashboardHandler(service service.AdminDashboardService, logger zerolog.Logger) *AdminDashboardHandler {
	return &AdminDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_dashboard_handler").Logger(),
	}
}

// Register wires the admin dashboard routes.
func (h *AdminDashboardHandler) Register(router fiber.Router) {
	router.Get("/overview", h.overview)
	router.Get("/sales", h.sales)
	router.Get("/funnel", h.funnel)
	router.Get("/categories", h.categories)
	router.Get("/transactions", h.transactions)
	router.Get("/top-learners", h.topLearners)
	router.Get("/top-teachers", h.topTeachers)
	router.Get("/top-courses", h.topCourses)
}

func (h *AdminDashboardHandler) overview(c *fiber.Ctx) error {
	stats, err := h.service.Overview(c.Context(), c.Query("period"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build overview")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build overview")
	}

	return utils.SendSuccess(c, "overview retrieved", stats)
}

func (h *AdminDashboardHandler) sales(c *fiber.Ctx) error {
	points, err := h.service.SalesPerformance(c.Context(), c.Query("period"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build sales series")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build sales series")
	}

	return utils.SendSuccess(c, "sales performance retrieved", points)
}

func (h *AdminDashboardHandler) funnel(c *fiber.Ctx) error {
	funnel, err := h.service.EnrollmentFunnel(c.Context(), c.Query("period"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build enrollment funnel")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build enrollment funnel")
	}

	return utils.SendSuccess(c, "enrollment funnel retrieved", funnel)
}

func (h *AdminDashboardHandler) categories(c *fiber.Ctx) error {
	categories, err := h.service.PopularCategories(c.Context(), c.Query("period"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to rank categories")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to rank categories")
	}

	return utils.SendSuccess(c, "popular categories retrieved", categories)
}

func (h *AdminDashboardHandler) transactions(c *fiber.Ctx) error {
	entries, err := h.service.RecentTransactions(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list transactions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list transactions")
	}

	return utils.SendSuccess(c, "recent transactions retrieved", entries)
}

func (h *AdminDashboardHandler) topLearners(c *fiber.Ctx) error {
	learners, err := h.service.TopLearners(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to rank learners")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to rank learners")
	}

	return utils.SendSuccess(c, "top learners retrieved", learners)
}

func (h *AdminDashboardHandler) topTeachers(c *fiber.Ctx) error {
	teachers, err := h.service.TopTeachers(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to rank teachers")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to rank teachers")
	}

	return utils.SendSuccess(c, "top teachers retrieved", teachers)
}

func (h *AdminDashboardHandler) topCourses(c *fiber.Ctx) error {
	courses, err := h.service.TopCourses(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to rank courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to rank courses")
	}

	return utils.SendSuccess(c, "top courses retrieved", courses)
}
