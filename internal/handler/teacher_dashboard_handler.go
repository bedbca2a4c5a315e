package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devking-app/devking-api/internal/service"
	"github.com/devking-app/devking-api/internal/utils"
)

// TeacherDashboardHandler exposes analytics scoped to the signed-in teacher.
type TeacherDashboardHandler struct {
	service service.TeacherDashboardService
	logger  zerolog.Logger
}

// NewTeacherDashboardHandler constructs a teacher dashboard handler.
func NewTeacherDashboardHandler(service service.TeacherDashboardService, logger zerolog.Logger) *TeacherDashboardHandler {
	return &TeacherDashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "teacher_dashboard_handler").Logger(),
	}
}

// Register wires the teacher dashboard routes.
func (h *TeacherDashboardHandler) Register(router fiber.Router) {
	router.Get("/home", h.home)
	router.Get("/overview", h.overview)
	router.Get("/sales", h.sales)
	router.Get("/funnel", h.funnel)
	router.Get("/transactions", h.transactions)
	router.Get("/top-learners", h.topLearners)
	router.Get("/top-courses", h.topCourses)
}

func (h *TeacherDashboardHandler) home(c *fiber.Ctx) error {
	home, err := h.service.Home(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build teacher home")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build teacher home")
	}

	return utils.SendSuccess(c, "teacher home retrieved", home)
}

func (h *TeacherDashboardHandler) overview(c *fiber.Ctx) error {
	stats, err := h.service.Overview(c.Context(), userIDFromContext(c), c.Query("period"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build overview")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build overview")
	}

	return utils.SendSuccess(c, "overview retrieved", stats)
}

func (h *TeacherDashboardHandler) sales(c *fiber.Ctx) error {
	points, err := h.service.SalesPerformance(c.Context(), userIDFromContext(c), c.Query("period"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build sales series")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build sales series")
	}

	return utils.SendSuccess(c, "sales performance retrieved", points)
}

func (h *TeacherDashboardHandler) funnel(c *fiber.Ctx) error {
	funnel, err := h.service.EnrollmentFunnel(c.Context(), userIDFromContext(c), c.Query("period"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build enrollment funnel")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build enrollment funnel")
	}

	return utils.SendSuccess(c, "enrollment funnel retrieved", funnel)
}

func (h *TeacherDashboardHandler) transactions(c *fiber.Ctx) error {
	entries, err := h.service.RecentTransactions(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list transactions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list transactions")
	}

	return utils.SendSuccess(c, "recent transactions retrieved", entries)
}

func (h *TeacherDashboardHandler) topLearners(c *fiber.Ctx) error {
	learners, err := h.service.TopLearners(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to rank learners")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to rank learners")
	}

	return utils.SendSuccess(c, "top learners retrieved", learners)
}

func (h *TeacherDashboardHandler) topCourses(c *fiber.Ctx) error {
	courses, err := h.service.TopCourses(c.Context(), userIDFromContext(c), c.Query("period"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to rank courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to rank courses")
	}

	return utils.SendSuccess(c, "top courses retrieved", courses)
}
