package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devking-app/devking-api/internal/service"
	"github.com/devking-app/devking-api/internal/utils"
)

// CatalogHandler exposes the public course catalog.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register wires the catalog routes.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/home", h.homepage)
	router.Get("/courses", h.courses)
	router.Get("/courses/top", h.topCourses)
	router.Get("/courses/:id", h.courseDetails)
	router.Get("/teachers", h.teachers)
}

func (h *CatalogHandler) courses(c *fiber.Ctx) error {
	search := c.Query("search")
	category := c.Query("category")

	courses, err := h.service.Courses(c.Context(), search, category)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list catalog courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CatalogHandler) courseDetails(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	details, err := h.service.CourseDetails(c.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load course details")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load course details")
	}

	return utils.SendSuccess(c, "course details retrieved", details)
}

func (h *CatalogHandler) teachers(c *fiber.Ctx) error {
	teachers, err := h.service.Teachers(c.Context(), c.Query("category"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list teachers")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list teachers")
	}

	return utils.SendSuccess(c, "teachers retrieved", teachers)
}

func (h *CatalogHandler) topCourses(c *fiber.Ctx) error {
	courses, err := h.service.TopCourses(c.Context(), c.Query("category"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to rank courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to rank courses")
	}

	return utils.SendSuccess(c, "top courses retrieved", courses)
}

func (h *CatalogHandler) homepage(c *fiber.Ctx) error {
	content, err := h.service.Homepage(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build homepage content")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build homepage content")
	}

	return utils.SendSuccess(c, "homepage content retrieved", content)
}
