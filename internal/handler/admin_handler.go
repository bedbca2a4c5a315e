package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/service"
	"github.com/devking-app/devking-api/internal/utils"
)

// AdminHandler exposes the back-office account and content listings.
type AdminHandler struct {
	service service.AdminService
	courses service.CourseService
	logger  zerolog.Logger
}

// NewAdminHandler constructs an admin handler.
func NewAdminHandler(service service.AdminService, courses service.CourseService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		courses: courses,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires the admin management routes.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/admins", h.addAdmin)
	router.Get("/users", h.listUsers)
	router.Put("/users/:id", h.updateUser)
	router.Delete("/users/:id", h.deleteUser)
	router.Get("/courses", h.listCourses)
	router.Delete("/courses/:id", h.deleteCourse)
	router.Get("/lessons", h.listLessons)
}

func (h *AdminHandler) addAdmin(c *fiber.Ctx) error {
	var payload dto.AdminCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	admin, err := h.service.AddAdmin(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create admin")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create admin")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "admin created", admin)
}

func (h *AdminHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list users")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *AdminHandler) updateUser(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.UpdateUser(c.Context(), userID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update user")
		}
	}

	return utils.SendSuccess(c, "user updated", user)
}

func (h *AdminHandler) deleteUser(c *fiber.Ctx) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UserDeleteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.DeleteUser(c.Context(), userID, payload); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete user")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete user")
		}
	}

	return utils.SendSuccess(c, "user deleted", nil)
}

func (h *AdminHandler) listCourses(c *fiber.Ctx) error {
	courses, err := h.service.ListCourses(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list courses")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *AdminHandler) deleteCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.courses.DeleteCourse(c.Context(), 0, courseID); err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete course")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete course")
	}

	return utils.SendSuccess(c, "course deleted", nil)
}

func (h *AdminHandler) listLessons(c *fiber.Ctx) error {
	lessons, err := h.service.ListLessons(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list lessons")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list lessons")
	}

	return utils.SendSuccess(c, "lessons retrieved", lessons)
}
