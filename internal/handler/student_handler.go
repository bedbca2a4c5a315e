package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/service"
	"github.com/devking-app/devking-api/internal/utils"
)

// StudentHandler exposes the authenticated learning endpoints.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires the student routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/tutorials", h.enrolledTutorials)
	router.Get("/tutorials/:id/enrollment", h.enrollmentStatus)
	router.Post("/tutorials/:id/enroll", h.enroll)
	router.Delete("/tutorials/:id/enroll", h.unenroll)

	router.Get("/saved", h.savedTutorials)
	router.Post("/tutorials/:id/save", h.saveTutorial)
	router.Delete("/tutorials/:id/save", h.unsaveTutorial)

	router.Get("/tutorials/:id/completions", h.completedLessons)
	router.Post("/tutorials/:id/lessons/:lessonId/complete", h.completeLesson)

	router.Post("/tutorials/:id/reviews", h.submitReview)

	router.Get("/tutorials/:id/lessons", h.tutorialLessons)
	router.Get("/lessons/:id", h.lessonWithNavigation)
	router.Get("/resources/:id", h.resource)

	router.Get("/tutorials/:id/quiz", h.quiz)
	router.Post("/tutorials/:id/quiz", h.submitQuiz)
	router.Get("/scores", h.scores)
	router.Get("/tutorials/:id/score", h.latestScore)

	router.Post("/tutorials/:id/checkout", h.checkout)
}

func (h *StudentHandler) enroll(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	already, err := h.service.Enroll(c.Context(), userIDFromContext(c), tutorialID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to enroll")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to enroll")
	}

	if already {
		return utils.SendSuccess(c, "already enrolled", nil)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", nil)
}

func (h *StudentHandler) unenroll(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Unenroll(c.Context(), userIDFromContext(c), tutorialID); err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to unenroll")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to unenroll")
	}

	return utils.SendSuccess(c, "enrollment removed", nil)
}

func (h *StudentHandler) enrollmentStatus(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	status, err := h.service.IsEnrolled(c.Context(), userIDFromContext(c), tutorialID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to check enrollment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to check enrollment")
	}

	return utils.SendSuccess(c, "enrollment status retrieved", status)
}

func (h *StudentHandler) enrolledTutorials(c *fiber.Ctx) error {
	result, err := h.service.EnrolledTutorials(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list enrolled tutorials")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list enrolled tutorials")
	}

	return utils.SendSuccess(c, "enrolled tutorials retrieved", result)
}

func (h *StudentHandler) saveTutorial(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	already, err := h.service.SaveTutorial(c.Context(), userIDFromContext(c), tutorialID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to save tutorial")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to save tutorial")
	}

	if already {
		return utils.SendSuccess(c, "tutorial already saved", nil)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "tutorial saved", nil)
}

func (h *StudentHandler) unsaveTutorial(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.UnsaveTutorial(c.Context(), userIDFromContext(c), tutorialID); err != nil {
		if errors.Is(err, service.ErrBookmarkNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to remove saved tutorial")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove saved tutorial")
	}

	return utils.SendSuccess(c, "saved tutorial removed", nil)
}

func (h *StudentHandler) savedTutorials(c *fiber.Ctx) error {
	result, err := h.service.SavedTutorials(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list saved tutorials")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list saved tutorials")
	}

	return utils.SendSuccess(c, "saved tutorials retrieved", result)
}

func (h *StudentHandler) completeLesson(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	lessonID, err := parseUintParam(c, "lessonId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	already, err := h.service.CompleteLesson(c.Context(), userIDFromContext(c), tutorialID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrLessonNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to record completion")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record completion")
		}
	}

	if already {
		return utils.SendSuccess(c, "lesson already completed", nil)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson completed", nil)
}

func (h *StudentHandler) completedLessons(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	completions, err := h.service.CompletedLessons(c.Context(), userIDFromContext(c), tutorialID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list completions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list completions")
	}

	return utils.SendSuccess(c, "completions retrieved", completions)
}

func (h *StudentHandler) submitReview(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ReviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	review, err := h.service.SubmitReview(c.Context(), userIDFromContext(c), tutorialID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrReviewAlreadySubmitted):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit review")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit review")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "review submitted", review)
}

func (h *StudentHandler) tutorialLessons(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lessons, err := h.service.TutorialLessons(c.Context(), tutorialID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list lessons")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list lessons")
	}

	return utils.SendSuccess(c, "lessons retrieved", lessons)
}

func (h *StudentHandler) lessonWithNavigation(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lesson, err := h.service.LessonWithNavigation(c.Context(), lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load lesson")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load lesson")
	}

	return utils.SendSuccess(c, "lesson retrieved", lesson)
}

func (h *StudentHandler) resource(c *fiber.Ctx) error {
	resourceID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	resource, err := h.service.ResourceByID(c.Context(), resourceID)
	if err != nil {
		if errors.Is(err, service.ErrResourceNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load resource")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load resource")
	}

	return utils.SendSuccess(c, "resource retrieved", resource)
}

func (h *StudentHandler) quiz(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	quiz, err := h.service.QuizForTutorial(c.Context(), tutorialID)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load quiz")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load quiz")
	}

	return utils.SendSuccess(c, "quiz retrieved", quiz)
}

func (h *StudentHandler) submitQuiz(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.QuizSubmission
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.SubmitQuiz(c.Context(), userIDFromContext(c), tutorialID, payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrAnswerCountMismatch):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrQuizNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to grade quiz")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to grade quiz")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz graded", result)
}

func (h *StudentHandler) scores(c *fiber.Ctx) error {
	scores, err := h.service.Scores(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list scores")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list scores")
	}

	return utils.SendSuccess(c, "scores retrieved", scores)
}

func (h *StudentHandler) latestScore(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	score, err := h.service.LatestScore(c.Context(), userIDFromContext(c), tutorialID)
	if err != nil {
		if errors.Is(err, service.ErrScoreNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load score")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load score")
	}

	return utils.SendSuccess(c, "score retrieved", score)
}

func (h *StudentHandler) checkout(c *fiber.Ctx) error {
	tutorialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.StartCheckout(c.Context(), userIDFromContext(c), tutorialID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to start checkout")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to start checkout")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "checkout created", result)
}
