package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/service"
	"github.com/devking-app/devking-api/internal/utils"
)

// CourseHandler exposes course authoring endpoints. Teachers operate on their
// own courses; admins reach the same operations without the ownership check.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register wires the course authoring routes.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Post("/courses", h.createCourse)
	router.Get("/courses", h.listCourses)
	router.Get("/courses/:id", h.getCourse)
	router.Put("/courses/:id", h.updateCourse)
	router.Delete("/courses/:id", h.deleteCourse)

	router.Post("/courses/:id/resources", h.addCourseResources)
	router.Delete("/courses/:id/resources/:resourceId", h.removeCourseResource)

	router.Post("/courses/:id/lessons", h.addLesson)
	router.Get("/courses/:id/lessons", h.listLessons)
	router.Get("/lessons/:id", h.getLesson)
	router.Put("/lessons/:id", h.updateLesson)
	router.Delete("/lessons/:id", h.deleteLesson)

	router.Post("/lessons/:id/resources", h.addLessonResources)
	router.Delete("/lessons/:id/resources/:resourceId", h.removeLessonResource)

	router.Post("/courses/:id/faqs", h.createFaq)
	router.Put("/faqs/:id", h.updateFaq)
	router.Delete("/faqs/:id", h.deleteFaq)

	router.Post("/courses/:id/quiz", h.createQuiz)
	router.Get("/courses/:id/quiz", h.getQuiz)
	router.Post("/courses/:id/quiz/questions", h.addQuizQuestions)
	router.Put("/courses/:id/quiz", h.replaceQuiz)
}

// contentOwner resolves the owner scope for the request. Admins bypass the
// ownership check, every other caller is scoped to their own courses.
func contentOwner(c *fiber.Ctx) uint {
	if userRoleFromContext(c) == models.RoleAdmin {
		return 0
	}
	return userIDFromContext(c)
}

func (h *CourseHandler) respondCourseError(c *fiber.Ctx, err error, action string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotCourseOwner):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrQuizExists):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrLessonNotFound),
		errors.Is(err, service.ErrFaqNotFound),
		errors.Is(err, service.ErrQuizNotFound),
		errors.Is(err, service.ErrResourceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(action)
		return utils.SendError(c, fiber.StatusInternalServerError, action)
	}
}

func (h *CourseHandler) createCourse(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.service.CreateCourse(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.respondCourseError(c, err, "failed to create course")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) listCourses(c *fiber.Ctx) error {
	courses, err := h.service.ListCourses(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.respondCourseError(c, err, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) getCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := h.service.GetCourse(c.Context(), contentOwner(c), courseID)
	if err != nil {
		return h.respondCourseError(c, err, "failed to load course")
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) updateCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.service.UpdateCourse(c.Context(), contentOwner(c), courseID, payload)
	if err != nil {
		return h.respondCourseError(c, err, "failed to update course")
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) deleteCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteCourse(c.Context(), contentOwner(c), courseID); err != nil {
		return h.respondCourseError(c, err, "failed to delete course")
	}

	return utils.SendSuccess(c, "course deleted", nil)
}

func (h *CourseHandler) addCourseResources(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload []dto.ResourceInput
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.AddCourseResources(c.Context(), contentOwner(c), courseID, payload); err != nil {
		return h.respondCourseError(c, err, "failed to attach resources")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "resources attached", nil)
}

func (h *CourseHandler) removeCourseResource(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	resourceID, err := parseUintParam(c, "resourceId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.RemoveCourseResource(c.Context(), contentOwner(c), courseID, resourceID); err != nil {
		return h.respondCourseError(c, err, "failed to detach resource")
	}

	return utils.SendSuccess(c, "resource detached", nil)
}

func (h *CourseHandler) addLesson(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LessonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	lesson, err := h.service.AddLesson(c.Context(), contentOwner(c), courseID, payload)
	if err != nil {
		return h.respondCourseError(c, err, "failed to add lesson")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson added", lesson)
}

func (h *CourseHandler) listLessons(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lessons, err := h.service.ListLessons(c.Context(), contentOwner(c), courseID)
	if err != nil {
		return h.respondCourseError(c, err, "failed to list lessons")
	}

	return utils.SendSuccess(c, "lessons retrieved", lessons)
}

func (h *CourseHandler) getLesson(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	lesson, err := h.service.GetLesson(c.Context(), contentOwner(c), lessonID)
	if err != nil {
		return h.respondCourseError(c, err, "failed to load lesson")
	}

	return utils.SendSuccess(c, "lesson retrieved", lesson)
}

func (h *CourseHandler) updateLesson(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LessonUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	lesson, err := h.service.UpdateLesson(c.Context(), contentOwner(c), lessonID, payload)
	if err != nil {
		return h.respondCourseError(c, err, "failed to update lesson")
	}

	return utils.SendSuccess(c, "lesson updated", lesson)
}

func (h *CourseHandler) deleteLesson(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteLesson(c.Context(), contentOwner(c), lessonID); err != nil {
		return h.respondCourseError(c, err, "failed to delete lesson")
	}

	return utils.SendSuccess(c, "lesson deleted", nil)
}

func (h *CourseHandler) addLessonResources(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload []dto.ResourceInput
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.AddLessonResources(c.Context(), contentOwner(c), lessonID, payload); err != nil {
		return h.respondCourseError(c, err, "failed to attach resources")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "resources attached", nil)
}

func (h *CourseHandler) removeLessonResource(c *fiber.Ctx) error {
	lessonID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	resourceID, err := parseUintParam(c, "resourceId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.RemoveLessonResource(c.Context(), contentOwner(c), lessonID, resourceID); err != nil {
		return h.respondCourseError(c, err, "failed to detach resource")
	}

	return utils.SendSuccess(c, "resource detached", nil)
}

func (h *CourseHandler) createFaq(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FaqRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	faq, err := h.service.CreateFaq(c.Context(), contentOwner(c), courseID, payload)
	if err != nil {
		return h.respondCourseError(c, err, "failed to create faq")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "faq created", faq)
}

func (h *CourseHandler) updateFaq(c *fiber.Ctx) error {
	faqID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FaqRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	faq, err := h.service.UpdateFaq(c.Context(), contentOwner(c), faqID, payload)
	if err != nil {
		return h.respondCourseError(c, err, "failed to update faq")
	}

	return utils.SendSuccess(c, "faq updated", faq)
}

func (h *CourseHandler) deleteFaq(c *fiber.Ctx) error {
	faqID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteFaq(c.Context(), contentOwner(c), faqID); err != nil {
		return h.respondCourseError(c, err, "failed to delete faq")
	}

	return utils.SendSuccess(c, "faq deleted", nil)
}

func (h *CourseHandler) createQuiz(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.QuizRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	quiz, err := h.service.CreateQuiz(c.Context(), contentOwner(c), courseID, payload)
	if err != nil {
		return h.respondCourseError(c, err, "failed to create quiz")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz created", quiz)
}

func (h *CourseHandler) getQuiz(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	quiz, err := h.service.GetQuiz(c.Context(), contentOwner(c), courseID)
	if err != nil {
		return h.respondCourseError(c, err, "failed to load quiz")
	}

	return utils.SendSuccess(c, "quiz retrieved", quiz)
}

func (h *CourseHandler) addQuizQuestions(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.QuizRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	quiz, err := h.service.AddQuizQuestions(c.Context(), contentOwner(c), courseID, payload)
	if err != nil {
		return h.respondCourseError(c, err, "failed to add quiz questions")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "questions added", quiz)
}

func (h *CourseHandler) replaceQuiz(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.QuizRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	quiz, err := h.service.ReplaceQuiz(c.Context(), contentOwner(c), courseID, payload)
	if err != nil {
		return h.respondCourseError(c, err, "failed to replace quiz")
	}

	return utils.SendSuccess(c, "quiz replaced", quiz)
}
