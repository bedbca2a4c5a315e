package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
)

// Course management failure modes surfaced to handlers.
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrFaqNotFound      = errors.New("faq not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrNotCourseOwner   = errors.New("course belongs to another teacher")
	ErrQuizExists       = errors.New("course already has a quiz")
)

// CourseService manages courses and their nested content. Ownership checks
// apply when ownerID is non-zero; admin callers pass zero.
type CourseService interface {
	CreateCourse(ctx context.Context, teacherID uint, req dto.CourseCreateRequest) (models.Tutorial, error)
	ListCourses(ctx context.Context, teacherID uint) ([]dto.TeacherCourseSummary, error)
	GetCourse(ctx context.Context, ownerID, courseID uint) (dto.CourseDetail, error)
	UpdateCourse(ctx context.Context, ownerID, courseID uint, req dto.CourseUpdateRequest) (models.Tutorial, error)
	DeleteCourse(ctx context.Context, ownerID, courseID uint) error
	AddCourseResources(ctx context.Context, ownerID, courseID uint, inputs []dto.ResourceInput) error
	RemoveCourseResource(ctx context.Context, ownerID, courseID, resourceID uint) error

	AddLesson(ctx context.Context, ownerID, courseID uint, req dto.LessonCreateRequest) (models.Lesson, error)
	GetLesson(ctx context.Context, ownerID, lessonID uint) (models.Lesson, error)
	ListLessons(ctx context.Context, ownerID, courseID uint) ([]models.Lesson, error)
	UpdateLesson(ctx context.Context, ownerID, lessonID uint, req dto.LessonUpdateRequest) (models.Lesson, error)
	DeleteLesson(ctx context.Context, ownerID, lessonID uint) error
	AddLessonResources(ctx context.Context, ownerID, lessonID uint, inputs []dto.ResourceInput) error
	RemoveLessonResource(ctx context.Context, ownerID, lessonID, resourceID uint) error

	CreateFaq(ctx context.Context, ownerID, courseID uint, req dto.FaqRequest) (models.Faq, error)
	UpdateFaq(ctx context.Context, ownerID, faqID uint, req dto.FaqRequest) (models.Faq, error)
	DeleteFaq(ctx context.Context, ownerID, faqID uint) error

	CreateQuiz(ctx context.Context, ownerID, courseID uint, req dto.QuizRequest) (models.Quiz, error)
	GetQuiz(ctx context.Context, ownerID, courseID uint) (models.Quiz, error)
	AddQuizQuestions(ctx context.Context, ownerID, courseID uint, req dto.QuizRequest) (models.Quiz, error)
	ReplaceQuiz(ctx context.Context, ownerID, courseID uint, req dto.QuizRequest) (models.Quiz, error)
}

type courseService struct {
	tutorials   repository.TutorialRepository
	lessons     repository.LessonRepository
	faqs        repository.FaqRepository
	quizzes     repository.QuizRepository
	enrollments repository.EnrollmentRepository
	reviews     repository.ReviewRepository
	validate    *validator.Validate
	policy      *bluemonday.Policy
	logger      zerolog.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(
	tutorials repository.TutorialRepository,
	lessons repository.LessonRepository,
	faqs repository.FaqRepository,
	quizzes repository.QuizRepository,
	enrollments repository.EnrollmentRepository,
	reviews repository.ReviewRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		tutorials:   tutorials,
		lessons:     lessons,
		faqs:        faqs,
		quizzes:     quizzes,
		enrollments: enrollments,
		reviews:     reviews,
		validate:    validate,
		policy:      bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "course_service").Logger(),
	}
}

// ownedCourse loads a course and enforces ownership when ownerID is non-zero.
func (s *courseService) ownedCourse(ctx context.Context, ownerID, courseID uint) (models.Tutorial, error) {
	course, err := s.tutorials.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Tutorial{}, ErrCourseNotFound
		}
		return models.Tutorial{}, err
	}
	if ownerID != 0 && course.TeacherID != ownerID {
		return models.Tutorial{}, ErrNotCourseOwner
	}
	return course, nil
}

// ownedLesson loads a lesson and enforces ownership via its course.
func (s *courseService) ownedLesson(ctx context.Context, ownerID, lessonID uint) (models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lesson{}, ErrLessonNotFound
		}
		return models.Lesson{}, err
	}
	if _, err := s.ownedCourse(ctx, ownerID, lesson.TutorialID); err != nil {
		return models.Lesson{}, err
	}
	return lesson, nil
}

func (s *courseService) CreateCourse(ctx context.Context, teacherID uint, req dto.CourseCreateRequest) (models.Tutorial, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Tutorial{}, err
	}

	course := models.Tutorial{
		TeacherID:     teacherID,
		Title:         req.Title,
		Description:   s.policy.Sanitize(req.Description),
		Category:      req.Category,
		Thumbnail:     req.Thumbnail,
		Price:         req.Price,
		Benefits:      datatypes.NewJSONSlice(req.Benefits),
		Prerequisites: datatypes.NewJSONSlice(req.Prerequisites),
	}
	if err := s.tutorials.Create(ctx, &course); err != nil {
		return models.Tutorial{}, err
	}
	if len(req.Resources) > 0 {
		if err := s.tutorials.AppendResources(ctx, course.ID, toResources(req.Resources)); err != nil {
			return models.Tutorial{}, err
		}
	}

	s.logger.Info().Uint("course_id", course.ID).Uint("teacher_id", teacherID).Msg("course created")
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context, teacherID uint) ([]dto.TeacherCourseSummary, error) {
	courses, err := s.tutorials.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return []dto.TeacherCourseSummary{}, nil
	}

	ids := make([]uint, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}
	counts, err := s.enrollments.CountsByTutorials(ctx, ids)
	if err != nil {
		return nil, err
	}
	students := make(map[uint]int64, len(counts))
	for _, row := range counts {
		students[row.TutorialID] = row.Total
	}

	summaries := make([]dto.TeacherCourseSummary, 0, len(courses))
	for _, course := range courses {
		summaries = append(summaries, dto.TeacherCourseSummary{
			ID:       course.ID,
			Image:    course.Thumbnail,
			Title:    course.Title,
			Category: course.Category,
			Lessons:  len(course.Lessons),
			Students: students[course.ID],
		})
	}
	return summaries, nil
}

func (s *courseService) GetCourse(ctx context.Context, ownerID, courseID uint) (dto.CourseDetail, error) {
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return dto.CourseDetail{}, err
	}
	course, err := s.tutorials.GetWithContent(ctx, courseID)
	if err != nil {
		return dto.CourseDetail{}, err
	}

	students, err := s.enrollments.CountByTutorial(ctx, courseID)
	if err != nil {
		return dto.CourseDetail{}, err
	}
	reviews, err := s.reviews.ListByTutorial(ctx, courseID)
	if err != nil {
		return dto.CourseDetail{}, err
	}

	entries, average := reviewEntries(reviews)
	return dto.CourseDetail{
		Course:        course,
		StudentsCount: students,
		AverageRating: average,
		ReviewsCount:  len(reviews),
		Reviews:       entries,
	}, nil
}

// reviewEntries flattens reviews with their preloaded authors and computes
// the mean rating.
func reviewEntries(reviews []models.Review) ([]dto.ReviewEntry, float64) {
	entries := make([]dto.ReviewEntry, 0, len(reviews))
	var sum int
	for _, review := range reviews {
		entries = append(entries, dto.ReviewEntry{
			Rating:     review.Rating,
			Comment:    review.Comment,
			FullName:   review.Student.FullName(),
			ProfilePic: review.Student.ProfilePic,
			CreatedAt:  review.CreatedAt,
		})
		sum += review.Rating
	}
	if len(reviews) == 0 {
		return entries, 0
	}
	return entries, float64(sum) / float64(len(reviews))
}

func (s *courseService) UpdateCourse(ctx context.Context, ownerID, courseID uint, req dto.CourseUpdateRequest) (models.Tutorial, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Tutorial{}, err
	}

	course, err := s.ownedCourse(ctx, ownerID, courseID)
	if err != nil {
		return models.Tutorial{}, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = s.policy.Sanitize(*req.Description)
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Thumbnail != nil {
		course.Thumbnail = *req.Thumbnail
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Benefits != nil {
		course.Benefits = datatypes.NewJSONSlice(req.Benefits)
	}
	if req.Prerequisites != nil {
		course.Prerequisites = datatypes.NewJSONSlice(req.Prerequisites)
	}

	if err := s.tutorials.Update(ctx, &course); err != nil {
		return models.Tutorial{}, err
	}
	if len(req.Resources) > 0 {
		if err := s.tutorials.AppendResources(ctx, course.ID, toResources(req.Resources)); err != nil {
			return models.Tutorial{}, err
		}
	}
	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, ownerID, courseID uint) error {
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return err
	}
	if err := s.tutorials.DeleteCascade(ctx, courseID); err != nil {
		return err
	}
	s.logger.Info().Uint("course_id", courseID).Msg("course deleted")
	return nil
}

func (s *courseService) AddCourseResources(ctx context.Context, ownerID, courseID uint, inputs []dto.ResourceInput) error {
	if err := s.validate.Var(inputs, "required,min=1,dive"); err != nil {
		return err
	}
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return err
	}
	return s.tutorials.AppendResources(ctx, courseID, toResources(inputs))
}

func (s *courseService) RemoveCourseResource(ctx context.Context, ownerID, courseID, resourceID uint) error {
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return err
	}
	if err := s.tutorials.RemoveResource(ctx, courseID, resourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	return nil
}

func (s *courseService) AddLesson(ctx context.Context, ownerID, courseID uint, req dto.LessonCreateRequest) (models.Lesson, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Lesson{}, err
	}
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return models.Lesson{}, err
	}

	lesson := models.Lesson{
		TutorialID:  courseID,
		Title:       req.Title,
		Description: s.policy.Sanitize(req.Description),
		VideoURL:    req.VideoURL,
	}
	if err := s.lessons.Create(ctx, &lesson); err != nil {
		return models.Lesson{}, err
	}
	if len(req.Resources) > 0 {
		if err := s.lessons.AppendResources(ctx, lesson.ID, toResources(req.Resources)); err != nil {
			return models.Lesson{}, err
		}
	}
	return lesson, nil
}

func (s *courseService) GetLesson(ctx context.Context, ownerID, lessonID uint) (models.Lesson, error) {
	return s.ownedLesson(ctx, ownerID, lessonID)
}

func (s *courseService) ListLessons(ctx context.Context, ownerID, courseID uint) ([]models.Lesson, error) {
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return nil, err
	}
	return s.lessons.ListByTutorial(ctx, courseID)
}

func (s *courseService) UpdateLesson(ctx context.Context, ownerID, lessonID uint, req dto.LessonUpdateRequest) (models.Lesson, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Lesson{}, err
	}

	lesson, err := s.ownedLesson(ctx, ownerID, lessonID)
	if err != nil {
		return models.Lesson{}, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = s.policy.Sanitize(*req.Description)
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}

	if err := s.lessons.Update(ctx, &lesson); err != nil {
		return models.Lesson{}, err
	}
	if len(req.Resources) > 0 {
		if err := s.lessons.AppendResources(ctx, lesson.ID, toResources(req.Resources)); err != nil {
			return models.Lesson{}, err
		}
	}
	return lesson, nil
}

func (s *courseService) DeleteLesson(ctx context.Context, ownerID, lessonID uint) error {
	if _, err := s.ownedLesson(ctx, ownerID, lessonID); err != nil {
		return err
	}
	return s.lessons.DeleteCascade(ctx, lessonID)
}

func (s *courseService) AddLessonResources(ctx context.Context, ownerID, lessonID uint, inputs []dto.ResourceInput) error {
	if err := s.validate.Var(inputs, "required,min=1,dive"); err != nil {
		return err
	}
	if _, err := s.ownedLesson(ctx, ownerID, lessonID); err != nil {
		return err
	}
	return s.lessons.AppendResources(ctx, lessonID, toResources(inputs))
}

func (s *courseService) RemoveLessonResource(ctx context.Context, ownerID, lessonID, resourceID uint) error {
	if _, err := s.ownedLesson(ctx, ownerID, lessonID); err != nil {
		return err
	}
	if err := s.lessons.RemoveResource(ctx, lessonID, resourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	return nil
}

func (s *courseService) CreateFaq(ctx context.Context, ownerID, courseID uint, req dto.FaqRequest) (models.Faq, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Faq{}, err
	}
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return models.Faq{}, err
	}

	faq := models.Faq{
		TutorialID: courseID,
		Question:   s.policy.Sanitize(req.Question),
		Answer:     s.policy.Sanitize(req.Answer),
	}
	if err := s.faqs.Create(ctx, &faq); err != nil {
		return models.Faq{}, err
	}
	return faq, nil
}

func (s *courseService) UpdateFaq(ctx context.Context, ownerID, faqID uint, req dto.FaqRequest) (models.Faq, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Faq{}, err
	}

	faq, err := s.faqs.GetByID(ctx, faqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Faq{}, ErrFaqNotFound
		}
		return models.Faq{}, err
	}
	if _, err := s.ownedCourse(ctx, ownerID, faq.TutorialID); err != nil {
		return models.Faq{}, err
	}

	faq.Question = s.policy.Sanitize(req.Question)
	faq.Answer = s.policy.Sanitize(req.Answer)
	if err := s.faqs.Update(ctx, &faq); err != nil {
		return models.Faq{}, err
	}
	return faq, nil
}

func (s *courseService) DeleteFaq(ctx context.Context, ownerID, faqID uint) error {
	faq, err := s.faqs.GetByID(ctx, faqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFaqNotFound
		}
		return err
	}
	if _, err := s.ownedCourse(ctx, ownerID, faq.TutorialID); err != nil {
		return err
	}
	return s.faqs.Delete(ctx, faqID)
}

func (s *courseService) CreateQuiz(ctx context.Context, ownerID, courseID uint, req dto.QuizRequest) (models.Quiz, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Quiz{}, err
	}
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return models.Quiz{}, err
	}

	if _, err := s.quizzes.GetByTutorial(ctx, courseID); err == nil {
		return models.Quiz{}, ErrQuizExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Quiz{}, err
	}

	quiz := models.Quiz{TutorialID: courseID}
	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return models.Quiz{}, err
	}
	return s.quizzes.AddQuestions(ctx, quiz.ID, toQuestions(quiz.ID, req.Questions))
}

func (s *courseService) GetQuiz(ctx context.Context, ownerID, courseID uint) (models.Quiz, error) {
	if _, err := s.ownedCourse(ctx, ownerID, courseID); err != nil {
		return models.Quiz{}, err
	}
	quiz, err := s.quizzes.GetByTutorial(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, ErrQuizNotFound
		}
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (s *courseService) AddQuizQuestions(ctx context.Context, ownerID, courseID uint, req dto.QuizRequest) (models.Quiz, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Quiz{}, err
	}
	quiz, err := s.GetQuiz(ctx, ownerID, courseID)
	if err != nil {
		return models.Quiz{}, err
	}
	return s.quizzes.AddQuestions(ctx, quiz.ID, toQuestions(quiz.ID, req.Questions))
}

func (s *courseService) ReplaceQuiz(ctx context.Context, ownerID, courseID uint, req dto.QuizRequest) (models.Quiz, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Quiz{}, err
	}
	quiz, err := s.GetQuiz(ctx, ownerID, courseID)
	if err != nil {
		return models.Quiz{}, err
	}
	return s.quizzes.ReplaceQuestions(ctx, quiz.ID, toQuestions(quiz.ID, req.Questions))
}

func toResources(inputs []dto.ResourceInput) []models.Resource {
	resources := make([]models.Resource, 0, len(inputs))
	for _, input := range inputs {
		resources = append(resources, models.Resource{Title: input.Title, Path: input.Path})
	}
	return resources
}

func toQuestions(quizID uint, inputs []dto.QuizQuestionInput) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, 0, len(inputs))
	for _, input := range inputs {
		questions = append(questions, models.QuizQuestion{
			QuizID:        quizID,
			Question:      input.Question,
			Options:       datatypes.NewJSONSlice(input.Options),
			CorrectAnswer: input.CorrectAnswer,
		})
	}
	return questions
}
