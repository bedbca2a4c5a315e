package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
	"github.com/devking-app/devking-api/pkg/payment"
)

// Student-side failure modes surfaced to handlers.
var (
	ErrEnrollmentNotFound     = errors.New("enrollment not found")
	ErrBookmarkNotFound       = errors.New("saved tutorial not found")
	ErrReviewAlreadySubmitted = errors.New("review already submitted")
	ErrScoreNotFound          = errors.New("no quiz attempt recorded")
	ErrAnswerCountMismatch    = errors.New("answer count does not match question count")
)

// StudentService covers enrollment, bookmarks, progress, reviews, quizzes
// and checkout. Enroll, SaveTutorial and CompleteLesson are idempotent: a
// repeat request reports already=true instead of failing.
type StudentService interface {
	Enroll(ctx context.Context, studentID, tutorialID uint) (already bool, err error)
	Unenroll(ctx context.Context, studentID, tutorialID uint) error
	IsEnrolled(ctx context.Context, studentID, tutorialID uint) (dto.EnrollmentStatus, error)
	EnrolledTutorials(ctx context.Context, studentID uint) (dto.EnrolledTutorialsResponse, error)

	SaveTutorial(ctx context.Context, studentID, tutorialID uint) (already bool, err error)
	UnsaveTutorial(ctx context.Context, studentID, tutorialID uint) error
	SavedTutorials(ctx context.Context, studentID uint) ([]dto.SavedTutorialEntry, error)

	CompleteLesson(ctx context.Context, studentID, tutorialID, lessonID uint) (already bool, err error)
	CompletedLessons(ctx context.Context, studentID, tutorialID uint) ([]models.Completion, error)

	SubmitReview(ctx context.Context, studentID, tutorialID uint, req dto.ReviewRequest) (models.Review, error)

	TutorialLessons(ctx context.Context, tutorialID uint) ([]models.Lesson, error)
	LessonWithNavigation(ctx context.Context, lessonID uint) (dto.LessonNavigation, error)
	ResourceByID(ctx context.Context, resourceID uint) (models.Resource, error)

	QuizForTutorial(ctx context.Context, tutorialID uint) (dto.QuizView, error)
	SubmitQuiz(ctx context.Context, studentID, tutorialID uint, req dto.QuizSubmission) (dto.QuizResult, error)
	Scores(ctx context.Context, studentID uint) ([]models.Score, error)
	LatestScore(ctx context.Context, studentID, tutorialID uint) (models.Score, error)

	StartCheckout(ctx context.Context, studentID, tutorialID uint) (dto.CheckoutResponse, error)
}

type studentService struct {
	tutorials   repository.TutorialRepository
	lessons     repository.LessonRepository
	resources   repository.ResourceRepository
	enrollments repository.EnrollmentRepository
	saved       repository.SavedTutorialRepository
	completions repository.CompletionRepository
	reviews     repository.ReviewRepository
	quizzes     repository.QuizRepository
	scores      repository.ScoreRepository
	users       repository.UserRepository
	gateway     payment.Gateway
	frontendURL string
	validate    *validator.Validate
	policy      *bluemonday.Policy
	logger      zerolog.Logger
}

// StudentServiceDeps bundles the repositories behind the student service.
type StudentServiceDeps struct {
	Tutorials   repository.TutorialRepository
	Lessons     repository.LessonRepository
	Resources   repository.ResourceRepository
	Enrollments repository.EnrollmentRepository
	Saved       repository.SavedTutorialRepository
	Completions repository.CompletionRepository
	Reviews     repository.ReviewRepository
	Quizzes     repository.QuizRepository
	Scores      repository.ScoreRepository
	Users       repository.UserRepository
	Gateway     payment.Gateway
	FrontendURL string
}

// NewStudentService constructs the student service.
func NewStudentService(deps StudentServiceDeps, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		tutorials:   deps.Tutorials,
		lessons:     deps.Lessons,
		resources:   deps.Resources,
		enrollments: deps.Enrollments,
		saved:       deps.Saved,
		completions: deps.Completions,
		reviews:     deps.Reviews,
		quizzes:     deps.Quizzes,
		scores:      deps.Scores,
		users:       deps.Users,
		gateway:     deps.Gateway,
		frontendURL: deps.FrontendURL,
		validate:    validate,
		policy:      bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) tutorialExists(ctx context.Context, tutorialID uint) (models.Tutorial, error) {
	tutorial, err := s.tutorials.GetByID(ctx, tutorialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Tutorial{}, ErrCourseNotFound
		}
		return models.Tutorial{}, err
	}
	return tutorial, nil
}

func (s *studentService) Enroll(ctx context.Context, studentID, tutorialID uint) (bool, error) {
	if _, err := s.tutorialExists(ctx, tutorialID); err != nil {
		return false, err
	}

	_, err := s.enrollments.FindByKey(ctx, studentID, tutorialID)
	switch {
	case err == nil:
		return true, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	enrollment := models.Enrollment{StudentID: studentID, TutorialID: tutorialID}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		// A concurrent request can win the insert; the unique index makes
		// that outcome indistinguishable from an earlier enrollment.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}

	s.logger.Info().Uint("student_id", studentID).Uint("tutorial_id", tutorialID).Msg("student enrolled")
	return false, nil
}

func (s *studentService) Unenroll(ctx context.Context, studentID, tutorialID uint) error {
	if err := s.enrollments.DeleteByKey(ctx, studentID, tutorialID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}
	return nil
}

func (s *studentService) IsEnrolled(ctx context.Context, studentID, tutorialID uint) (dto.EnrollmentStatus, error) {
	_, err := s.enrollments.FindByKey(ctx, studentID, tutorialID)
	switch {
	case err == nil:
		return dto.EnrollmentStatus{Enrolled: true}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return dto.EnrollmentStatus{Enrolled: false}, nil
	default:
		return dto.EnrollmentStatus{}, err
	}
}

func (s *studentService) EnrolledTutorials(ctx context.Context, studentID uint) (dto.EnrolledTutorialsResponse, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.EnrolledTutorialsResponse{}, err
	}
	reviews, err := s.reviews.ListByStudent(ctx, studentID)
	if err != nil {
		return dto.EnrolledTutorialsResponse{}, err
	}

	tutorials := make([]dto.EnrolledTutorial, 0, len(enrollments))
	for _, enrollment := range enrollments {
		tutorials = append(tutorials, dto.EnrolledTutorial{
			Tutorial:   enrollment.Tutorial,
			EnrolledAt: enrollment.CreatedAt,
		})
	}
	return dto.EnrolledTutorialsResponse{
		Count:     len(tutorials),
		Tutorials: tutorials,
		Reviews:   reviews,
	}, nil
}

func (s *studentService) SaveTutorial(ctx context.Context, studentID, tutorialID uint) (bool, error) {
	if _, err := s.tutorialExists(ctx, tutorialID); err != nil {
		return false, err
	}

	_, err := s.saved.FindByKey(ctx, studentID, tutorialID)
	switch {
	case err == nil:
		return true, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	bookmark := models.SavedTutorial{StudentID: studentID, TutorialID: tutorialID}
	if err := s.saved.Create(ctx, &bookmark); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (s *studentService) UnsaveTutorial(ctx context.Context, studentID, tutorialID uint) error {
	if err := s.saved.DeleteByKey(ctx, studentID, tutorialID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookmarkNotFound
		}
		return err
	}
	return nil
}

func (s *studentService) SavedTutorials(ctx context.Context, studentID uint) ([]dto.SavedTutorialEntry, error) {
	bookmarks, err := s.saved.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.SavedTutorialEntry, 0, len(bookmarks))
	for _, bookmark := range bookmarks {
		entries = append(entries, dto.SavedTutorialEntry{
			TutorialID:  bookmark.TutorialID,
			Title:       bookmark.Tutorial.Title,
			Description: bookmark.Tutorial.Description,
			Thumbnail:   bookmark.Tutorial.Thumbnail,
			SavedAt:     bookmark.CreatedAt,
		})
	}
	return entries, nil
}

func (s *studentService) CompleteLesson(ctx context.Context, studentID, tutorialID, lessonID uint) (bool, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrLessonNotFound
		}
		return false, err
	}
	if lesson.TutorialID != tutorialID {
		return false, ErrLessonNotFound
	}

	_, err = s.completions.FindByKey(ctx, studentID, tutorialID, lessonID)
	switch {
	case err == nil:
		return true, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	completion := models.Completion{StudentID: studentID, TutorialID: tutorialID, LessonID: lessonID}
	if err := s.completions.Create(ctx, &completion); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (s *studentService) CompletedLessons(ctx context.Context, studentID, tutorialID uint) ([]models.Completion, error) {
	return s.completions.ListByStudentTutorial(ctx, studentID, tutorialID)
}

func (s *studentService) SubmitReview(ctx context.Context, studentID, tutorialID uint, req dto.ReviewRequest) (models.Review, error) {
	// Sanitize before validating so a comment that is only whitespace or
	// stripped markup fails the required check.
	req.Comment = strings.TrimSpace(s.policy.Sanitize(req.Comment))
	if err := s.validate.Struct(req); err != nil {
		return models.Review{}, err
	}
	if _, err := s.tutorialExists(ctx, tutorialID); err != nil {
		return models.Review{}, err
	}

	_, err := s.reviews.FindByKey(ctx, studentID, tutorialID)
	switch {
	case err == nil:
		return models.Review{}, ErrReviewAlreadySubmitted
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return models.Review{}, err
	}

	review := models.Review{
		StudentID:  studentID,
		TutorialID: tutorialID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Review{}, ErrReviewAlreadySubmitted
		}
		return models.Review{}, err
	}
	return review, nil
}

func (s *studentService) TutorialLessons(ctx context.Context, tutorialID uint) ([]models.Lesson, error) {
	if _, err := s.tutorialExists(ctx, tutorialID); err != nil {
		return nil, err
	}
	return s.lessons.ListByTutorial(ctx, tutorialID)
}

func (s *studentService) LessonWithNavigation(ctx context.Context, lessonID uint) (dto.LessonNavigation, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonNavigation{}, ErrLessonNotFound
		}
		return dto.LessonNavigation{}, err
	}

	siblings, err := s.lessons.ListByTutorial(ctx, lesson.TutorialID)
	if err != nil {
		return dto.LessonNavigation{}, err
	}

	nav := dto.LessonNavigation{Lesson: lesson}
	for i := range siblings {
		if siblings[i].ID != lesson.ID {
			continue
		}
		if i > 0 {
			nav.Prev = &siblings[i-1]
		}
		if i < len(siblings)-1 {
			nav.Next = &siblings[i+1]
		}
		break
	}
	return nav, nil
}

func (s *studentService) ResourceByID(ctx context.Context, resourceID uint) (models.Resource, error) {
	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Resource{}, ErrResourceNotFound
		}
		return models.Resource{}, err
	}
	return resource, nil
}

func (s *studentService) QuizForTutorial(ctx context.Context, tutorialID uint) (dto.QuizView, error) {
	tutorial, err := s.tutorialExists(ctx, tutorialID)
	if err != nil {
		return dto.QuizView{}, err
	}

	quiz, err := s.quizzes.GetByTutorial(ctx, tutorialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizView{}, ErrQuizNotFound
		}
		return dto.QuizView{}, err
	}

	view := dto.QuizView{
		QuizID:     quiz.ID,
		TutorialID: tutorialID,
		Questions:  make([]dto.QuizQuestionView, 0, len(quiz.Questions)),
	}
	if teacher, err := s.users.GetByID(ctx, tutorial.TeacherID); err == nil {
		view.TeacherName = teacher.FullName()
	}
	for _, question := range quiz.Questions {
		view.Questions = append(view.Questions, dto.QuizQuestionView{
			ID:       question.ID,
			Question: question.Question,
			Options:  []string(question.Options),
		})
	}
	return view, nil
}

func (s *studentService) SubmitQuiz(ctx context.Context, studentID, tutorialID uint, req dto.QuizSubmission) (dto.QuizResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.QuizResult{}, err
	}

	quiz, err := s.quizzes.GetByTutorial(ctx, tutorialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResult{}, ErrQuizNotFound
		}
		return dto.QuizResult{}, err
	}
	if len(req.Answers) != len(quiz.Questions) {
		return dto.QuizResult{}, ErrAnswerCountMismatch
	}

	correct := 0
	for i, question := range quiz.Questions {
		if req.Answers[i] == question.CorrectAnswer {
			correct++
		}
	}

	score := models.Score{
		StudentID:  studentID,
		QuizID:     quiz.ID,
		TutorialID: tutorialID,
		Score:      correct,
	}
	if err := s.scores.Create(ctx, &score); err != nil {
		return dto.QuizResult{}, err
	}

	return dto.QuizResult{Score: score.Score, TotalQuestions: len(quiz.Questions)}, nil
}

func (s *studentService) Scores(ctx context.Context, studentID uint) ([]models.Score, error) {
	return s.scores.ListByStudent(ctx, studentID)
}

func (s *studentService) LatestScore(ctx context.Context, studentID, tutorialID uint) (models.Score, error) {
	quiz, err := s.quizzes.GetByTutorial(ctx, tutorialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Score{}, ErrQuizNotFound
		}
		return models.Score{}, err
	}

	score, err := s.scores.LatestByStudentQuiz(ctx, studentID, quiz.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Score{}, ErrScoreNotFound
		}
		return models.Score{}, err
	}
	return score, nil
}

func (s *studentService) StartCheckout(ctx context.Context, studentID, tutorialID uint) (dto.CheckoutResponse, error) {
	tutorial, err := s.tutorialExists(ctx, tutorialID)
	if err != nil {
		return dto.CheckoutResponse{}, err
	}
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return dto.CheckoutResponse{}, err
	}

	courseURL := fmt.Sprintf("%s/tutorial/%d", s.frontendURL, tutorial.ID)

	// Free courses skip the gateway entirely.
	if tutorial.Price <= 0 {
		if _, err := s.Enroll(ctx, studentID, tutorialID); err != nil {
			return dto.CheckoutResponse{}, err
		}
		return dto.CheckoutResponse{URL: courseURL}, nil
	}

	session, err := s.gateway.CreateSession(ctx, payment.Session{
		OrderID:       uuid.NewString(),
		Amount:        int64(math.Round(tutorial.Price)),
		ItemName:      tutorial.Title,
		CustomerName:  student.FullName(),
		CustomerEmail: student.Email,
	})
	if err != nil {
		return dto.CheckoutResponse{}, err
	}

	return dto.CheckoutResponse{URL: session.RedirectURL}, nil
}
