package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
	"github.com/devking-app/devking-api/pkg/payment"
)

type stubGateway struct {
	sessions []payment.Session
}

func (g *stubGateway) CreateSession(_ context.Context, session payment.Session) (payment.SessionResult, error) {
	g.sessions = append(g.sessions, session)
	return payment.SessionResult{Token: "tok", RedirectURL: "https://pay.example.com/tok"}, nil
}

func setupStudentService(t *testing.T) (*gorm.DB, StudentService, *stubGateway) {
	t.Helper()

	db := openTestDB(t, "student")
	gateway := &stubGateway{}
	svc := NewStudentService(StudentServiceDeps{
		Tutorials:   repository.NewTutorialRepository(db),
		Lessons:     repository.NewLessonRepository(db),
		Resources:   repository.NewResourceRepository(db),
		Enrollments: repository.NewEnrollmentRepository(db),
		Saved:       repository.NewSavedTutorialRepository(db),
		Completions: repository.NewCompletionRepository(db),
		Reviews:     repository.NewReviewRepository(db),
		Quizzes:     repository.NewQuizRepository(db),
		Scores:      repository.NewScoreRepository(db),
		Users:       repository.NewUserRepository(db),
		Gateway:     gateway,
		FrontendURL: "https://app.example.com",
	}, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	return db, svc, gateway
}

func seedCourse(t *testing.T, db *gorm.DB, price float64) (models.User, models.User, models.Tutorial) {
	t.Helper()

	teacher := models.User{FirstName: "Tia", LastName: "Putri", Email: "tia@example.com", PasswordHash: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.User{FirstName: "Budi", LastName: "Santoso", Email: "budi@example.com", PasswordHash: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	course := models.Tutorial{
		TeacherID:   teacher.ID,
		Category:    "backend",
		Title:       "Go from scratch",
		Thumbnail:   "https://cdn.example.com/go.png",
		Description: "Learn Go end to end",
		Price:       price,
	}
	require.NoError(t, db.Create(&course).Error)
	return teacher, student, course
}

func TestEnrollIsIdempotent(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, student, course := seedCourse(t, db, 100)

	already, err := svc.Enroll(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.False(t, already)

	already, err = svc.Enroll(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.True(t, already)

	var count int64
	require.NoError(t, db.Model(&models.Enrollment{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestEnrollUnknownCourse(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, student, _ := seedCourse(t, db, 0)

	_, err := svc.Enroll(context.Background(), student.ID, 9999)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestUnenrollMissingRow(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, student, course := seedCourse(t, db, 0)

	err := svc.Unenroll(context.Background(), student.ID, course.ID)
	require.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestSaveAndUnsaveTutorial(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, student, course := seedCourse(t, db, 50)

	already, err := svc.SaveTutorial(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.False(t, already)

	already, err = svc.SaveTutorial(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.True(t, already)

	saved, err := svc.SavedTutorials(context.Background(), student.ID)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Equal(t, course.Title, saved[0].Title)

	require.NoError(t, svc.UnsaveTutorial(context.Background(), student.ID, course.ID))
	require.ErrorIs(t, svc.UnsaveTutorial(context.Background(), student.ID, course.ID), ErrBookmarkNotFound)
}

func TestReviewResubmissionRejected(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, student, course := seedCourse(t, db, 50)

	review, err := svc.SubmitReview(context.Background(), student.ID, course.ID, dto.ReviewRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	require.Equal(t, 5, review.Rating)

	_, err = svc.SubmitReview(context.Background(), student.ID, course.ID, dto.ReviewRequest{Rating: 1, Comment: "changed my mind"})
	require.ErrorIs(t, err, ErrReviewAlreadySubmitted)
}

func TestReviewCommentMustSurviveSanitization(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, student, course := seedCourse(t, db, 0)

	_, err := svc.SubmitReview(context.Background(), student.ID, course.ID, dto.ReviewRequest{Rating: 4, Comment: "   \t  "})
	require.Error(t, err)

	_, err = svc.SubmitReview(context.Background(), student.ID, course.ID, dto.ReviewRequest{Rating: 4, Comment: "<script>alert(1)</script>"})
	require.Error(t, err)

	review, err := svc.SubmitReview(context.Background(), student.ID, course.ID, dto.ReviewRequest{Rating: 4, Comment: "  solid course <script>x</script> overall  "})
	require.NoError(t, err)
	require.Equal(t, "solid course  overall", review.Comment)
}

func TestCompleteLessonChecksCourse(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, student, course := seedCourse(t, db, 0)

	lesson := models.Lesson{TutorialID: course.ID, Title: "Intro", Description: "start here", VideoURL: "https://cdn.example.com/1.mp4"}
	require.NoError(t, db.Create(&lesson).Error)

	already, err := svc.CompleteLesson(context.Background(), student.ID, course.ID, lesson.ID)
	require.NoError(t, err)
	require.False(t, already)

	already, err = svc.CompleteLesson(context.Background(), student.ID, course.ID, lesson.ID)
	require.NoError(t, err)
	require.True(t, already)

	// lesson id from another course must not complete against this one
	_, err = svc.CompleteLesson(context.Background(), student.ID, course.ID+1, lesson.ID)
	require.ErrorIs(t, err, ErrLessonNotFound)
}

func TestLessonNavigationOrder(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, _, course := seedCourse(t, db, 0)

	titles := []string{"One", "Two", "Three"}
	lessons := make([]models.Lesson, 0, len(titles))
	for _, title := range titles {
		lesson := models.Lesson{TutorialID: course.ID, Title: title, Description: "d", VideoURL: "https://v"}
		require.NoError(t, db.Create(&lesson).Error)
		lessons = append(lessons, lesson)
	}

	nav, err := svc.LessonWithNavigation(context.Background(), lessons[1].ID)
	require.NoError(t, err)
	require.Equal(t, "Two", nav.Lesson.Title)
	require.NotNil(t, nav.Prev)
	require.Equal(t, "One", nav.Prev.Title)
	require.NotNil(t, nav.Next)
	require.Equal(t, "Three", nav.Next.Title)

	first, err := svc.LessonWithNavigation(context.Background(), lessons[0].ID)
	require.NoError(t, err)
	require.Nil(t, first.Prev)
	require.NotNil(t, first.Next)
}

func TestSubmitQuizGradesAnswers(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, student, course := seedCourse(t, db, 0)

	quiz := models.Quiz{TutorialID: course.ID}
	require.NoError(t, db.Create(&quiz).Error)
	questions := []models.QuizQuestion{
		{QuizID: quiz.ID, Question: "2+2?", Options: datatypes.JSONSlice[string]{"3", "4"}, CorrectAnswer: "4"},
		{QuizID: quiz.ID, Question: "capital of france?", Options: datatypes.JSONSlice[string]{"paris", "rome"}, CorrectAnswer: "paris"},
	}
	require.NoError(t, db.Create(&questions).Error)

	result, err := svc.SubmitQuiz(context.Background(), student.ID, course.ID, dto.QuizSubmission{Answers: []string{"4", "rome"}})
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.Equal(t, 2, result.TotalQuestions)

	_, err = svc.SubmitQuiz(context.Background(), student.ID, course.ID, dto.QuizSubmission{Answers: []string{"4"}})
	require.ErrorIs(t, err, ErrAnswerCountMismatch)

	latest, err := svc.LatestScore(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.Equal(t, 1, latest.Score)
}

func TestQuizViewHidesAnswerKey(t *testing.T) {
	db, svc, _ := setupStudentService(t)
	_, _, course := seedCourse(t, db, 0)

	quiz := models.Quiz{TutorialID: course.ID}
	require.NoError(t, db.Create(&quiz).Error)
	question := models.QuizQuestion{QuizID: quiz.ID, Question: "q", Options: datatypes.JSONSlice[string]{"a", "b"}, CorrectAnswer: "a"}
	require.NoError(t, db.Create(&question).Error)

	view, err := svc.QuizForTutorial(context.Background(), course.ID)
	require.NoError(t, err)
	require.Len(t, view.Questions, 1)
	require.Equal(t, []string{"a", "b"}, view.Questions[0].Options)
	require.Equal(t, "Tia Putri", view.TeacherName)
}

func TestCheckoutFreeCourseEnrollsDirectly(t *testing.T) {
	db, svc, gateway := setupStudentService(t)
	_, student, course := seedCourse(t, db, 0)

	resp, err := svc.StartCheckout(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.Contains(t, resp.URL, "app.example.com/tutorial/")
	require.Empty(t, gateway.sessions)

	status, err := svc.IsEnrolled(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.True(t, status.Enrolled)
}

func TestCheckoutPaidCourseUsesGateway(t *testing.T) {
	db, svc, gateway := setupStudentService(t)
	_, student, course := seedCourse(t, db, 250_000)

	resp, err := svc.StartCheckout(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.Equal(t, "https://pay.example.com/tok", resp.URL)
	require.Len(t, gateway.sessions, 1)
	require.EqualValues(t, 250_000, gateway.sessions[0].Amount)
	require.Equal(t, "budi@example.com", gateway.sessions[0].CustomerEmail)
}

func TestCheckoutRoundsFractionalPrice(t *testing.T) {
	db, svc, gateway := setupStudentService(t)
	_, student, course := seedCourse(t, db, 49.99)

	_, err := svc.StartCheckout(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, gateway.sessions, 1)
	require.EqualValues(t, 50, gateway.sessions[0].Amount)
}
