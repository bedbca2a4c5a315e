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
)

func setupCourseService(t *testing.T) (*gorm.DB, CourseService) {
	t.Helper()

	db := openTestDB(t, "course")
	svc := NewCourseService(
		repository.NewTutorialRepository(db),
		repository.NewLessonRepository(db),
		repository.NewFaqRepository(db),
		repository.NewQuizRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewReviewRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)
	return db, svc
}

func TestCreateCourseStoresListsAndSanitizes(t *testing.T) {
	db, svc := setupCourseService(t)
	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")

	course, err := svc.CreateCourse(context.Background(), teacher.ID, dto.CourseCreateRequest{
		Title:         "Go Fundamentals",
		Description:   "Learn Go <script>alert(1)</script> properly",
		Category:      "backend",
		Thumbnail:     "https://cdn.example.com/go.png",
		Price:         150,
		Benefits:      []string{"write servers", "read real code"},
		Prerequisites: []string{"basic programming"},
	})
	require.NoError(t, err)
	require.NotContains(t, course.Description, "<script>")

	var stored models.Tutorial
	require.NoError(t, db.First(&stored, course.ID).Error)
	require.Equal(t, []string{"write servers", "read real code"}, []string(stored.Benefits))
	require.Equal(t, []string{"basic programming"}, []string(stored.Prerequisites))
}

func TestCourseListsKeepDelimiterCharacters(t *testing.T) {
	db, svc := setupCourseService(t)
	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")

	benefits := []string{"shell pipelines: cat file | sort || fallback", "plain entry"}
	course, err := svc.CreateCourse(context.Background(), teacher.ID, dto.CourseCreateRequest{
		Title:       "Unix Tooling",
		Description: "pipes and redirection",
		Category:    "backend",
		Thumbnail:   "https://cdn.example.com/unix.png",
		Price:       90,
		Benefits:    benefits,
	})
	require.NoError(t, err)

	var stored models.Tutorial
	require.NoError(t, db.First(&stored, course.ID).Error)
	require.Equal(t, benefits, []string(stored.Benefits))

	quiz, err := svc.CreateQuiz(context.Background(), teacher.ID, course.ID, dto.QuizRequest{
		Questions: []dto.QuizQuestionInput{
			{Question: "what does a | b do?", Options: []string{"a | b pipes", "a || b ors"}, CorrectAnswer: "a | b pipes"},
		},
	})
	require.NoError(t, err)

	var question models.QuizQuestion
	require.NoError(t, db.First(&question, "quiz_id = ?", quiz.ID).Error)
	require.Equal(t, []string{"a | b pipes", "a || b ors"}, []string(question.Options))
}

func TestCourseOwnershipEnforced(t *testing.T) {
	db, svc := setupCourseService(t)
	owner := seedUser(t, db, models.RoleTeacher, "owner@example.com")
	rival := seedUser(t, db, models.RoleTeacher, "rival@example.com")
	course := seedTutorial(t, db, owner.ID, "Mine", 10)

	title := "Hijacked"
	_, err := svc.UpdateCourse(context.Background(), rival.ID, course.ID, dto.CourseUpdateRequest{Title: &title})
	require.ErrorIs(t, err, ErrNotCourseOwner)

	err = svc.DeleteCourse(context.Background(), rival.ID, course.ID)
	require.ErrorIs(t, err, ErrNotCourseOwner)

	// the zero owner id is the back-office path and skips the check
	_, err = svc.GetCourse(context.Background(), 0, course.ID)
	require.NoError(t, err)
}

func TestDeleteCourseCascades(t *testing.T) {
	db, svc := setupCourseService(t)
	owner := seedUser(t, db, models.RoleTeacher, "owner@example.com")
	course := seedTutorial(t, db, owner.ID, "Doomed", 10)

	lesson := models.Lesson{TutorialID: course.ID, Title: "L1", Description: "d", VideoURL: "https://v"}
	require.NoError(t, db.Create(&lesson).Error)
	require.NoError(t, db.Model(&lesson).Association("Resources").Append(&models.Resource{Title: "slides", Path: "https://cdn/slides.pdf"}))

	faq := models.Faq{TutorialID: course.ID, Question: "why?", Answer: "because"}
	require.NoError(t, db.Create(&faq).Error)

	quiz := models.Quiz{TutorialID: course.ID}
	require.NoError(t, db.Create(&quiz).Error)
	question := models.QuizQuestion{QuizID: quiz.ID, Question: "q", Options: datatypes.JSONSlice[string]{"a", "b"}, CorrectAnswer: "a"}
	require.NoError(t, db.Create(&question).Error)

	require.NoError(t, svc.DeleteCourse(context.Background(), owner.ID, course.ID))

	for name, model := range map[string]any{
		"tutorials":      &models.Tutorial{},
		"lessons":        &models.Lesson{},
		"faqs":           &models.Faq{},
		"quizzes":        &models.Quiz{},
		"quiz_questions": &models.QuizQuestion{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		require.Zero(t, count, "leftover rows in %s", name)
	}
}

func TestQuizLifecycle(t *testing.T) {
	db, svc := setupCourseService(t)
	owner := seedUser(t, db, models.RoleTeacher, "owner@example.com")
	course := seedTutorial(t, db, owner.ID, "Quizzed", 10)

	quiz, err := svc.CreateQuiz(context.Background(), owner.ID, course.ID, dto.QuizRequest{
		Questions: []dto.QuizQuestionInput{
			{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
		},
	})
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)

	_, err = svc.CreateQuiz(context.Background(), owner.ID, course.ID, dto.QuizRequest{
		Questions: []dto.QuizQuestionInput{
			{Question: "again?", Options: []string{"y", "n"}, CorrectAnswer: "n"},
		},
	})
	require.ErrorIs(t, err, ErrQuizExists)

	quiz, err = svc.AddQuizQuestions(context.Background(), owner.ID, course.ID, dto.QuizRequest{
		Questions: []dto.QuizQuestionInput{
			{Question: "3+3?", Options: []string{"5", "6"}, CorrectAnswer: "6"},
		},
	})
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 2)

	quiz, err = svc.ReplaceQuiz(context.Background(), owner.ID, course.ID, dto.QuizRequest{
		Questions: []dto.QuizQuestionInput{
			{Question: "only one", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		},
	})
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 1)
	require.Equal(t, "only one", quiz.Questions[0].Question)
}

func TestListCoursesCountsStudents(t *testing.T) {
	db, svc := setupCourseService(t)
	owner := seedUser(t, db, models.RoleTeacher, "owner@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")
	course := seedTutorial(t, db, owner.ID, "Counted", 10)

	lesson := models.Lesson{TutorialID: course.ID, Title: "L1", Description: "d", VideoURL: "https://v"}
	require.NoError(t, db.Create(&lesson).Error)
	enrollment := models.Enrollment{StudentID: student.ID, TutorialID: course.ID}
	require.NoError(t, db.Create(&enrollment).Error)

	summaries, err := svc.ListCourses(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, 1, summaries[0].Lessons)
	require.EqualValues(t, 1, summaries[0].Students)
}

func TestValidationRejectsBadCourse(t *testing.T) {
	db, svc := setupCourseService(t)
	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")

	_, err := svc.CreateCourse(context.Background(), teacher.ID, dto.CourseCreateRequest{Title: "x"})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Tutorial{}).Count(&count).Error)
	require.Zero(t, count)
}
