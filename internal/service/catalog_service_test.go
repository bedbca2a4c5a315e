package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
)

func setupCatalogService(t *testing.T) (*gorm.DB, CatalogService) {
	t.Helper()

	db := openTestDB(t, "catalog")
	svc := NewCatalogService(
		repository.NewTutorialRepository(db),
		repository.NewUserRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewReviewRepository(db),
		repository.NewAnalyticsRepository(db),
		testLogger(),
	)
	return db, svc
}

func TestCoursesSearchMatchesTeacherName(t *testing.T) {
	db, svc := setupCatalogService(t)

	teacher := models.User{FirstName: "Siti", LastName: "Rahma", Email: "siti@example.com", PasswordHash: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	seedTutorial(t, db, teacher.ID, "Databases 101", 10)

	other := models.User{FirstName: "Andi", LastName: "Wijaya", Email: "andi@example.com", PasswordHash: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&other).Error)
	seedTutorial(t, db, other.ID, "Networking 101", 10)

	byTitle, err := svc.Courses(context.Background(), "network", "")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	require.Equal(t, "Networking 101", byTitle[0].Title)

	byTeacher, err := svc.Courses(context.Background(), "siti", "")
	require.NoError(t, err)
	require.Len(t, byTeacher, 1)
	require.Equal(t, "Databases 101", byTeacher[0].Title)
	require.Equal(t, "Siti Rahma", byTeacher[0].Teacher.FullName)
}

func TestCourseDetailsAggregatesContent(t *testing.T) {
	db, svc := setupCatalogService(t)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")
	course := seedTutorial(t, db, teacher.ID, "Full Course", 10)

	lesson := models.Lesson{TutorialID: course.ID, Title: "L1", Description: "d", VideoURL: "https://v"}
	require.NoError(t, db.Create(&lesson).Error)
	faq := models.Faq{TutorialID: course.ID, Question: "q", Answer: "a"}
	require.NoError(t, db.Create(&faq).Error)
	enrollment := models.Enrollment{StudentID: student.ID, TutorialID: course.ID}
	require.NoError(t, db.Create(&enrollment).Error)
	review := models.Review{StudentID: student.ID, TutorialID: course.ID, Rating: 4, Comment: "solid"}
	require.NoError(t, db.Create(&review).Error)

	details, err := svc.CourseDetails(context.Background(), course.ID)
	require.NoError(t, err)
	require.Equal(t, "Full Course", details.Title)
	require.Len(t, details.Lessons, 1)
	require.Len(t, details.Faqs, 1)
	require.EqualValues(t, 1, details.TotalEnrolled)
	require.Equal(t, 1, details.TotalReviews)
	require.InDelta(t, 4, details.AverageRating, 0.001)
	require.Equal(t, "First Last", details.Reviews[0].FullName)

	_, err = svc.CourseDetails(context.Background(), 9999)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestTopCoursesLimitAndOrder(t *testing.T) {
	db, svc := setupCatalogService(t)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	for i := 0; i < 7; i++ {
		course := seedTutorial(t, db, teacher.ID, fmt.Sprintf("Course %d", i), 0)
		student := seedUser(t, db, models.RoleStudent, fmt.Sprintf("rate%d@example.com", i))
		review := models.Review{StudentID: student.ID, TutorialID: course.ID, Rating: (i % 5) + 1, Comment: "c"}
		require.NoError(t, db.Create(&review).Error)
	}

	top, err := svc.TopCourses(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, top, 6)
	require.GreaterOrEqual(t, top[0].AverageRating, top[len(top)-1].AverageRating)
}

func TestHomepageTopTeachers(t *testing.T) {
	db, svc := setupCatalogService(t)

	good := seedUser(t, db, models.RoleTeacher, "good@example.com")
	bad := seedUser(t, db, models.RoleTeacher, "bad@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")

	goodCourse := seedTutorial(t, db, good.ID, "Good course", 0)
	badCourse := seedTutorial(t, db, bad.ID, "Bad course", 0)

	reviews := []models.Review{
		{StudentID: student.ID, TutorialID: goodCourse.ID, Rating: 5, Comment: "c"},
		{StudentID: student.ID, TutorialID: badCourse.ID, Rating: 1, Comment: "c"},
	}
	require.NoError(t, db.Create(&reviews).Error)

	home, err := svc.Homepage(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, home.TopTeachers)
	require.Equal(t, good.ID, home.TopTeachers[0].TeacherID)
	require.InDelta(t, 5, home.TopTeachers[0].AvgReviews, 0.001)
	require.EqualValues(t, 1, home.TopTeachers[0].CoursesCount)
}

func TestTeachersDirectoryCountsCourses(t *testing.T) {
	db, svc := setupCatalogService(t)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	seedTutorial(t, db, teacher.ID, "One", 0)
	seedTutorial(t, db, teacher.ID, "Two", 0)

	entries, err := svc.Teachers(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.EqualValues(t, 2, entries[0].TotalCourses)
}
