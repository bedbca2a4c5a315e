package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
)

func setupTeacherDashboard(t *testing.T) (*gorm.DB, TeacherDashboardService) {
	t.Helper()

	db := openTestDB(t, "teacher_dashboard")
	svc := NewTeacherDashboardService(
		repository.NewAnalyticsRepository(db),
		repository.NewTutorialRepository(db),
		repository.NewLessonRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewReviewRepository(db),
		repository.NewUserRepository(db),
		testLogger(),
	)
	svc.(*teacherDashboardService).now = func() time.Time { return dashNow }
	return db, svc
}

func TestTeacherOverviewScopedToOwnCourses(t *testing.T) {
	db, svc := setupTeacherDashboard(t)

	owner := seedUser(t, db, models.RoleTeacher, "owner@example.com")
	rival := seedUser(t, db, models.RoleTeacher, "rival@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")

	mine := seedTutorial(t, db, owner.ID, "Mine", 40)
	theirs := seedTutorial(t, db, rival.ID, "Theirs", 500)

	seedEnrollmentAt(t, db, student.ID, mine.ID, dashNow.Add(-time.Hour))
	seedEnrollmentAt(t, db, student.ID, theirs.ID, dashNow.Add(-time.Hour))

	lesson := models.Lesson{TutorialID: mine.ID, Title: "L1", Description: "d", VideoURL: "https://v", CreatedAt: dashNow.Add(-time.Hour)}
	require.NoError(t, db.Create(&lesson).Error)

	stats, err := svc.Overview(context.Background(), owner.ID, PeriodMonth)
	require.NoError(t, err)
	require.InDelta(t, 40, stats.Revenue, 0.001)
	require.Equal(t, 1, stats.ActiveUsers)
	require.NotNil(t, stats.LessonsCreated)
	require.EqualValues(t, 1, *stats.LessonsCreated)
}

func TestTeacherWithoutCoursesGetsEmptyDashboards(t *testing.T) {
	db, svc := setupTeacherDashboard(t)

	teacher := seedUser(t, db, models.RoleTeacher, "new@example.com")
	// unrelated data that an unscoped query would leak
	other := seedUser(t, db, models.RoleTeacher, "other@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")
	course := seedTutorial(t, db, other.ID, "Busy course", 100)
	seedEnrollmentAt(t, db, student.ID, course.ID, dashNow.Add(-time.Hour))

	stats, err := svc.Overview(context.Background(), teacher.ID, PeriodMonth)
	require.NoError(t, err)
	require.Zero(t, stats.Revenue)
	require.Zero(t, stats.ActiveUsers)

	points, err := svc.SalesPerformance(context.Background(), teacher.ID, "")
	require.NoError(t, err)
	require.Empty(t, points)

	transactions, err := svc.RecentTransactions(context.Background(), teacher.ID)
	require.NoError(t, err)
	require.Empty(t, transactions)

	top, err := svc.TopCourses(context.Background(), teacher.ID, "")
	require.NoError(t, err)
	require.Empty(t, top)
}

func TestTeacherHomeRanksCourses(t *testing.T) {
	db, svc := setupTeacherDashboard(t)

	owner := seedUser(t, db, models.RoleTeacher, "owner@example.com")
	alice := seedUser(t, db, models.RoleStudent, "alice@example.com")
	bob := seedUser(t, db, models.RoleStudent, "bob@example.com")

	low := seedTutorial(t, db, owner.ID, "Low rated", 0)
	high := seedTutorial(t, db, owner.ID, "High rated", 0)

	seedEnrollmentAt(t, db, alice.ID, low.ID, dashNow.Add(-time.Hour))
	seedEnrollmentAt(t, db, alice.ID, high.ID, dashNow.Add(-time.Hour))
	seedEnrollmentAt(t, db, bob.ID, high.ID, dashNow.Add(-time.Hour))

	reviews := []models.Review{
		{StudentID: alice.ID, TutorialID: low.ID, Rating: 2, Comment: "meh"},
		{StudentID: alice.ID, TutorialID: high.ID, Rating: 5, Comment: "great"},
		{StudentID: bob.ID, TutorialID: high.ID, Rating: 4, Comment: "good"},
	}
	require.NoError(t, db.Create(&reviews).Error)

	home, err := svc.Home(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Equal(t, owner.ID, home.Teacher.ID)
	require.EqualValues(t, 3, home.TotalStudents)
	require.Len(t, home.TopCourses, 2)
	require.Equal(t, "High rated", home.TopCourses[0].Course.Title)
	require.InDelta(t, 4.5, home.TopCourses[0].AverageRating, 0.001)
	require.EqualValues(t, 2, home.TopCourses[0].StudentCount)
	require.NotEmpty(t, home.TopReviews)
	require.Equal(t, 5, home.TopReviews[0].Rating)
}
