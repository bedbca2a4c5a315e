package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
)

var dashNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func setupAdminDashboard(t *testing.T, cache *redis.Client) (*gorm.DB, AdminDashboardService) {
	t.Helper()

	db := openTestDB(t, "admin_dashboard")
	svc := NewAdminDashboardService(
		repository.NewAnalyticsRepository(db),
		repository.NewTutorialRepository(db),
		cache,
		time.Minute,
		testLogger(),
	)
	svc.(*adminDashboardService).now = func() time.Time { return dashNow }
	return db, svc
}

func seedUser(t *testing.T, db *gorm.DB, role, email string) models.User {
	t.Helper()
	user := models.User{FirstName: "First", LastName: "Last", Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedTutorial(t *testing.T, db *gorm.DB, teacherID uint, title string, price float64) models.Tutorial {
	t.Helper()
	tutorial := models.Tutorial{
		TeacherID:   teacherID,
		Category:    "backend",
		Title:       title,
		Thumbnail:   "https://cdn.example.com/t.png",
		Description: "course description",
		Price:       price,
	}
	require.NoError(t, db.Create(&tutorial).Error)
	return tutorial
}

func seedEnrollmentAt(t *testing.T, db *gorm.DB, studentID, tutorialID uint, at time.Time) {
	t.Helper()
	enrollment := models.Enrollment{StudentID: studentID, TutorialID: tutorialID, CreatedAt: at}
	require.NoError(t, db.Create(&enrollment).Error)
}

func TestOverviewRevenueUsesCurrentPrice(t *testing.T) {
	db, svc := setupAdminDashboard(t, nil)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")
	course := seedTutorial(t, db, teacher.ID, "Go Basics", 10)

	seedEnrollmentAt(t, db, student.ID, course.ID, dashNow.Add(-time.Hour))

	// A later price change reflects into the already-recorded enrollment.
	require.NoError(t, db.Model(&models.Tutorial{}).Where("id = ?", course.ID).Update("price", 30).Error)

	stats, err := svc.Overview(context.Background(), PeriodDay)
	require.NoError(t, err)
	require.InDelta(t, 30, stats.Revenue, 0.001)
	require.Nil(t, stats.LessonsCreated)
}

func TestOverviewActiveUsersAreDistinct(t *testing.T) {
	db, svc := setupAdminDashboard(t, nil)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	alice := seedUser(t, db, models.RoleStudent, "alice@example.com")
	bob := seedUser(t, db, models.RoleStudent, "bob@example.com")
	course := seedTutorial(t, db, teacher.ID, "Go Basics", 0)
	lesson := models.Lesson{TutorialID: course.ID, Title: "L1", Description: "d", VideoURL: "https://v"}
	require.NoError(t, db.Create(&lesson).Error)

	seedEnrollmentAt(t, db, alice.ID, course.ID, dashNow.Add(-time.Hour))
	// alice both enrolled and completed; bob only completed
	completions := []models.Completion{
		{StudentID: alice.ID, TutorialID: course.ID, LessonID: lesson.ID, CreatedAt: dashNow.Add(-time.Hour)},
	}
	require.NoError(t, db.Create(&completions).Error)

	lesson2 := models.Lesson{TutorialID: course.ID, Title: "L2", Description: "d", VideoURL: "https://v"}
	require.NoError(t, db.Create(&lesson2).Error)
	bobDone := models.Completion{StudentID: bob.ID, TutorialID: course.ID, LessonID: lesson2.ID, CreatedAt: dashNow.Add(-time.Hour)}
	require.NoError(t, db.Create(&bobDone).Error)

	stats, err := svc.Overview(context.Background(), PeriodDay)
	require.NoError(t, err)
	require.Equal(t, 2, stats.ActiveUsers)
}

func TestOverviewWindowExcludesOlderEvents(t *testing.T) {
	db, svc := setupAdminDashboard(t, nil)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")
	course := seedTutorial(t, db, teacher.ID, "Go Basics", 10)

	seedEnrollmentAt(t, db, student.ID, course.ID, dashNow.Add(-48*time.Hour))

	stats, err := svc.Overview(context.Background(), PeriodDay)
	require.NoError(t, err)
	require.Zero(t, stats.Revenue)
	require.Zero(t, stats.ActiveUsers)

	stats, err = svc.Overview(context.Background(), PeriodWeek)
	require.NoError(t, err)
	require.InDelta(t, 10, stats.Revenue, 0.001)
}

func TestOverviewServedFromCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	db, svc := setupAdminDashboard(t, client)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")
	course := seedTutorial(t, db, teacher.ID, "Go Basics", 10)
	seedEnrollmentAt(t, db, student.ID, course.ID, dashNow.Add(-time.Hour))

	first, err := svc.Overview(context.Background(), PeriodDay)
	require.NoError(t, err)
	require.InDelta(t, 10, first.Revenue, 0.001)

	// New data inside the TTL is not visible until the entry expires.
	other := seedUser(t, db, models.RoleStudent, "other@example.com")
	seedEnrollmentAt(t, db, other.ID, course.ID, dashNow.Add(-time.Minute))

	cached, err := svc.Overview(context.Background(), PeriodDay)
	require.NoError(t, err)
	require.InDelta(t, 10, cached.Revenue, 0.001)

	server.FastForward(2 * time.Minute)

	fresh, err := svc.Overview(context.Background(), PeriodDay)
	require.NoError(t, err)
	require.InDelta(t, 20, fresh.Revenue, 0.001)
}

func TestOverviewUnknownPeriodSharesDayCacheEntry(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	db, svc := setupAdminDashboard(t, client)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")
	course := seedTutorial(t, db, teacher.ID, "Go Basics", 10)
	seedEnrollmentAt(t, db, student.ID, course.ID, dashNow.Add(-time.Hour))

	first, err := svc.Overview(context.Background(), PeriodDay)
	require.NoError(t, err)
	require.InDelta(t, 10, first.Revenue, 0.001)

	other := seedUser(t, db, models.RoleStudent, "other@example.com")
	seedEnrollmentAt(t, db, other.ID, course.ID, dashNow.Add(-time.Minute))

	// An unrecognized period resolves to the day window and must reuse
	// the day cache entry instead of minting its own key.
	cached, err := svc.Overview(context.Background(), "quarter")
	require.NoError(t, err)
	require.InDelta(t, 10, cached.Revenue, 0.001)
	require.Len(t, server.Keys(), 1)
}

func TestTopCoursesRanksFiveOfSix(t *testing.T) {
	db, svc := setupAdminDashboard(t, nil)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	for i := 0; i < 6; i++ {
		course := seedTutorial(t, db, teacher.ID, fmt.Sprintf("Course %d", i), 0)
		for j := 0; j <= i; j++ {
			student := seedUser(t, db, models.RoleStudent, fmt.Sprintf("s%d-%d@example.com", i, j))
			seedEnrollmentAt(t, db, student.ID, course.ID, dashNow.Add(-time.Hour))
		}
	}

	top, err := svc.TopCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 5)
	require.Equal(t, "Course 5", top[0].Title)
	require.EqualValues(t, 6, top[0].Enrollments)
	require.Equal(t, "Course 1", top[4].Title)
}

func TestSalesPerformanceBucketsByDay(t *testing.T) {
	db, svc := setupAdminDashboard(t, nil)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	course := seedTutorial(t, db, teacher.ID, "Go Basics", 0)

	dayOne := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	dayTwo := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	for i, at := range []time.Time{dayOne, dayOne.Add(time.Hour), dayTwo} {
		student := seedUser(t, db, models.RoleStudent, fmt.Sprintf("sp%d@example.com", i))
		seedEnrollmentAt(t, db, student.ID, course.ID, at)
	}

	points, err := svc.SalesPerformance(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, 2, points[0].Day)
	require.EqualValues(t, 2, points[0].Count)
	require.Equal(t, 10, points[1].Day)
	require.EqualValues(t, 1, points[1].Count)
}

func TestRecentTransactionsSkipDanglingRows(t *testing.T) {
	db, svc := setupAdminDashboard(t, nil)

	teacher := seedUser(t, db, models.RoleTeacher, "teacher@example.com")
	student := seedUser(t, db, models.RoleStudent, "student@example.com")
	course := seedTutorial(t, db, teacher.ID, "Go Basics", 0)

	seedEnrollmentAt(t, db, student.ID, course.ID, dashNow.Add(-time.Hour))
	// enrollment pointing at a deleted student
	seedEnrollmentAt(t, db, 9999, course.ID, dashNow.Add(-time.Minute))

	entries, err := svc.RecentTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Go Basics", entries[0].CourseTitle)
}
