package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/repository"
)

// Landing page ranking sizes.
const (
	topCoursesLimit  = 6
	topTeachersLimit = 3
)

// CatalogService serves the unauthenticated browse surface.
type CatalogService interface {
	Courses(ctx context.Context, search, category string) ([]dto.CatalogCourse, error)
	CourseDetails(ctx context.Context, tutorialID uint) (dto.CourseDetailsResponse, error)
	Teachers(ctx context.Context, category string) ([]dto.TeacherDirectoryEntry, error)
	TopCourses(ctx context.Context, category string) ([]dto.RatedCourse, error)
	Homepage(ctx context.Context) (dto.HomepageContent, error)
}

type catalogService struct {
	tutorials   repository.TutorialRepository
	users       repository.UserRepository
	enrollments repository.EnrollmentRepository
	reviews     repository.ReviewRepository
	analytics   repository.AnalyticsRepository
	logger      zerolog.Logger
}

// NewCatalogService constructs the catalog service.
func NewCatalogService(
	tutorials repository.TutorialRepository,
	users repository.UserRepository,
	enrollments repository.EnrollmentRepository,
	reviews repository.ReviewRepository,
	analytics repository.AnalyticsRepository,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		tutorials:   tutorials,
		users:       users,
		enrollments: enrollments,
		reviews:     reviews,
		analytics:   analytics,
		logger:      logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) Courses(ctx context.Context, search, category string) ([]dto.CatalogCourse, error) {
	filter := repository.TutorialFilter{Category: category, TitleTerm: search}
	if search != "" {
		// A search term matches course titles and teacher names alike.
		teacherIDs, err := s.users.SearchByName(ctx, search)
		if err != nil {
			return nil, err
		}
		filter.TeacherIDs = teacherIDs
	}

	tutorials, err := s.tutorials.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(tutorials) == 0 {
		return []dto.CatalogCourse{}, nil
	}

	ids := make([]uint, 0, len(tutorials))
	for _, tutorial := range tutorials {
		ids = append(ids, tutorial.ID)
	}
	stats, err := s.analytics.RatingStatsByTutorial(ctx, ids)
	if err != nil {
		return nil, err
	}
	ratings := make(map[uint]repository.TutorialRating, len(stats))
	for _, stat := range stats {
		ratings[stat.TutorialID] = stat
	}

	courses := make([]dto.CatalogCourse, 0, len(tutorials))
	for _, tutorial := range tutorials {
		stat := ratings[tutorial.ID]
		courses = append(courses, dto.CatalogCourse{
			ID:            tutorial.ID,
			Title:         tutorial.Title,
			Price:         tutorial.Price,
			Category:      tutorial.Category,
			Thumbnail:     tutorial.Thumbnail,
			Description:   tutorial.Description,
			AverageRating: stat.AverageRating,
			ReviewCount:   stat.ReviewCount,
			Teacher: dto.CatalogTeacher{
				ID:         tutorial.Teacher.ID,
				FullName:   tutorial.Teacher.FullName(),
				Profile:    tutorial.Teacher.Profile,
				ProfilePic: tutorial.Teacher.ProfilePic,
			},
		})
	}
	return courses, nil
}

func (s *catalogService) CourseDetails(ctx context.Context, tutorialID uint) (dto.CourseDetailsResponse, error) {
	tutorial, err := s.tutorials.GetWithContent(ctx, tutorialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseDetailsResponse{}, ErrCourseNotFound
		}
		return dto.CourseDetailsResponse{}, err
	}

	enrolled, err := s.enrollments.CountByTutorial(ctx, tutorialID)
	if err != nil {
		return dto.CourseDetailsResponse{}, err
	}
	reviews, err := s.reviews.ListByTutorial(ctx, tutorialID)
	if err != nil {
		return dto.CourseDetailsResponse{}, err
	}

	entries, average := reviewEntries(reviews)

	faqs := make([]dto.CourseFaqEntry, 0, len(tutorial.Faqs))
	for _, faq := range tutorial.Faqs {
		faqs = append(faqs, dto.CourseFaqEntry{Question: faq.Question, Answer: faq.Answer})
	}
	lessons := make([]dto.CourseLessonEntry, 0, len(tutorial.Lessons))
	for _, lesson := range tutorial.Lessons {
		lessons = append(lessons, dto.CourseLessonEntry{ID: lesson.ID, Title: lesson.Title})
	}

	return dto.CourseDetailsResponse{
		ID:            tutorial.ID,
		Title:         tutorial.Title,
		Description:   tutorial.Description,
		Price:         tutorial.Price,
		Thumbnail:     tutorial.Thumbnail,
		Category:      tutorial.Category,
		Benefits:      []string(tutorial.Benefits),
		Prerequisites: []string(tutorial.Prerequisites),
		Teacher: dto.CatalogTeacher{
			ID:         tutorial.Teacher.ID,
			FullName:   tutorial.Teacher.FullName(),
			Profile:    tutorial.Teacher.Profile,
			ProfilePic: tutorial.Teacher.ProfilePic,
		},
		AverageRating: average,
		TotalReviews:  len(reviews),
		TotalEnrolled: enrolled,
		Reviews:       entries,
		Faqs:          faqs,
		Lessons:       lessons,
	}, nil
}

func (s *catalogService) Teachers(ctx context.Context, category string) ([]dto.TeacherDirectoryEntry, error) {
	counts, err := s.tutorials.CountByTeacher(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return []dto.TeacherDirectoryEntry{}, nil
	}

	ids := make([]uint, 0, len(counts))
	totals := make(map[uint]int64, len(counts))
	for _, count := range counts {
		ids = append(ids, count.TeacherID)
		totals[count.TeacherID] = count.Total
	}

	teachers, err := s.users.ListTeachers(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.TeacherDirectoryEntry, 0, len(teachers))
	for _, teacher := range teachers {
		entries = append(entries, dto.TeacherDirectoryEntry{
			TeacherID:    teacher.ID,
			FullName:     teacher.FullName(),
			Profile:      teacher.Profile,
			ProfilePic:   teacher.ProfilePic,
			TotalCourses: totals[teacher.ID],
		})
	}
	return entries, nil
}

func (s *catalogService) TopCourses(ctx context.Context, category string) ([]dto.RatedCourse, error) {
	rows, err := s.analytics.TopCoursesByRating(ctx, category, topCoursesLimit)
	if err != nil {
		return nil, err
	}
	return ratedCourses(rows), nil
}

func (s *catalogService) Homepage(ctx context.Context) (dto.HomepageContent, error) {
	courseRows, err := s.analytics.TopCoursesByRating(ctx, "", topCoursesLimit)
	if err != nil {
		return dto.HomepageContent{}, err
	}
	teacherRows, err := s.analytics.TopTeachersByRating(ctx, topTeachersLimit)
	if err != nil {
		return dto.HomepageContent{}, err
	}

	teachers := make([]dto.RatedTeacher, 0, len(teacherRows))
	for _, row := range teacherRows {
		teachers = append(teachers, dto.RatedTeacher{
			TeacherID:    row.TeacherID,
			FullName:     row.FirstName + " " + row.LastName,
			Profile:      row.Profile,
			Bio:          row.Bio,
			ProfilePic:   row.ProfilePic,
			AvgReviews:   row.AvgRating,
			TotalReviews: row.TotalReviews,
			CoursesCount: row.CoursesCount,
		})
	}

	return dto.HomepageContent{
		TopCourses:  ratedCourses(courseRows),
		TopTeachers: teachers,
	}, nil
}

func ratedCourses(rows []repository.CourseRating) []dto.RatedCourse {
	courses := make([]dto.RatedCourse, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, dto.RatedCourse{
			ID:            row.TutorialID,
			Title:         row.Title,
			Thumbnail:     row.Thumbnail,
			Description:   row.Description,
			Price:         row.Price,
			Category:      row.Category,
			AverageRating: row.AverageRating,
			ReviewCount:   row.ReviewCount,
			TeacherID:     row.TeacherID,
			TeacherName:   row.TeacherFirstName + " " + row.TeacherLastName,
		})
	}
	return courses
}
