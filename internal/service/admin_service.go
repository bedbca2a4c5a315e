package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
)

// AdminService covers back-office account management and the admin catalog
// views. Role on a request selects the identity space: student and teacher
// rows live in the users table, admin rows in their own.
type AdminService interface {
	AddAdmin(ctx context.Context, req dto.AdminCreateRequest) (models.Admin, error)
	ListUsers(ctx context.Context) ([]dto.UserSummary, error)
	UpdateUser(ctx context.Context, userID uint, req dto.UserUpdateRequest) (dto.UserSummary, error)
	DeleteUser(ctx context.Context, userID uint, req dto.UserDeleteRequest) error
	ListCourses(ctx context.Context) ([]dto.AdminCourseRow, error)
	ListLessons(ctx context.Context) ([]dto.AdminLessonRow, error)
}

type adminService struct {
	users     repository.UserRepository
	admins    repository.AdminRepository
	tutorials repository.TutorialRepository
	lessons   repository.LessonRepository
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewAdminService constructs the admin service.
func NewAdminService(
	users repository.UserRepository,
	admins repository.AdminRepository,
	tutorials repository.TutorialRepository,
	lessons repository.LessonRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		users:     users,
		admins:    admins,
		tutorials: tutorials,
		lessons:   lessons,
		validate:  validate,
		logger:    logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) AddAdmin(ctx context.Context, req dto.AdminCreateRequest) (models.Admin, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.Admin{}, err
	}

	if _, err := s.admins.GetByEmail(ctx, req.Email); err == nil {
		return models.Admin{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Admin{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Admin{}, err
	}

	admin := models.Admin{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		ProfilePic:   req.ProfilePic,
	}
	if err := s.admins.Create(ctx, &admin); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Admin{}, ErrEmailTaken
		}
		return models.Admin{}, err
	}

	s.logger.Info().Uint("admin_id", admin.ID).Msg("admin account created")
	return admin, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]dto.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.UserSummary, 0, len(users)+len(admins))
	for _, user := range users {
		summaries = append(summaries, dto.UserSummary{
			ID:         user.ID,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			Email:      user.Email,
			Role:       user.Role,
			ProfilePic: user.ProfilePic,
		})
	}
	for _, admin := range admins {
		summaries = append(summaries, dto.UserSummary{
			ID:         admin.ID,
			FirstName:  admin.FirstName,
			LastName:   admin.LastName,
			Email:      admin.Email,
			Role:       models.RoleAdmin,
			ProfilePic: admin.ProfilePic,
		})
	}
	return summaries, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID uint, req dto.UserUpdateRequest) (dto.UserSummary, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.UserSummary{}, err
	}

	if req.Role == models.RoleAdmin {
		admin, err := s.admins.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.UserSummary{}, ErrUserNotFound
			}
			return dto.UserSummary{}, err
		}
		admin.FirstName = req.FirstName
		admin.LastName = req.LastName
		admin.Email = req.Email
		if req.ProfilePic != "" {
			admin.ProfilePic = req.ProfilePic
		}
		if err := s.admins.Update(ctx, &admin); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return dto.UserSummary{}, ErrEmailTaken
			}
			return dto.UserSummary{}, err
		}
		return dto.UserSummary{
			ID:         admin.ID,
			FirstName:  admin.FirstName,
			LastName:   admin.LastName,
			Email:      admin.Email,
			Role:       models.RoleAdmin,
			ProfilePic: admin.ProfilePic,
		}, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserSummary{}, ErrUserNotFound
		}
		return dto.UserSummary{}, err
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.Role = req.Role
	if req.ProfilePic != "" {
		user.ProfilePic = req.ProfilePic
	}
	if err := s.users.Update(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserSummary{}, ErrEmailTaken
		}
		return dto.UserSummary{}, err
	}
	return dto.UserSummary{
		ID:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Email:      user.Email,
		Role:       user.Role,
		ProfilePic: user.ProfilePic,
	}, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID uint, req dto.UserDeleteRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	var err error
	if req.Role == models.RoleAdmin {
		err = s.admins.Delete(ctx, userID)
	} else {
		err = s.users.Delete(ctx, userID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info().Uint("user_id", userID).Str("role", req.Role).Msg("account deleted")
	return nil
}

func (s *adminService) ListCourses(ctx context.Context) ([]dto.AdminCourseRow, error) {
	tutorials, err := s.tutorials.List(ctx, repository.TutorialFilter{})
	if err != nil {
		return nil, err
	}

	rows := make([]dto.AdminCourseRow, 0, len(tutorials))
	for _, tutorial := range tutorials {
		rows = append(rows, dto.AdminCourseRow{
			ID:         tutorial.ID,
			Title:      tutorial.Title,
			Thumbnail:  tutorial.Thumbnail,
			Category:   tutorial.Category,
			Price:      tutorial.Price,
			Instructor: tutorial.Teacher.FullName(),
		})
	}
	return rows, nil
}

func (s *adminService) ListLessons(ctx context.Context) ([]dto.AdminLessonRow, error) {
	lessons, err := s.lessons.ListWithCourse(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.AdminLessonRow, 0, len(lessons))
	for _, lesson := range lessons {
		rows = append(rows, dto.AdminLessonRow{
			ID:          lesson.ID,
			Title:       lesson.Title,
			Description: lesson.Description,
			VideoURL:    lesson.VideoURL,
			Tutorial:    lesson.CourseTitle,
		})
	}
	return rows, nil
}
