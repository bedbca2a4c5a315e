package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
)

// Auth failure modes surfaced to handlers.
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// TokenOptions carries the signing material for issued JWTs.
type TokenOptions struct {
	AccessSecret    string
	RefreshSecret   string
	AccessLifetime  time.Duration
	RefreshLifetime time.Duration
}

// AuthService registers accounts and issues tokens.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	LoginAdmin(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (dto.AuthResponse, error)
	Profile(ctx context.Context, userID uint) (models.User, error)
	UpdateProfile(ctx context.Context, userID uint, req dto.ProfileUpdateRequest) (models.User, error)
}

type authService struct {
	users    repository.UserRepository
	admins   repository.AdminRepository
	tokens   TokenOptions
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, admins repository.AdminRepository, tokens TokenOptions, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:    users,
		admins:   admins,
		tokens:   tokens,
		validate: validate,
		logger:   logger.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, ErrEmailTaken
		}
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("account registered")
	return s.issueTokens(user.ID, user.FullName(), user.Email, user.FirstName, user.LastName, user.Role)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issueTokens(user.ID, user.FullName(), user.Email, user.FirstName, user.LastName, user.Role)
}

func (s *authService) LoginAdmin(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	admin, err := s.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issueTokens(admin.ID, admin.FullName(), admin.Email, admin.FirstName, admin.LastName, models.RoleAdmin)
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// account is reloaded so a revoked or deleted identity cannot renew.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (dto.AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.tokens.RefreshSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return dto.AuthResponse{}, ErrInvalidRefreshToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return dto.AuthResponse{}, ErrInvalidRefreshToken
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return dto.AuthResponse{}, ErrInvalidRefreshToken
	}
	role, _ := claims["role"].(string)

	if role == models.RoleAdmin {
		admin, err := s.admins.GetByID(ctx, uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.AuthResponse{}, ErrInvalidRefreshToken
			}
			return dto.AuthResponse{}, err
		}
		return s.issueTokens(admin.ID, admin.FullName(), admin.Email, admin.FirstName, admin.LastName, models.RoleAdmin)
	}

	user, err := s.users.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidRefreshToken
		}
		return dto.AuthResponse{}, err
	}
	return s.issueTokens(user.ID, user.FullName(), user.Email, user.FirstName, user.LastName, user.Role)
}

func (s *authService) Profile(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, req dto.ProfileUpdateRequest) (models.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.User{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.Profile = req.Profile
	user.Bio = req.Bio
	if req.ProfilePic != "" {
		user.ProfilePic = req.ProfilePic
	}

	if err := s.users.Update(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *authService) issueTokens(id uint, name, email, firstName, lastName, role string) (dto.AuthResponse, error) {
	now := s.now()

	access, err := s.signToken(jwt.MapClaims{
		"user_id": id,
		"name":    name,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokens.AccessLifetime).Unix(),
	}, s.tokens.AccessSecret)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	refresh, err := s.signToken(jwt.MapClaims{
		"user_id": id,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokens.RefreshLifetime).Unix(),
	}, s.tokens.RefreshSecret)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: dto.AuthUser{
			ID:        id,
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
			Role:      role,
		},
	}, nil
}

func (s *authService) signToken(claims jwt.MapClaims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
