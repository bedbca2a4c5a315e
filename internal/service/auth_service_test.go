package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/devking-app/devking-api/internal/dto"
	"github.com/devking-app/devking-api/internal/models"
	"github.com/devking-app/devking-api/internal/repository"
)

func setupAuthService(t *testing.T) (*gorm.DB, AuthService) {
	t.Helper()

	db := openTestDB(t, "auth")
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewAdminRepository(db),
		TokenOptions{
			AccessSecret:    "access-secret",
			RefreshSecret:   "refresh-secret",
			AccessLifetime:  time.Hour,
			RefreshLifetime: 24 * time.Hour,
		},
		validator.New(validator.WithRequiredStructEnabled()),
		testLogger(),
	)
	return db, svc
}

func TestRegisterAndLogin(t *testing.T) {
	_, svc := setupAuthService(t)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName:       "Dian",
		LastName:        "Sastro",
		Email:           "Dian@Example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            models.RoleStudent,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, models.RoleStudent, resp.User.Role)

	// the email is normalised on save, so login is case-insensitive by value
	login, err := svc.Login(context.Background(), dto.LoginRequest{Email: "dian@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, login.User.ID)

	token, err := jwt.Parse(login.AccessToken, func(token *jwt.Token) (any, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, models.RoleStudent, claims["role"])
	require.Equal(t, "Dian Sastro", claims["name"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := setupAuthService(t)

	req := dto.RegisterRequest{
		FirstName:       "Dian",
		LastName:        "Sastro",
		Email:           "dian@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            models.RoleTeacher,
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	_, svc := setupAuthService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName:       "Dian",
		LastName:        "Sastro",
		Email:           "dian@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            models.RoleStudent,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "dian@example.com", Password: "nope-nope"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLoginUsesAdminTable(t *testing.T) {
	db, svc := setupAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := models.Admin{FirstName: "Root", LastName: "Admin", Email: "root@example.com", PasswordHash: string(hash)}
	require.NoError(t, db.Create(&admin).Error)

	resp, err := svc.LoginAdmin(context.Background(), dto.LoginRequest{Email: "root@example.com", Password: "admin-pass"})
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, resp.User.Role)

	// a student cannot use the admin entrance
	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		FirstName:       "Dian",
		LastName:        "Sastro",
		Email:           "dian@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            models.RoleStudent,
	})
	require.NoError(t, err)
	_, err = svc.LoginAdmin(context.Background(), dto.LoginRequest{Email: "dian@example.com", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	_, svc := setupAuthService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName:       "Dian",
		LastName:        "Sastro",
		Email:           "dian@example.com",
		Password:        "secret123",
		ConfirmPassword: "different",
		Role:            models.RoleStudent,
	})
	require.Error(t, err)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		FirstName:       "Dian",
		LastName:        "Sastro",
		Email:           "dian@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            "superuser",
	})
	require.Error(t, err)
}

func TestRefreshReissuesTokens(t *testing.T) {
	_, svc := setupAuthService(t)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName:       "Dian",
		LastName:        "Sastro",
		Email:           "dian@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            models.RoleTeacher,
	})
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, renewed.AccessToken)
	require.NotEmpty(t, renewed.RefreshToken)
	require.Equal(t, resp.User.ID, renewed.User.ID)
	require.Equal(t, models.RoleTeacher, renewed.User.Role)

	token, err := jwt.Parse(renewed.AccessToken, func(token *jwt.Token) (any, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleTeacher, token.Claims.(jwt.MapClaims)["role"])
}

func TestRefreshRejectsWrongToken(t *testing.T) {
	_, svc := setupAuthService(t)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		FirstName:       "Dian",
		LastName:        "Sastro",
		Email:           "dian@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            models.RoleStudent,
	})
	require.NoError(t, err)

	// an access token is signed with a different secret and cannot renew
	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshAdminToken(t *testing.T) {
	db, svc := setupAuthService(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := models.Admin{FirstName: "Root", LastName: "Admin", Email: "root@example.com", PasswordHash: string(hash)}
	require.NoError(t, db.Create(&admin).Error)

	resp, err := svc.LoginAdmin(context.Background(), dto.LoginRequest{Email: "root@example.com", Password: "admin-pass"})
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, renewed.User.Role)
	require.Equal(t, admin.ID, renewed.User.ID)
}
