package dto

// RegisterRequest carries the fields needed to create a student or teacher account.
type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=3,max=50"`
	LastName        string `json:"lastName" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof=student teacher"`
}

// LoginRequest carries user or admin credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthUser is the identity payload returned alongside tokens.
type AuthUser struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// AuthResponse bundles the issued tokens with the authenticated identity.
type AuthResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         AuthUser `json:"user"`
}

// ProfileUpdateRequest updates the authenticated user's profile.
type ProfileUpdateRequest struct {
	FirstName  string `json:"firstName" validate:"required,min=3,max=50"`
	LastName   string `json:"lastName" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Profile    string `json:"profile" validate:"omitempty,max=255"`
	Bio        string `json:"bio" validate:"omitempty,max=1000"`
	ProfilePic string `json:"profilePic" validate:"omitempty,max=512"`
}
