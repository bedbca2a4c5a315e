package dto

// AdminCreateRequest provisions a new back-office admin.
type AdminCreateRequest struct {
	FirstName  string `json:"firstName" validate:"required,min=3,max=50"`
	LastName   string `json:"lastName" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	ProfilePic string `json:"profilePic" validate:"omitempty,max=512"`
}

// UserUpdateRequest edits an account from the admin panel. Role selects the
// identity space (student/teacher edit the User table, admin the Admin table).
type UserUpdateRequest struct {
	FirstName  string `json:"firstName" validate:"required,min=3,max=50"`
	LastName   string `json:"lastName" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Role       string `json:"role" validate:"required,oneof=student teacher admin"`
	ProfilePic string `json:"profilePic" validate:"omitempty,max=512"`
}

// UserDeleteRequest selects the identity space for a deletion.
type UserDeleteRequest struct {
	Role string `json:"role" validate:"required,oneof=student teacher admin"`
}

// UserSummary is one account row in the admin user list.
type UserSummary struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	ProfilePic string `json:"profilePic"`
}

// AdminCourseRow is one course with its instructor in the admin catalog.
type AdminCourseRow struct {
	ID         uint    `json:"id"`
	Title      string  `json:"title"`
	Thumbnail  string  `json:"thumbnail"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Instructor string  `json:"instructor"`
}

// AdminLessonRow is one lesson with its course title in the admin catalog.
type AdminLessonRow struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	Tutorial    string `json:"tutorial"`
}
