package dto

// CatalogTeacher is the denormalized teacher block on catalog entries.
type CatalogTeacher struct {
	ID         uint   `json:"id"`
	FullName   string `json:"fullName"`
	Profile    string `json:"profile"`
	ProfilePic string `json:"profilePic"`
}

// CatalogCourse is one row of the public course listing.
type CatalogCourse struct {
	ID            uint           `json:"id"`
	Title         string         `json:"title"`
	Price         float64        `json:"price"`
	Category      string         `json:"category"`
	Thumbnail     string         `json:"thumbnail"`
	Description   string         `json:"description"`
	AverageRating float64        `json:"averageRating"`
	ReviewCount   int64          `json:"reviewCount"`
	Teacher       CatalogTeacher `json:"teacher"`
}

// CourseLessonEntry lists a lesson title on the public course page.
type CourseLessonEntry struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// CourseFaqEntry lists a FAQ on the public course page.
type CourseFaqEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CourseDetailsResponse is the public course page payload.
type CourseDetailsResponse struct {
	ID            uint                `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Price         float64             `json:"price"`
	Thumbnail     string              `json:"thumbnail"`
	Category      string              `json:"category"`
	Benefits      []string            `json:"benefits"`
	Prerequisites []string            `json:"prerequisites"`
	Teacher       CatalogTeacher      `json:"teacher"`
	AverageRating float64             `json:"averageRating"`
	TotalReviews  int                 `json:"totalReviews"`
	TotalEnrolled int64               `json:"totalEnrolled"`
	Reviews       []ReviewEntry       `json:"reviews"`
	Faqs          []CourseFaqEntry    `json:"faqs"`
	Lessons       []CourseLessonEntry `json:"lessons"`
}

// TeacherDirectoryEntry is one teacher in the public directory.
type TeacherDirectoryEntry struct {
	TeacherID    uint   `json:"teacherId"`
	FullName     string `json:"fullName"`
	Profile      string `json:"profile"`
	ProfilePic   string `json:"profilePic"`
	TotalCourses int64  `json:"totalCourses"`
}

// RatedCourse is a course ranked by its average review rating.
type RatedCourse struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Thumbnail     string  `json:"thumbnail"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
	TeacherID     uint    `json:"teacherId"`
	TeacherName   string  `json:"teacherName"`
}

// RatedTeacher is a teacher ranked by average rating across their courses.
type RatedTeacher struct {
	TeacherID    uint    `json:"teacherId"`
	FullName     string  `json:"fullName"`
	Profile      string  `json:"profile"`
	Bio          string  `json:"bio"`
	ProfilePic   string  `json:"profilePic"`
	AvgReviews   float64 `json:"avgReviews"`
	TotalReviews int64   `json:"totalReviews"`
	CoursesCount int64   `json:"coursesCount"`
}

// HomepageContent groups the landing page rankings.
type HomepageContent struct {
	TopCourses  []RatedCourse  `json:"topCourses"`
	TopTeachers []RatedTeacher `json:"topTeachers"`
}
