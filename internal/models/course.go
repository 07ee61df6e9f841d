package models

import "time"

// Course is a catalog entry. EnrollmentCount and Views are denormalized
// counters maintained by the repositories; EnrollmentCount moves in the
// same transaction as the membership row it mirrors.
type Course struct {
	ID              string    `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	Instructor      string    `db:"instructor" json:"instructor"`
	Category        string    `db:"category" json:"category"`
	Price           float64   `db:"price" json:"price"`
	ImageURL        string    `db:"image_url" json:"imageUrl"`
	Duration        string    `db:"duration" json:"duration"`
	EnrollmentCount int       `db:"enrollment_count" json:"enrollmentCount"`
	Views           int       `db:"views" json:"views"`
	CreatedAt       time.Time `db:"created_at" json:"-"`
	UpdatedAt       time.Time `db:"updated_at" json:"-"`
}

// CourseInput is the admin create/update payload.
type CourseInput struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Instructor  string  `json:"instructor"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"imageUrl"`
	Duration    string  `json:"duration"`
}

// CourseStats is the admin stats projection.
type CourseStats struct {
	ID              string `db:"id" json:"id"`
	Title           string `db:"title" json:"title"`
	EnrollmentCount int    `db:"enrollment_count" json:"enrollmentCount"`
	Views           int    `db:"views" json:"views"`
}

// CourseRoster lists who is enrolled in a course.
type CourseRoster struct {
	CourseTitle   string   `json:"courseTitle"`
	EnrolledUsers []string `json:"enrolledUsers"`
}
