package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

// CourseRepository provides database access for the course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, title, description, instructor, category, price, image_url, duration, enrollment_count, views, created_at, updated_at`

// List returns every course, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a single course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, title, description, instructor, category, price, image_url, duration, enrollment_count, views, created_at, updated_at)
		VALUES (:id, :title, :description, :instructor, :category, :price, :image_url, :duration, :enrollment_count, :views, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a course. Counters are owned by
// the enrollment and view paths and are never touched here. Returns
// sql.ErrNoRows when the course does not exist.
func (r *CourseRepository) Update(ctx context.Context, id string, input *models.CourseInput) error {
	const query = `UPDATE courses SET title = $2, description = $3, instructor = $4, category = $5, price = $6, image_url = $7, duration = $8, updated_at = $9 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id,
		input.Title, input.Description, input.Instructor, input.Category,
		input.Price, input.ImageURL, input.Duration, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update course rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a course and, via cascading foreign keys, its cart and
// enrollment rows. Returns sql.ErrNoRows when the course does not exist.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementViews bumps the view counter for each given course atomically
// in the database, so concurrent fetches never lose an increment.
func (r *CourseRepository) IncrementViews(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	const query = `UPDATE courses SET views = views + 1 WHERE id = ANY($1)`
	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// Stats returns the per-course counters for the admin dashboard.
func (r *CourseRepository) Stats(ctx context.Context) ([]models.CourseStats, error) {
	const query = `SELECT id, title, enrollment_count, views FROM courses ORDER BY enrollment_count DESC, title`
	stats := []models.CourseStats{}
	if err := r.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("course stats: %w", err)
	}
	return stats, nil
}

// Count returns the number of courses in the catalog.
func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM courses`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return count, nil
}
