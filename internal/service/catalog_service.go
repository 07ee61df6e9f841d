package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type catalogCourseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, id string, input *models.CourseInput) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, ids []string) error
	Stats(ctx context.Context) ([]models.CourseStats, error)
	Count(ctx context.Context) (int, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type catalogMetrics interface {
	RecordCacheOperation(hit bool, duration time.Duration)
	ObserveCacheWrite(duration time.Duration)
}

const publicCatalogKey = "catalog:public"

// CatalogConfig tunes catalog caching.
type CatalogConfig struct {
	CacheTTL time.Duration
}

// CatalogService provides course browsing and admin CRUD.
type CatalogService struct {
	repo      catalogCourseRepository
	cache     catalogCache
	metrics   catalogMetrics
	validator *validator.Validate
	logger    *zap.Logger
	config    CatalogConfig
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(repo catalogCourseRepository, cache catalogCache, metrics catalogMetrics, validate *validator.Validate, logger *zap.Logger, cfg CatalogConfig) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &CatalogService{repo: repo, cache: cache, metrics: metrics, validator: validate, logger: logger, config: cfg}
}

// PublicList returns the full catalog without touching view counters.
// Served cache-aside: a hit skips the database, a miss repopulates the
// cache for the configured TTL.
func (s *CatalogService) PublicList(ctx context.Context) ([]models.Course, error) {
	if s.cache != nil {
		start := time.Now()
		var cached []models.Course
		err := s.cache.Get(ctx, publicCatalogKey, &cached)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		}
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	if s.cache != nil {
		start := time.Now()
		if err := s.cache.Set(ctx, publicCatalogKey, courses, s.config.CacheTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		} else if s.metrics != nil {
			s.metrics.ObserveCacheWrite(time.Since(start))
		}
	}

	return courses, nil
}

// List returns the catalog for an authenticated viewer and counts one
// view per returned course. The increment is a single SQL statement so
// concurrent viewers never lose counts; the returned copies carry the
// bumped value.
func (s *CatalogService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	if len(courses) > 0 {
		ids := make([]string, len(courses))
		for i := range courses {
			ids[i] = courses[i].ID
		}
		if err := s.repo.IncrementViews(ctx, ids); err != nil {
			s.logger.Warn("failed to increment views", zap.Error(err))
		} else {
			for i := range courses {
				courses[i].Views++
			}
		}
	}

	return courses, nil
}

// Get returns one course and counts a view for it.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.findCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, []string{id}); err != nil {
		s.logger.Warn("failed to increment views", zap.Error(err), zap.String("course_id", id))
	} else {
		course.Views++
	}

	return course, nil
}

// Create adds a course and invalidates the public cache.
func (s *CatalogService) Create(ctx context.Context, input models.CourseInput) (*models.Course, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	course := &models.Course{
		Title:       input.Title,
		Description: input.Description,
		Instructor:  input.Instructor,
		Category:    input.Category,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Duration:    input.Duration,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidatePublic(ctx)
	return course, nil
}

// Update rewrites a course's editable fields and invalidates the cache.
func (s *CatalogService) Update(ctx context.Context, id string, input models.CourseInput) (*models.Course, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	if err := s.repo.Update(ctx, id, &input); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.invalidatePublic(ctx)
	return s.findCourse(ctx, id)
}

// Delete hard-deletes a course; membership rows cascade away with it.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	s.invalidatePublic(ctx)
	return nil
}

// Stats returns per-course counters for the admin dashboard.
func (s *CatalogService) Stats(ctx context.Context) ([]models.CourseStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stats")
	}
	return stats, nil
}

// Seed inserts the given courses when the catalog is empty. Called once
// at startup; a non-empty table makes it a no-op.
func (s *CatalogService) Seed(ctx context.Context, courses []models.Course) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	if count > 0 {
		return 0, nil
	}

	for i := range courses {
		course := courses[i]
		if err := s.repo.Create(ctx, &course); err != nil {
			return i, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed course")
		}
	}

	s.logger.Info("seeded course catalog", zap.Int("count", len(courses)))
	return len(courses), nil
}

func (s *CatalogService) findCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}
	return course, nil
}

func (s *CatalogService) invalidatePublic(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, publicCatalogKey); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
