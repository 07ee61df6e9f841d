package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type enrollmentAccountRepository interface {
	FindByID(ctx context.Context, id string) (*models.Account, error)
	AddToCart(ctx context.Context, accountID, courseID string) error
	RemoveFromCart(ctx context.Context, accountID, courseID string) error
	ListCart(ctx context.Context, accountID string) ([]models.Course, error)
	Enroll(ctx context.Context, accountID, courseID string) (bool, error)
	Unenroll(ctx context.Context, accountID, courseID string) (bool, error)
	ListEnrolled(ctx context.Context, accountID string) ([]models.Course, error)
	EnrolledUsernames(ctx context.Context, courseID string) ([]string, error)
}

type enrollmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentService provides cart and enrollment use cases.
type EnrollmentService struct {
	accounts enrollmentAccountRepository
	courses  enrollmentCourseRepository
	logger   *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(accounts enrollmentAccountRepository, courses enrollmentCourseRepository, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{accounts: accounts, courses: courses, logger: logger}
}

// AddToCart puts a course in the caller's cart and returns the resolved
// cart. Adding a course already present changes nothing.
func (s *EnrollmentService) AddToCart(ctx context.Context, accountID, courseID string) ([]models.Course, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}

	if err := s.accounts.AddToCart(ctx, accountID, courseID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add to cart")
	}

	return s.Cart(ctx, accountID)
}

// RemoveFromCart drops a course from the cart, if present, and returns
// the resolved cart.
func (s *EnrollmentService) RemoveFromCart(ctx context.Context, accountID, courseID string) ([]models.Course, error) {
	if err := s.accounts.RemoveFromCart(ctx, accountID, courseID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove from cart")
	}

	return s.Cart(ctx, accountID)
}

// Cart returns the caller's cart resolved to course records.
func (s *EnrollmentService) Cart(ctx context.Context, accountID string) ([]models.Course, error) {
	cart, err := s.accounts.ListCart(ctx, accountID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cart")
	}
	return cart, nil
}

// Enroll adds the caller to a course. The membership row, the enrollment
// counter and the cart cleanup move together in one transaction inside
// the repository; enrolling twice leaves every counter untouched.
func (s *EnrollmentService) Enroll(ctx context.Context, accountID, courseID string) error {
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return err
	}
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return err
	}

	enrolled, err := s.accounts.Enroll(ctx, accountID, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}
	if enrolled {
		s.logger.Info("enrollment recorded", zap.String("account_id", accountID), zap.String("course_id", courseID))
	}
	return nil
}

// Unenroll removes the caller from a course and returns the remaining
// enrolled courses. Removing a course never enrolled in is a no-op.
func (s *EnrollmentService) Unenroll(ctx context.Context, accountID, courseID string) ([]models.Course, error) {
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return nil, err
	}
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}

	if _, err := s.accounts.Unenroll(ctx, accountID, courseID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unenroll")
	}

	return s.Enrolled(ctx, accountID)
}

// Enrolled returns the caller's enrolled courses resolved to records.
func (s *EnrollmentService) Enrolled(ctx context.Context, accountID string) ([]models.Course, error) {
	courses, err := s.accounts.ListEnrolled(ctx, accountID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled courses")
	}
	return courses, nil
}

// Roster returns who is enrolled in a course, for the admin dashboard.
func (s *EnrollmentService) Roster(ctx context.Context, courseID string) (*models.CourseRoster, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}

	usernames, err := s.accounts.EnrolledUsernames(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled users")
	}

	return &models.CourseRoster{CourseTitle: course.Title, EnrolledUsers: usernames}, nil
}

func (s *EnrollmentService) ensureAccount(ctx context.Context, accountID string) error {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}
	return nil
}

func (s *EnrollmentService) ensureCourse(ctx context.Context, courseID string) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}
	return nil
}
