package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

// AccountRepository provides database access for accounts and the cart
// and enrollment membership sets hanging off them.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, username, password_hash, google_id, role, dark_mode, created_at, updated_at`

// FindByUsername returns an account by username.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return &account, nil
}

// FindByID returns an account by identifier.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return &account, nil
}

// FindByGoogleID returns an account by its OAuth subject.
func (r *AccountRepository) FindByGoogleID(ctx context.Context, googleID string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE google_id = $1 LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, googleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find account by google id: %w", err)
	}
	return &account, nil
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	const query = `INSERT INTO accounts (id, username, password_hash, google_id, role, dark_mode, created_at, updated_at) VALUES (:id, :username, :password_hash, :google_id, :role, :dark_mode, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// UpdateDarkMode persists the dark-mode preference.
func (r *AccountRepository) UpdateDarkMode(ctx context.Context, id string, darkMode bool) error {
	const query = `UPDATE accounts SET dark_mode = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, darkMode, time.Now().UTC()); err != nil {
		return fmt.Errorf("update dark mode: %w", err)
	}
	return nil
}

// AddToCart inserts a cart row; already-present entries are a no-op.
func (r *AccountRepository) AddToCart(ctx context.Context, accountID, courseID string) error {
	const query = `INSERT INTO cart_items (account_id, course_id, added_at) VALUES ($1, $2, $3) ON CONFLICT (account_id, course_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, accountID, courseID, time.Now().UTC()); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

// RemoveFromCart deletes a cart row if present.
func (r *AccountRepository) RemoveFromCart(ctx context.Context, accountID, courseID string) error {
	const query = `DELETE FROM cart_items WHERE account_id = $1 AND course_id = $2`
	if _, err := r.db.ExecContext(ctx, query, accountID, courseID); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

// ListCart returns the cart resolved to course records.
func (r *AccountRepository) ListCart(ctx context.Context, accountID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.title, c.description, c.instructor, c.category, c.price, c.image_url, c.duration, c.enrollment_count, c.views, c.created_at, c.updated_at
		FROM courses c JOIN cart_items ci ON ci.course_id = c.id
		WHERE ci.account_id = $1 ORDER BY ci.added_at`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, accountID); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	return courses, nil
}

// Enroll adds the course to the account's enrolled set, bumps the
// course's enrollment counter and drops the course from the cart, all in
// one transaction. The counter moves only when a membership row was
// actually inserted, so repeated calls cannot double-count. Returns
// whether a new enrollment happened.
func (r *AccountRepository) Enroll(ctx context.Context, accountID, courseID string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin enroll tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`INSERT INTO enrollments (account_id, course_id, enrolled_at) VALUES ($1, $2, $3) ON CONFLICT (account_id, course_id) DO NOTHING`,
		accountID, courseID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert enrollment: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("enrollment rows affected: %w", err)
	}

	if inserted > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE courses SET enrollment_count = enrollment_count + 1, updated_at = $2 WHERE id = $1`,
			courseID, time.Now().UTC()); err != nil {
			return false, fmt.Errorf("increment enrollment count: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cart_items WHERE account_id = $1 AND course_id = $2`,
			accountID, courseID); err != nil {
			return false, fmt.Errorf("clear cart entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit enroll tx: %w", err)
	}
	return inserted > 0, nil
}

// Unenroll removes the membership row and decrements the counter, floored
// at zero, in one transaction. Returns whether a row was removed.
func (r *AccountRepository) Unenroll(ctx context.Context, accountID, courseID string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin unenroll tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`DELETE FROM enrollments WHERE account_id = $1 AND course_id = $2`,
		accountID, courseID)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unenrollment rows affected: %w", err)
	}

	if deleted > 0 {
		if _, err := tx.ExecContext(ctx,
			`UPDATE courses SET enrollment_count = GREATEST(enrollment_count - 1, 0), updated_at = $2 WHERE id = $1`,
			courseID, time.Now().UTC()); err != nil {
			return false, fmt.Errorf("decrement enrollment count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit unenroll tx: %w", err)
	}
	return deleted > 0, nil
}

// ListEnrolled returns the account's enrolled courses resolved to records.
func (r *AccountRepository) ListEnrolled(ctx context.Context, accountID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.title, c.description, c.instructor, c.category, c.price, c.image_url, c.duration, c.enrollment_count, c.views, c.created_at, c.updated_at
		FROM courses c JOIN enrollments e ON e.course_id = c.id
		WHERE e.account_id = $1 ORDER BY e.enrolled_at`
	courses := []models.Course{}
	if err := r.db.SelectContext(ctx, &courses, query, accountID); err != nil {
		return nil, fmt.Errorf("list enrolled: %w", err)
	}
	return courses, nil
}

// CountEnrolled returns how many courses the account is enrolled in.
func (r *AccountRepository) CountEnrolled(ctx context.Context, accountID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE account_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, accountID); err != nil {
		return 0, fmt.Errorf("count enrolled: %w", err)
	}
	return count, nil
}

// EnrolledUsernames returns the usernames of everyone enrolled in a course.
func (r *AccountRepository) EnrolledUsernames(ctx context.Context, courseID string) ([]string, error) {
	const query = `SELECT a.username FROM accounts a JOIN enrollments e ON e.account_id = a.id WHERE e.course_id = $1 ORDER BY a.username`
	usernames := []string{}
	if err := r.db.SelectContext(ctx, &usernames, query, courseID); err != nil {
		return nil, fmt.Errorf("enrolled usernames: %w", err)
	}
	return usernames, nil
}
