package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/dberrors"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userSelect = `
	SELECT u.id, u.username, u.name, u.email, u.password_hash, u.role_id,
	       u.college_id, u.register_number, u.is_verified, u.created_at,
	       u.last_active, r.id, r.name
	FROM users u
	JOIN roles r ON u.role_id = r.id
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var role models.Role
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.RoleID,
		&user.CollegeID,
		&user.RegisterNumber,
		&user.IsVerified,
		&user.CreatedAt,
		&user.LastActive,
		&role.ID,
		&role.Name,
	)
	if err != nil {
		return nil, err
	}
	user.Role = &role
	return &user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.create(ctx, r.db, user)
}

// CreateTx inserts a new user within an existing transaction. Student
// signup uses this so the insert and the registry seat claim commit
// together.
func (r *UserRepository) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error {
	return r.create(ctx, tx, user)
}

// rowQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, which is all
// the shared insert helper needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *UserRepository) create(ctx context.Context, q rowQuerier, user *models.User) error {
	query := `
		INSERT INTO users (username, name, email, password_hash, role_id,
		                   college_id, register_number, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		user.Username,
		user.Name,
		user.Email,
		user.Password,
		user.RoleID,
		user.CollegeID,
		user.RegisterNumber,
		user.IsVerified,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameExists
		}
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user with their role by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user with their role by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE u.email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// ExistsByEmail checks whether a user exists with the given email
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return exists, nil
}

// ExistsByUsername checks whether a user exists with the given username
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking user existence: %w", err)
	}
	return exists, nil
}

// SetVerified flips a user's verification flag
func (r *UserRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE users SET is_verified = $1 WHERE id = $2`, verified, id)
	if err != nil {
		return fmt.Errorf("error updating user verification: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete hard-deletes a user together with everything that references
// them: tokens, activity, their notes (statuses first) and any verifier
// marks they left on other notes. One transaction, so a verified teacher
// with uploads deletes as cleanly as a fresh rejected registration. The
// local filenames of their removed notes come back for a best-effort file
// sweep by the caller.
func (r *UserRepository) Delete(ctx context.Context, id int64) ([]string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("error starting user delete: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT filename FROM notes WHERE user_id = $1 AND filename IS NOT NULL`, id)
	if err != nil {
		return nil, fmt.Errorf("error listing user note files: %w", err)
	}
	var filenames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning note filename: %w", err)
		}
		filenames = append(filenames, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error listing user note files: %w", err)
	}

	statements := []string{
		`DELETE FROM refresh_tokens WHERE user_id = $1`,
		`DELETE FROM activity_logs WHERE user_id = $1`,
		`UPDATE verification_status SET verifier_id = NULL WHERE verifier_id = $1`,
		`DELETE FROM verification_status WHERE note_id IN (SELECT id FROM notes WHERE user_id = $1)`,
		`DELETE FROM notes WHERE user_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return nil, fmt.Errorf("error cleaning user references: %w", err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("error deleting user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing user delete: %w", err)
	}
	return filenames, nil
}

// TouchLastActive stamps the user's last_active to now
func (r *UserRepository) TouchLastActive(ctx context.Context, id int64, now time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_active = $1 WHERE id = $2`, now, id)
	if err != nil {
		return fmt.Errorf("error touching last_active: %w", err)
	}
	return nil
}

// ListByRole retrieves users with the given role, optionally restricted to a
// college and a verification state.
func (r *UserRepository) ListByRole(ctx context.Context, roleName models.RoleName, collegeID *int64, verified *bool) ([]*models.User, error) {
	query := userSelect + ` WHERE r.name = $1`
	args := []any{string(roleName)}

	if collegeID != nil {
		args = append(args, *collegeID)
		query += fmt.Sprintf(" AND u.college_id = $%d", len(args))
	}
	if verified != nil {
		args = append(args, *verified)
		query += fmt.Sprintf(" AND u.is_verified = $%d", len(args))
	}
	query += ` ORDER BY u.name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
