package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/dberrors"
)

// CollegeRepository handles database operations for colleges
type CollegeRepository struct {
	db *pgxpool.Pool
}

// NewCollegeRepository creates a new college repository
func NewCollegeRepository(db *pgxpool.Pool) *CollegeRepository {
	return &CollegeRepository{
		db: db,
	}
}

// Create creates a new college
func (r *CollegeRepository) Create(ctx context.Context, college *models.College) error {
	query := `
		INSERT INTO colleges (name, address)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, college.Name, college.Address).Scan(&college.ID, &college.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCollegeAlreadyExists
		}
		return fmt.Errorf("error creating college: %w", err)
	}

	return nil
}

// GetByID retrieves a college by ID
func (r *CollegeRepository) GetByID(ctx context.Context, id int64) (*models.College, error) {
	query := `
		SELECT id, name, address, created_at
		FROM colleges
		WHERE id = $1
	`

	var college models.College
	err := r.db.QueryRow(ctx, query, id).Scan(
		&college.ID,
		&college.Name,
		&college.Address,
		&college.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("error retrieving college: %w", err)
	}

	return &college, nil
}

// GetAll retrieves all colleges ordered by id
func (r *CollegeRepository) GetAll(ctx context.Context) ([]*models.College, error) {
	query := `
		SELECT id, name, address, created_at
		FROM colleges
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colleges []*models.College
	for rows.Next() {
		var college models.College
		if err := rows.Scan(
			&college.ID,
			&college.Name,
			&college.Address,
			&college.CreatedAt,
		); err != nil {
			return nil, err
		}
		colleges = append(colleges, &college)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return colleges, nil
}

// Update renames a college
func (r *CollegeRepository) Update(ctx context.Context, college *models.College) error {
	query := `
		UPDATE colleges
		SET name = $1, address = $2
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, college.Name, college.Address, college.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCollegeAlreadyExists
		}
		return fmt.Errorf("error updating college: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCollegeNotFound
	}

	return nil
}

// DeleteCascadeTx removes a college and everything scoped to it, bottom-up
// so no foreign key is ever dangling: verification statuses, notes, registry
// entries, the syllabus tree, the college's users, then the college row.
func (r *CollegeRepository) DeleteCascadeTx(ctx context.Context, tx pgx.Tx, id int64) error {
	statements := []string{
		`DELETE FROM verification_status WHERE note_id IN (SELECT id FROM notes WHERE college_id = $1)`,
		`DELETE FROM notes WHERE college_id = $1`,
		`DELETE FROM student_registry WHERE college_id = $1`,
		`DELETE FROM topics WHERE unit_id IN (
			SELECT u.id FROM units u
			JOIN subjects s ON u.subject_id = s.id
			JOIN semesters se ON s.semester_id = se.id
			JOIN courses c ON se.course_id = c.id
			WHERE c.college_id = $1)`,
		`DELETE FROM units WHERE subject_id IN (
			SELECT s.id FROM subjects s
			JOIN semesters se ON s.semester_id = se.id
			JOIN courses c ON se.course_id = c.id
			WHERE c.college_id = $1)`,
		`DELETE FROM subjects WHERE semester_id IN (
			SELECT se.id FROM semesters se
			JOIN courses c ON se.course_id = c.id
			WHERE c.college_id = $1)`,
		`DELETE FROM semesters WHERE course_id IN (SELECT id FROM courses WHERE college_id = $1)`,
		`DELETE FROM courses WHERE college_id = $1`,
		`DELETE FROM activity_logs WHERE user_id IN (SELECT id FROM users WHERE college_id = $1)`,
		`DELETE FROM refresh_tokens WHERE user_id IN (SELECT id FROM users WHERE college_id = $1)`,
		`DELETE FROM users WHERE college_id = $1`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("error cascading college delete: %w", err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM colleges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting college: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCollegeNotFound
	}

	return nil
}
