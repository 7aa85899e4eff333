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
	"github.com/edustack/portal/internal/pkg/registryimport"
)

// RegistryRepository handles database operations for the student registry
type RegistryRepository struct {
	db *pgxpool.Pool
}

// NewRegistryRepository creates a new registry repository
func NewRegistryRepository(db *pgxpool.Pool) *RegistryRepository {
	return &RegistryRepository{
		db: db,
	}
}

// Find looks up the registry entry matching all three identity fields.
// Returns ErrRegistryMismatch when no row matches.
func (r *RegistryRepository) Find(ctx context.Context, collegeID int64, registerNumber, email string) (*models.StudentRegistry, error) {
	query := `
		SELECT id, register_number, email, college_id, is_registered, created_at
		FROM student_registry
		WHERE college_id = $1 AND register_number = $2 AND email = $3
	`

	var entry models.StudentRegistry
	err := r.db.QueryRow(ctx, query, collegeID, registerNumber, email).Scan(
		&entry.ID,
		&entry.RegisterNumber,
		&entry.Email,
		&entry.CollegeID,
		&entry.IsRegistered,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRegistryMismatch
		}
		return nil, fmt.Errorf("error looking up registry entry: %w", err)
	}

	return &entry, nil
}

// ClaimSeatTx flips is_registered exactly once. The conditional update makes
// the claim atomic: of two concurrent signups for the same seat, one sees
// zero rows affected and gets ErrAlreadyRegistered.
func (r *RegistryRepository) ClaimSeatTx(ctx context.Context, tx pgx.Tx, entryID int64) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE student_registry
		SET is_registered = TRUE
		WHERE id = $1 AND is_registered = FALSE
	`, entryID)
	if err != nil {
		return fmt.Errorf("error claiming registry seat: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyRegistered
	}
	return nil
}

// Add inserts a single registry entry
func (r *RegistryRepository) Add(ctx context.Context, entry *models.StudentRegistry) error {
	query := `
		INSERT INTO student_registry (register_number, email, college_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, entry.RegisterNumber, entry.Email, entry.CollegeID).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"register number already exists for this college")
		}
		return fmt.Errorf("error adding registry entry: %w", err)
	}

	return nil
}

// Import inserts a batch of registry rows in one transaction. Rows whose
// (register_number, college_id) already exist are skipped; returns how many
// were actually inserted.
func (r *RegistryRepository) Import(ctx context.Context, collegeID int64, rows []registryimport.Row) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("error starting registry import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	inserted := 0
	for _, row := range rows {
		cmdTag, err := tx.Exec(ctx, `
			INSERT INTO student_registry (register_number, email, college_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (register_number, college_id) DO NOTHING
		`, row.RegisterNumber, row.Email, collegeID)
		if err != nil {
			return 0, fmt.Errorf("error importing registry row: %w", err)
		}
		inserted += int(cmdTag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("error committing registry import: %w", err)
	}

	return inserted, nil
}

// ListByCollege retrieves every registry entry for a college
func (r *RegistryRepository) ListByCollege(ctx context.Context, collegeID int64) ([]*models.StudentRegistry, error) {
	query := `
		SELECT id, register_number, email, college_id, is_registered, created_at
		FROM student_registry
		WHERE college_id = $1
		ORDER BY register_number
	`

	rows, err := r.db.Query(ctx, query, collegeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.StudentRegistry
	for rows.Next() {
		var entry models.StudentRegistry
		if err := rows.Scan(
			&entry.ID,
			&entry.RegisterNumber,
			&entry.Email,
			&entry.CollegeID,
			&entry.IsRegistered,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
