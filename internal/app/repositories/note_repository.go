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

// NoteListFilter narrows note listings. Nil/zero fields are ignored.
type NoteListFilter struct {
	CollegeID      *int64 // tenant scope; nil means global (Super Admin)
	CourseID       int64
	SemesterNumber int
	SubjectID      int64
	Search         string // matches title, topic, subject, uploader username
	VerifiedOnly   bool
	PendingOnly    bool
}

// NoteRepository handles database operations for notes and their
// verification status rows. A note and its status row live and die
// together; both writes always share one transaction.
type NoteRepository struct {
	db *pgxpool.Pool
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{
		db: db,
	}
}

// CreateWithStatusTx inserts the note and its Pending status row
func (r *NoteRepository) CreateWithStatusTx(ctx context.Context, tx pgx.Tx, note *models.Note) error {
	query := `
		INSERT INTO notes (title, filename, file_url, material_type, user_id,
		                   topic_id, college_id, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		RETURNING id, upload_date
	`

	err := tx.QueryRow(ctx, query,
		note.Title,
		note.Filename,
		note.FileURL,
		note.MaterialType,
		note.UserID,
		note.TopicID,
		note.CollegeID,
	).Scan(&note.ID, &note.UploadDate)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "notes_title_topic_id_key") {
			return apperrors.ErrDuplicateTitle
		}
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateTitle
		}
		return fmt.Errorf("error creating note: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO verification_status (note_id, status)
		VALUES ($1, $2)
	`, note.ID, models.VerificationPending)
	if err != nil {
		return fmt.Errorf("error creating verification status: %w", err)
	}

	return nil
}

const noteSelect = `
	SELECT n.id, n.title, n.filename, n.file_url, n.material_type, n.user_id,
	       n.topic_id, n.college_id, n.upload_date, n.is_verified,
	       vs.id, vs.note_id, vs.verifier_id, vs.status, vs.comments, vs.verified_at,
	       u.username
	FROM notes n
	JOIN verification_status vs ON vs.note_id = n.id
	JOIN users u ON n.user_id = u.id
`

func scanNote(row pgx.Row) (*models.Note, error) {
	var note models.Note
	var status models.VerificationStatus
	var uploaderName string
	err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Filename,
		&note.FileURL,
		&note.MaterialType,
		&note.UserID,
		&note.TopicID,
		&note.CollegeID,
		&note.UploadDate,
		&note.IsVerified,
		&status.ID,
		&status.NoteID,
		&status.VerifierID,
		&status.Status,
		&status.Comments,
		&status.VerifiedAt,
		&uploaderName,
	)
	if err != nil {
		return nil, err
	}
	note.Status = &status
	note.Uploader = &models.User{ID: note.UserID, Username: uploaderName}
	return &note, nil
}

// GetByID retrieves a note with its status and uploader username
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	note, err := scanNote(r.db.QueryRow(ctx, noteSelect+` WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoteNotFound
		}
		return nil, fmt.Errorf("error retrieving note: %w", err)
	}
	return note, nil
}

// ExistsByTitleAndTopic checks for a duplicate title under a topic
func (r *NoteRepository) ExistsByTitleAndTopic(ctx context.Context, title string, topicID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notes WHERE title = $1 AND topic_id = $2)`,
		title, topicID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking note existence: %w", err)
	}
	return exists, nil
}

// UpdateTitle renames a note
func (r *NoteRepository) UpdateTitle(ctx context.Context, id int64, title string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE notes SET title = $1 WHERE id = $2`, title, id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateTitle
		}
		return fmt.Errorf("error updating note title: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

// DeleteTx removes the status row then the note row
func (r *NoteRepository) DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM verification_status WHERE note_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting verification status: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting note: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}
	return nil
}

// List retrieves notes matching the filter, newest first
func (r *NoteRepository) List(ctx context.Context, filter NoteListFilter) ([]*models.Note, error) {
	query := noteSelect + `
	JOIN topics t ON n.topic_id = t.id
	JOIN units un ON t.unit_id = un.id
	JOIN subjects s ON un.subject_id = s.id
	JOIN semesters se ON s.semester_id = se.id
	WHERE 1=1`
	var args []any

	if filter.VerifiedOnly {
		query += ` AND n.is_verified = TRUE`
	}
	if filter.PendingOnly {
		query += fmt.Sprintf(" AND vs.status = $%d", len(args)+1)
		args = append(args, models.VerificationPending)
	}
	if filter.CollegeID != nil {
		args = append(args, *filter.CollegeID)
		query += fmt.Sprintf(" AND n.college_id = $%d", len(args))
	}
	if filter.CourseID > 0 {
		args = append(args, filter.CourseID)
		query += fmt.Sprintf(" AND se.course_id = $%d", len(args))
	}
	if filter.SemesterNumber > 0 {
		args = append(args, filter.SemesterNumber)
		query += fmt.Sprintf(" AND se.number = $%d", len(args))
	}
	if filter.SubjectID > 0 {
		args = append(args, filter.SubjectID)
		query += fmt.Sprintf(" AND s.id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		query += fmt.Sprintf(
			" AND (n.title ILIKE $%d OR t.name ILIKE $%d OR s.name ILIKE $%d OR u.username ILIKE $%d)",
			n, n, n, n)
	}
	query += ` ORDER BY n.upload_date DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

// Approve marks a note verified. Re-approving overwrites the verifier and
// timestamp rather than failing.
func (r *NoteRepository) Approve(ctx context.Context, noteID, verifierID int64, now time.Time) error {
	return r.decide(ctx, noteID, verifierID, models.VerificationApproved, nil, now, true)
}

// Reject marks a note rejected with reviewer comments; the note row is
// retained so the uploader sees the feedback.
func (r *NoteRepository) Reject(ctx context.Context, noteID, verifierID int64, comments *string, now time.Time) error {
	return r.decide(ctx, noteID, verifierID, models.VerificationRejected, comments, now, false)
}

func (r *NoteRepository) decide(ctx context.Context, noteID, verifierID int64, status string, comments *string, now time.Time, verified bool) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting verification decision: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cmdTag, err := tx.Exec(ctx,
		`UPDATE notes SET is_verified = $1 WHERE id = $2`, verified, noteID)
	if err != nil {
		return fmt.Errorf("error updating note verification: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNoteNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE verification_status
		SET status = $1, verifier_id = $2, comments = $3, verified_at = $4
		WHERE note_id = $5
	`, status, verifierID, comments, now, noteID)
	if err != nil {
		return fmt.Errorf("error updating verification status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing verification decision: %w", err)
	}

	return nil
}
