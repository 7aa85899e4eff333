package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edustack/portal/internal/app/models"
)

// ActivityRepository handles the append-only activity log
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{
		db: db,
	}
}

// Insert appends one log row
func (r *ActivityRepository) Insert(ctx context.Context, entry *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, action, details)
		VALUES ($1, $2, $3)
		RETURNING id, timestamp
	`

	err := r.db.QueryRow(ctx, query, entry.UserID, entry.Action, entry.Details).
		Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return fmt.Errorf("error inserting activity log: %w", err)
	}

	return nil
}

const activitySelect = `
	SELECT a.id, a.user_id, a.action, a.details, a.timestamp, u.username
	FROM activity_logs a
	JOIN users u ON a.user_id = u.id
`

// ListByUser retrieves one user's activity, newest first
func (r *ActivityRepository) ListByUser(ctx context.Context, userID int64) ([]*models.ActivityLog, error) {
	return r.list(ctx, activitySelect+` WHERE a.user_id = $1 ORDER BY a.timestamp DESC`, userID)
}

// ListByRole retrieves the activity of every user holding a role, optionally
// restricted to a college.
func (r *ActivityRepository) ListByRole(ctx context.Context, roleName models.RoleName, collegeID *int64) ([]*models.ActivityLog, error) {
	query := activitySelect + `
	JOIN roles ro ON u.role_id = ro.id
	WHERE ro.name = $1`
	args := []any{string(roleName)}

	if collegeID != nil {
		args = append(args, *collegeID)
		query += fmt.Sprintf(" AND u.college_id = $%d", len(args))
	}
	query += ` ORDER BY a.timestamp DESC`

	return r.list(ctx, query, args...)
}

func (r *ActivityRepository) list(ctx context.Context, query string, args ...any) ([]*models.ActivityLog, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		var username string
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Details,
			&entry.Timestamp,
			&username,
		); err != nil {
			return nil, err
		}
		entry.User = &models.User{ID: entry.UserID, Username: username}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
