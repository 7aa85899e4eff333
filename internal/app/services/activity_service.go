package services

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/pkg/logger"
)

// activityStore is the slice of the activity repository this service needs.
type activityStore interface {
	Insert(ctx context.Context, entry *models.ActivityLog) error
	ListByUser(ctx context.Context, userID int64) ([]*models.ActivityLog, error)
	ListByRole(ctx context.Context, roleName models.RoleName, collegeID *int64) ([]*models.ActivityLog, error)
}

// ActivityService records and reports the append-only activity log.
type ActivityService struct {
	repo activityStore
}

// NewActivityService creates a new activity service instance
func NewActivityService(repo activityStore) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record appends a log entry. Failures are logged and swallowed so a
// logging problem never blocks the action being recorded.
func (s *ActivityService) Record(ctx context.Context, userID int64, action string, details string) {
	entry := &models.ActivityLog{UserID: userID, Action: action}
	if details != "" {
		entry.Details = &details
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Str("action", action).
			Msg("Failed to record activity")
	}
}

// ForUser returns one user's activity, newest first.
func (s *ActivityService) ForUser(ctx context.Context, userID int64) ([]*models.ActivityLog, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ForRole returns the activity of every holder of a role, optionally
// restricted to a college. Callers apply their scope: Admins pass their
// college and Teacher, Super Admins pass nil and Admin, Teachers pass
// their college and Student.
func (s *ActivityService) ForRole(ctx context.Context, roleName models.RoleName, collegeID *int64) ([]*models.ActivityLog, error) {
	return s.repo.ListByRole(ctx, roleName, collegeID)
}

// WriteUserReportCSV streams one user's activity report.
func (s *ActivityService) WriteUserReportCSV(ctx context.Context, w io.Writer, userID int64) error {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	return writeActivityCSV(w, entries)
}

// WriteRoleReportCSV streams a role-scoped activity report.
func (s *ActivityService) WriteRoleReportCSV(ctx context.Context, w io.Writer, roleName models.RoleName, collegeID *int64) error {
	entries, err := s.repo.ListByRole(ctx, roleName, collegeID)
	if err != nil {
		return err
	}
	return writeActivityCSV(w, entries)
}

func writeActivityCSV(w io.Writer, entries []*models.ActivityLog) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Username", "Action", "Details", "Timestamp"}); err != nil {
		return err
	}

	for _, entry := range entries {
		username := ""
		if entry.User != nil {
			username = entry.User.Username
		}
		details := ""
		if entry.Details != nil {
			details = *entry.Details
		}

		record := []string{
			username,
			entry.Action,
			details,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
