package services

import (
	"context"
	"time"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/logger"
)

type verifiableUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
	Delete(ctx context.Context, id int64) ([]string, error)
	ListByRole(ctx context.Context, roleName models.RoleName, collegeID *int64, verified *bool) ([]*models.User, error)
}

// fileRemover removes a locally stored file by name. LocalStorage
// satisfies it; deletions sweep note files through it best-effort.
type fileRemover interface {
	Delete(ref string) error
}

// VerificationService handles the two approval workflows: Admins verify
// Teachers of their own college, Super Admins verify Admins globally, and
// reviewers (Teacher/Admin) verify notes. The outcomes are asymmetric: a
// rejected user is deleted, a rejected note is retained with its status.
type VerificationService struct {
	users    verifiableUserStore
	notes    noteStore
	guard    *auth.Guard
	activity *ActivityService
	files    fileRemover
	now      func() time.Time
}

// NewVerificationService creates a new verification service instance
func NewVerificationService(users verifiableUserStore, notes noteStore, guard *auth.Guard, activity *ActivityService, files fileRemover) *VerificationService {
	return &VerificationService{
		users:    users,
		notes:    notes,
		guard:    guard,
		activity: activity,
		files:    files,
		now:      time.Now,
	}
}

// ApproveUser verifies a pending Teacher or Admin account. Re-approving an
// already verified account succeeds without change.
func (s *VerificationService) ApproveUser(ctx context.Context, actor *models.User, targetID int64) (*dto.VerificationDecisionResponse, error) {
	target, err := s.authorizeUserDecision(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetVerified(ctx, target.ID, true); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Approved user", target.Email)
	return &dto.VerificationDecisionResponse{
		UserID: target.ID,
		Status: models.VerificationApproved,
	}, nil
}

// RejectUser deletes a pending account. The caller learns the target is
// gone, not merely flagged.
func (s *VerificationService) RejectUser(ctx context.Context, actor *models.User, targetID int64) (*dto.VerificationDecisionResponse, error) {
	target, err := s.authorizeUserDecision(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.deleteUser(ctx, target); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Rejected user", target.Email)
	return &dto.VerificationDecisionResponse{
		UserID:  target.ID,
		Status:  models.VerificationRejected,
		Deleted: true,
	}, nil
}

// RemoveUser deletes a verified staff account, under the same authority as
// the approval decisions: Admins remove Teachers of their college, Super
// Admins remove Admins.
func (s *VerificationService) RemoveUser(ctx context.Context, actor *models.User, targetID int64) (*dto.VerificationDecisionResponse, error) {
	target, err := s.authorizeUserDecision(ctx, actor, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.deleteUser(ctx, target); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Removed user", target.Email)
	return &dto.VerificationDecisionResponse{
		UserID:  target.ID,
		Status:  models.VerificationRejected,
		Deleted: true,
	}, nil
}

// deleteUser removes the account and sweeps the local files of their
// deleted notes. The rows are already gone, so sweep failures only log.
func (s *VerificationService) deleteUser(ctx context.Context, target *models.User) error {
	filenames, err := s.users.Delete(ctx, target.ID)
	if err != nil {
		return err
	}

	for _, name := range filenames {
		if rmErr := s.files.Delete(name); rmErr != nil {
			logger.Warn().Err(rmErr).Str("filename", name).
				Msg("Failed to remove local file for deleted user's note")
		}
	}
	return nil
}

// authorizeUserDecision loads the target and checks the actor may decide on
// them: Admins decide on Teachers of their college, Super Admins on Admins.
func (s *VerificationService) authorizeUserDecision(ctx context.Context, actor *models.User, targetID int64) (*models.User, error) {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	switch target.RoleName() {
	case models.RoleTeacher:
		if target.CollegeID == nil {
			return nil, apperrors.ErrCrossTenant
		}
		if err := s.guard.AuthorizeCollege(actor, auth.ActionApproveTeacher, *target.CollegeID); err != nil {
			return nil, err
		}
	case models.RoleAdmin:
		if err := s.guard.Authorize(actor, auth.ActionApproveAdmin); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewValidationError("userId",
			"only teacher and admin accounts go through verification")
	}

	return target, nil
}

// PendingUsers lists unverified accounts the actor may decide on.
func (s *VerificationService) PendingUsers(ctx context.Context, actor *models.User) ([]*models.User, error) {
	unverified := false

	switch actor.RoleName() {
	case models.RoleAdmin:
		if err := s.guard.Authorize(actor, auth.ActionApproveTeacher); err != nil {
			return nil, err
		}
		return s.users.ListByRole(ctx, models.RoleTeacher, actor.CollegeID, &unverified)
	case models.RoleSuperAdmin:
		if err := s.guard.Authorize(actor, auth.ActionApproveAdmin); err != nil {
			return nil, err
		}
		return s.users.ListByRole(ctx, models.RoleAdmin, nil, &unverified)
	default:
		return nil, apperrors.ErrRoleMismatch
	}
}

// ApproveNote marks a note verified. Re-running a decision overwrites the
// verifier and timestamp, never errors.
func (s *VerificationService) ApproveNote(ctx context.Context, actor *models.User, noteID int64) (*dto.NoteVerificationResponse, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionReviewNote, note.CollegeID); err != nil {
		return nil, err
	}

	if err := s.notes.Approve(ctx, noteID, actor.ID, s.now()); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Approved note", note.Title)
	return &dto.NoteVerificationResponse{
		NoteID: noteID,
		Status: models.VerificationApproved,
	}, nil
}

// RejectNote marks a note rejected with reviewer comments; the note and its
// status survive so the uploader sees the feedback.
func (s *VerificationService) RejectNote(ctx context.Context, actor *models.User, noteID int64, req dto.RejectNoteRequest) (*dto.NoteVerificationResponse, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionReviewNote, note.CollegeID); err != nil {
		return nil, err
	}

	var comments *string
	if req.Comments != "" {
		comments = &req.Comments
	}
	if err := s.notes.Reject(ctx, noteID, actor.ID, comments, s.now()); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Rejected note", note.Title)
	return &dto.NoteVerificationResponse{
		NoteID:   noteID,
		Status:   models.VerificationRejected,
		Retained: true,
	}, nil
}
