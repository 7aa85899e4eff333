package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/pkg/apperrors"
)

type fakeVerifiableUsers struct {
	byID      map[int64]*models.User
	noteFiles map[int64][]string
}

var errSweepFailed = errors.New("disk unavailable")

// recordingRemover captures file deletions and can fail on demand.
type recordingRemover struct {
	removed []string
	err     error
}

func (r *recordingRemover) Delete(ref string) error {
	if r.err != nil {
		return r.err
	}
	r.removed = append(r.removed, ref)
	return nil
}

func (f *fakeVerifiableUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeVerifiableUsers) SetVerified(_ context.Context, id int64, verified bool) error {
	u, ok := f.byID[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.IsVerified = verified
	return nil
}

func (f *fakeVerifiableUsers) Delete(_ context.Context, id int64) ([]string, error) {
	if _, ok := f.byID[id]; !ok {
		return nil, apperrors.ErrUserNotFound
	}
	delete(f.byID, id)
	return f.noteFiles[id], nil
}

func (f *fakeVerifiableUsers) ListByRole(_ context.Context, roleName models.RoleName, collegeID *int64, verified *bool) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byID {
		if u.RoleName() != roleName {
			continue
		}
		if collegeID != nil && (u.CollegeID == nil || *u.CollegeID != *collegeID) {
			continue
		}
		if verified != nil && u.IsVerified != *verified {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func newVerificationFixture(t *testing.T) (*VerificationService, *fakeVerifiableUsers, *fakeNotes, *recordingRemover) {
	t.Helper()
	collegeOne, collegeTwo := int64(1), int64(2)
	users := &fakeVerifiableUsers{
		byID: map[int64]*models.User{
			10: {ID: 10, Email: "pending.teacher@one.edu", CollegeID: &collegeOne,
				Role: &models.Role{Name: models.RoleTeacher}},
			11: {ID: 11, Email: "pending.teacher@two.edu", CollegeID: &collegeTwo,
				Role: &models.Role{Name: models.RoleTeacher}},
			12: {ID: 12, Email: "pending.admin@two.edu", CollegeID: &collegeTwo,
				Role: &models.Role{Name: models.RoleAdmin}},
			13: {ID: 13, Email: "student@one.edu", CollegeID: &collegeOne, IsVerified: true,
				Role: &models.Role{Name: models.RoleStudent}},
			14: {ID: 14, Email: "verified.teacher@one.edu", CollegeID: &collegeOne, IsVerified: true,
				Role: &models.Role{Name: models.RoleTeacher}},
		},
		noteFiles: map[int64][]string{
			14: {"lecture-1.pdf", "lecture-2.pdf"},
		},
	}

	notes := newFakeNotes()
	files := &recordingRemover{}
	svc := NewVerificationService(users, notes, auth.NewGuard(),
		NewActivityService(&recordingActivity{}), files)
	return svc, users, notes, files
}

func TestApproveTeacherScopedToCollege(t *testing.T) {
	svc, users, _, _ := newVerificationFixture(t)
	admin := noteActor(models.RoleAdmin, 1, 1)

	resp, err := svc.ApproveUser(context.Background(), admin, 10)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationApproved, resp.Status)
	assert.False(t, resp.Deleted)
	assert.True(t, users.byID[10].IsVerified)

	// Teachers of another college are out of reach.
	_, err = svc.ApproveUser(context.Background(), admin, 11)
	assert.ErrorIs(t, err, apperrors.ErrCrossTenant)

	// Admins never decide on admins.
	_, err = svc.ApproveUser(context.Background(), admin, 12)
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)
}

func TestRejectUserDeletesAccount(t *testing.T) {
	svc, users, _, _ := newVerificationFixture(t)
	admin := noteActor(models.RoleAdmin, 1, 1)

	resp, err := svc.RejectUser(context.Background(), admin, 10)
	require.NoError(t, err)
	assert.True(t, resp.Deleted)

	_, ok := users.byID[10]
	assert.False(t, ok, "rejected account must be gone")
}

func TestRemoveUserDeletesStaffAndSweepsFiles(t *testing.T) {
	svc, users, _, files := newVerificationFixture(t)
	admin := noteActor(models.RoleAdmin, 1, 1)

	resp, err := svc.RemoveUser(context.Background(), admin, 14)
	require.NoError(t, err)
	assert.True(t, resp.Deleted)

	_, ok := users.byID[14]
	assert.False(t, ok, "removed account must be gone")
	assert.Equal(t, []string{"lecture-1.pdf", "lecture-2.pdf"}, files.removed)

	// Removal carries the same authority as approval: other colleges'
	// teachers are out of reach, and admins only fall to Super Admins.
	_, err = svc.RemoveUser(context.Background(), admin, 11)
	assert.ErrorIs(t, err, apperrors.ErrCrossTenant)
	_, err = svc.RemoveUser(context.Background(), admin, 12)
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)
}

func TestRemoveUserSurvivesSweepFailure(t *testing.T) {
	svc, users, _, files := newVerificationFixture(t)
	files.err = errSweepFailed

	admin := noteActor(models.RoleAdmin, 1, 1)
	resp, err := svc.RemoveUser(context.Background(), admin, 14)
	require.NoError(t, err, "file cleanup is best-effort once the rows are gone")
	assert.True(t, resp.Deleted)

	_, ok := users.byID[14]
	assert.False(t, ok)
}

func TestSuperAdminDecidesOnAdminsGlobally(t *testing.T) {
	svc, users, _, _ := newVerificationFixture(t)
	sa := &models.User{ID: 2, IsVerified: true, Role: &models.Role{Name: models.RoleSuperAdmin}}

	resp, err := svc.ApproveUser(context.Background(), sa, 12)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationApproved, resp.Status)
	assert.True(t, users.byID[12].IsVerified)

	// Students never go through verification decisions.
	_, err = svc.ApproveUser(context.Background(), sa, 13)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestRejectNoteRetainsIt(t *testing.T) {
	svc, _, notes, _ := newVerificationFixture(t)
	teacher := noteActor(models.RoleTeacher, 3, 1)

	note := &models.Note{Title: "Weak draft", MaterialType: "pdf", UserID: 5, TopicID: 10, CollegeID: 1}
	require.NoError(t, notes.CreateWithStatusTx(context.Background(), nil, note))

	resp, err := svc.RejectNote(context.Background(), teacher, note.ID, dto.RejectNoteRequest{
		Comments: "needs sources",
	})
	require.NoError(t, err)
	assert.True(t, resp.Retained)

	// The note survives with its rejected status.
	kept, err := notes.GetByID(context.Background(), note.ID)
	require.NoError(t, err)
	assert.False(t, kept.IsVerified)
	assert.Equal(t, models.VerificationRejected, notes.statuses[note.ID])
}

func TestReApproveNoteIsIdempotent(t *testing.T) {
	svc, _, notes, _ := newVerificationFixture(t)
	teacher := noteActor(models.RoleTeacher, 3, 1)

	note := &models.Note{Title: "Solid notes", MaterialType: "pdf", UserID: 5, TopicID: 10, CollegeID: 1}
	require.NoError(t, notes.CreateWithStatusTx(context.Background(), nil, note))

	_, err := svc.ApproveNote(context.Background(), teacher, note.ID)
	require.NoError(t, err)
	_, err = svc.ApproveNote(context.Background(), teacher, note.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationApproved, notes.statuses[note.ID])
}

func TestPendingUsersScope(t *testing.T) {
	svc, _, _, _ := newVerificationFixture(t)

	admin := noteActor(models.RoleAdmin, 1, 1)
	pending, err := svc.PendingUsers(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending.teacher@one.edu", pending[0].Email)

	sa := &models.User{ID: 2, IsVerified: true, Role: &models.Role{Name: models.RoleSuperAdmin}}
	pendingAdmins, err := svc.PendingUsers(context.Background(), sa)
	require.NoError(t, err)
	require.Len(t, pendingAdmins, 1)
	assert.Equal(t, "pending.admin@two.edu", pendingAdmins[0].Email)
}
