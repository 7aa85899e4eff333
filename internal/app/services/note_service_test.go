package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/repositories"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/filestorage"
)

// --- fakes ---

type fakeNotes struct {
	byID     map[int64]*models.Note
	nextID   int64
	statuses map[int64]string
}

func newFakeNotes() *fakeNotes {
	return &fakeNotes{byID: map[int64]*models.Note{}, statuses: map[int64]string{}}
}

func (f *fakeNotes) CreateWithStatusTx(_ context.Context, _ pgx.Tx, note *models.Note) error {
	for _, n := range f.byID {
		if n.Title == note.Title && n.TopicID == note.TopicID {
			return apperrors.ErrDuplicateTitle
		}
	}
	f.nextID++
	note.ID = f.nextID
	note.UploadDate = time.Now()
	f.byID[note.ID] = note
	f.statuses[note.ID] = models.VerificationPending
	return nil
}

func (f *fakeNotes) GetByID(_ context.Context, id int64) (*models.Note, error) {
	note, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNoteNotFound
	}
	return note, nil
}

func (f *fakeNotes) ExistsByTitleAndTopic(_ context.Context, title string, topicID int64) (bool, error) {
	for _, n := range f.byID {
		if n.Title == title && n.TopicID == topicID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotes) UpdateTitle(_ context.Context, id int64, title string) error {
	note, ok := f.byID[id]
	if !ok {
		return apperrors.ErrNoteNotFound
	}
	note.Title = title
	return nil
}

func (f *fakeNotes) DeleteTx(_ context.Context, _ pgx.Tx, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrNoteNotFound
	}
	delete(f.statuses, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeNotes) List(_ context.Context, filter repositories.NoteListFilter) ([]*models.Note, error) {
	var out []*models.Note
	for _, n := range f.byID {
		if filter.VerifiedOnly && !n.IsVerified {
			continue
		}
		if filter.PendingOnly && f.statuses[n.ID] != models.VerificationPending {
			continue
		}
		if filter.CollegeID != nil && n.CollegeID != *filter.CollegeID {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotes) Approve(_ context.Context, noteID, verifierID int64, now time.Time) error {
	note, ok := f.byID[noteID]
	if !ok {
		return apperrors.ErrNoteNotFound
	}
	note.IsVerified = true
	f.statuses[noteID] = models.VerificationApproved
	return nil
}

func (f *fakeNotes) Reject(_ context.Context, noteID, verifierID int64, comments *string, now time.Time) error {
	note, ok := f.byID[noteID]
	if !ok {
		return apperrors.ErrNoteNotFound
	}
	note.IsVerified = false
	f.statuses[noteID] = models.VerificationRejected
	return nil
}

type fakeTopics struct{ collegeByTopic map[int64]int64 }

func (f fakeTopics) CollegeIDForTopic(_ context.Context, topicID int64) (int64, error) {
	collegeID, ok := f.collegeByTopic[topicID]
	if !ok {
		return 0, apperrors.ErrTopicNotFound
	}
	return collegeID, nil
}

type brokenCDN struct{}

func (brokenCDN) Put(context.Context, *multipart.FileHeader, string) (filestorage.StoredFile, error) {
	return filestorage.StoredFile{}, assert.AnError
}

func (brokenCDN) Delete(string) error { return nil }

func uploadFile(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("note content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func noteActor(role models.RoleName, id, collegeID int64) *models.User {
	return &models.User{
		ID:         id,
		IsVerified: true,
		CollegeID:  &collegeID,
		Role:       &models.Role{Name: role},
	}
}

func newNoteFixture(t *testing.T, cdn filestorage.Backend) (*NoteService, *fakeNotes, string) {
	t.Helper()
	dir := t.TempDir()
	local, err := filestorage.NewLocalStorage(dir)
	require.NoError(t, err)

	notes := newFakeNotes()
	svc := NewNoteService(
		notes,
		fakeTopics{collegeByTopic: map[int64]int64{10: 1, 20: 2}},
		filestorage.NewUploader(cdn, local),
		auth.NewGuard(),
		fakeTx{},
		NewActivityService(&recordingActivity{}),
	)
	return svc, notes, dir
}

// --- tests ---

func TestUploadFallsBackToLocalWithWarning(t *testing.T) {
	svc, notes, dir := newNoteFixture(t, brokenCDN{})
	teacher := noteActor(models.RoleTeacher, 1, 1)

	note, fellBack, err := svc.Upload(context.Background(), teacher, dto.UploadNoteRequest{
		Title: "Scheduling basics", TopicID: 10, MaterialType: "pdf",
	}, uploadFile(t, "scheduling.pdf"))
	require.NoError(t, err)

	assert.True(t, fellBack)
	require.NotNil(t, note.Filename)
	assert.Equal(t, "scheduling.pdf", *note.Filename)
	assert.Nil(t, note.FileURL)
	assert.False(t, note.IsVerified)
	assert.Equal(t, models.VerificationPending, notes.statuses[note.ID])

	_, err = os.Stat(filepath.Join(dir, *note.Filename))
	assert.NoError(t, err)
}

func TestUploadDuplicateTitleRejected(t *testing.T) {
	svc, _, _ := newNoteFixture(t, nil)
	teacher := noteActor(models.RoleTeacher, 1, 1)

	req := dto.UploadNoteRequest{Title: "Scheduling basics", TopicID: 10, MaterialType: "pdf"}
	_, _, err := svc.Upload(context.Background(), teacher, req, uploadFile(t, "one.pdf"))
	require.NoError(t, err)

	_, _, err = svc.Upload(context.Background(), teacher, req, uploadFile(t, "two.pdf"))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateTitle)
}

func TestUploadRoleAndTenantRules(t *testing.T) {
	svc, _, _ := newNoteFixture(t, nil)

	// Students cannot upload.
	student := noteActor(models.RoleStudent, 2, 1)
	_, _, err := svc.Upload(context.Background(), student, dto.UploadNoteRequest{
		Title: "x", TopicID: 10, MaterialType: "pdf",
	}, uploadFile(t, "x.pdf"))
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)

	// Senior students can, but only inside their college.
	senior := noteActor(models.RoleSeniorStudent, 3, 1)
	_, _, err = svc.Upload(context.Background(), senior, dto.UploadNoteRequest{
		Title: "x", TopicID: 20, MaterialType: "pdf", // topic 20 belongs to college 2
	}, uploadFile(t, "x.pdf"))
	assert.ErrorIs(t, err, apperrors.ErrCrossTenant)

	_, fellBack, err := svc.Upload(context.Background(), senior, dto.UploadNoteRequest{
		Title: "x", TopicID: 10, MaterialType: "pdf",
	}, uploadFile(t, "x.pdf"))
	require.NoError(t, err)
	assert.False(t, fellBack) // no CDN configured is not a fallback
}

func TestUploadURLMaterialNeedsLink(t *testing.T) {
	svc, _, _ := newNoteFixture(t, nil)
	teacher := noteActor(models.RoleTeacher, 1, 1)

	_, _, err := svc.Upload(context.Background(), teacher, dto.UploadNoteRequest{
		Title: "External reference", TopicID: 10, MaterialType: "url",
	}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	note, _, err := svc.Upload(context.Background(), teacher, dto.UploadNoteRequest{
		Title: "External reference", TopicID: 10, MaterialType: "url",
		FileURL: "https://example.com/paper.pdf",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, note.FileURL)
	assert.Nil(t, note.Filename)
}

func TestAccessGatesUnverifiedNotes(t *testing.T) {
	svc, notes, _ := newNoteFixture(t, nil)
	uploader := noteActor(models.RoleSeniorStudent, 5, 1)

	note, _, err := svc.Upload(context.Background(), uploader, dto.UploadNoteRequest{
		Title: "Draft notes", TopicID: 10, MaterialType: "pdf",
	}, uploadFile(t, "draft.pdf"))
	require.NoError(t, err)

	// Another student cannot see the pending note.
	student := noteActor(models.RoleStudent, 6, 1)
	_, err = svc.Access(context.Background(), student, note.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrPendingVerification)

	// The uploader and reviewers can.
	_, err = svc.Access(context.Background(), uploader, note.ID, false)
	assert.NoError(t, err)
	teacher := noteActor(models.RoleTeacher, 7, 1)
	resp, err := svc.Access(context.Background(), teacher, note.ID, true)
	require.NoError(t, err)
	assert.True(t, resp.Attachment)
	assert.Equal(t, fmt.Sprintf("/api/v1/notes/%d/download", note.ID), resp.URL)

	// Once approved, everyone in the college sees it.
	require.NoError(t, notes.Approve(context.Background(), note.ID, teacher.ID, time.Now()))
	_, err = svc.Access(context.Background(), student, note.ID, false)
	assert.NoError(t, err)

	// But never across colleges.
	outsider := noteActor(models.RoleStudent, 8, 2)
	_, err = svc.Access(context.Background(), outsider, note.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrCrossTenant)
}

func TestLocalFileGatesTheBytesThemselves(t *testing.T) {
	svc, notes, dir := newNoteFixture(t, nil)
	uploader := noteActor(models.RoleSeniorStudent, 5, 1)

	note, _, err := svc.Upload(context.Background(), uploader, dto.UploadNoteRequest{
		Title: "Draft notes", TopicID: 10, MaterialType: "pdf",
	}, uploadFile(t, "draft.pdf"))
	require.NoError(t, err)

	// Another student cannot reach the pending file, not even by id.
	student := noteActor(models.RoleStudent, 6, 1)
	_, _, err = svc.LocalFile(context.Background(), student, note.ID)
	assert.ErrorIs(t, err, apperrors.ErrPendingVerification)

	// Nor can anyone from another college.
	outsider := noteActor(models.RoleTeacher, 8, 2)
	_, _, err = svc.LocalFile(context.Background(), outsider, note.ID)
	assert.ErrorIs(t, err, apperrors.ErrCrossTenant)

	// A reviewer gets the real path under the storage directory.
	teacher := noteActor(models.RoleTeacher, 7, 1)
	path, filename, err := svc.LocalFile(context.Background(), teacher, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft.pdf", filename)
	assert.Equal(t, filepath.Join(dir, "draft.pdf"), path)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	// CDN-backed notes have no local path.
	url := "https://res.cloudinary.com/demo/raw/upload/v1/edustack_materials/x.pdf"
	cdnNote := &models.Note{Title: "Remote", MaterialType: "pdf", UserID: 7, TopicID: 10, CollegeID: 1, FileURL: &url}
	require.NoError(t, notes.CreateWithStatusTx(context.Background(), nil, cdnNote))
	_, _, err = svc.LocalFile(context.Background(), teacher, cdnNote.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestAccessRewritesCloudinaryDownloads(t *testing.T) {
	svc, notes, _ := newNoteFixture(t, nil)
	teacher := noteActor(models.RoleTeacher, 1, 1)

	url := "https://res.cloudinary.com/demo/raw/upload/v1/edustack_materials/algo.pdf"
	note := &models.Note{Title: "Algo", MaterialType: "pdf", UserID: 1, TopicID: 10, CollegeID: 1, FileURL: &url}
	require.NoError(t, notes.CreateWithStatusTx(context.Background(), nil, note))

	view, err := svc.Access(context.Background(), teacher, note.ID, false)
	require.NoError(t, err)
	assert.Equal(t, url, view.URL)

	download, err := svc.Access(context.Background(), teacher, note.ID, true)
	require.NoError(t, err)
	assert.Contains(t, download.URL, "/upload/fl_attachment/")
}

func TestDeleteRemovesLocalFile(t *testing.T) {
	svc, _, dir := newNoteFixture(t, nil)
	teacher := noteActor(models.RoleTeacher, 1, 1)

	note, _, err := svc.Upload(context.Background(), teacher, dto.UploadNoteRequest{
		Title: "Disposable", TopicID: 10, MaterialType: "pdf",
	}, uploadFile(t, "tmp.pdf"))
	require.NoError(t, err)

	path := filepath.Join(dir, *note.Filename)
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), teacher, note.ID))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	_, err = svc.Access(context.Background(), teacher, note.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrNoteNotFound)
}

func TestListScopesToCollegeAndVerified(t *testing.T) {
	svc, notes, _ := newNoteFixture(t, nil)
	teacher := noteActor(models.RoleTeacher, 1, 1)

	verified := &models.Note{Title: "A", MaterialType: "pdf", UserID: 1, TopicID: 10, CollegeID: 1}
	require.NoError(t, notes.CreateWithStatusTx(context.Background(), nil, verified))
	require.NoError(t, notes.Approve(context.Background(), verified.ID, 1, time.Now()))

	pending := &models.Note{Title: "B", MaterialType: "pdf", UserID: 1, TopicID: 10, CollegeID: 1}
	require.NoError(t, notes.CreateWithStatusTx(context.Background(), nil, pending))

	other := &models.Note{Title: "C", MaterialType: "pdf", UserID: 2, TopicID: 20, CollegeID: 2}
	require.NoError(t, notes.CreateWithStatusTx(context.Background(), nil, other))
	require.NoError(t, notes.Approve(context.Background(), other.ID, 2, time.Now()))

	listed, err := svc.List(context.Background(), teacher, dto.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "A", listed[0].Title)

	queue, err := svc.Pending(context.Background(), teacher)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "B", queue[0].Title)
}
