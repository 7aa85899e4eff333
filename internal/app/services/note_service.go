package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/repositories"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/filestorage"
	"github.com/edustack/portal/internal/pkg/logger"
)

type noteStore interface {
	CreateWithStatusTx(ctx context.Context, tx pgx.Tx, note *models.Note) error
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	ExistsByTitleAndTopic(ctx context.Context, title string, topicID int64) (bool, error)
	UpdateTitle(ctx context.Context, id int64, title string) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error
	List(ctx context.Context, filter repositories.NoteListFilter) ([]*models.Note, error)
	Approve(ctx context.Context, noteID, verifierID int64, now time.Time) error
	Reject(ctx context.Context, noteID, verifierID int64, comments *string, now time.Time) error
}

type topicCollegeResolver interface {
	CollegeIDForTopic(ctx context.Context, topicID int64) (int64, error)
}

// NoteService handles the note lifecycle: upload with CDN-to-local
// fallback, access resolution, title edits, deletion and listings.
type NoteService struct {
	notes    noteStore
	syllabus topicCollegeResolver
	uploader *filestorage.Uploader
	guard    *auth.Guard
	tx       txRunner
	activity *ActivityService
}

// NewNoteService creates a new note service instance
func NewNoteService(
	notes noteStore,
	syllabus topicCollegeResolver,
	uploader *filestorage.Uploader,
	guard *auth.Guard,
	tx txRunner,
	activity *ActivityService,
) *NoteService {
	return &NoteService{
		notes:    notes,
		syllabus: syllabus,
		uploader: uploader,
		guard:    guard,
		tx:       tx,
		activity: activity,
	}
}

// Upload stores a new note under a topic. File payloads try the CDN first
// and degrade to local storage; fellBack reports that degradation so the
// response can carry a warning. The note row and its Pending status row
// commit in one transaction.
func (s *NoteService) Upload(ctx context.Context, actor *models.User, req dto.UploadNoteRequest, fileHeader *multipart.FileHeader) (*models.Note, bool, error) {
	if !models.ValidMaterialType(req.MaterialType) {
		return nil, false, apperrors.NewValidationError("materialType", "unknown material type")
	}

	collegeID, err := s.syllabus.CollegeIDForTopic(ctx, req.TopicID)
	if err != nil {
		return nil, false, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionUploadNote, collegeID); err != nil {
		return nil, false, err
	}

	exists, err := s.notes.ExistsByTitleAndTopic(ctx, req.Title, req.TopicID)
	if err != nil {
		return nil, false, err
	}
	if exists {
		return nil, false, apperrors.ErrDuplicateTitle
	}

	note := &models.Note{
		Title:        req.Title,
		MaterialType: req.MaterialType,
		UserID:       actor.ID,
		TopicID:      req.TopicID,
		CollegeID:    collegeID,
	}

	var fellBack bool
	if req.MaterialType == models.MaterialTypeURL {
		if req.FileURL == "" {
			return nil, false, apperrors.NewValidationError("fileUrl", "url material requires a link")
		}
		note.FileURL = &req.FileURL
	} else {
		if fileHeader == nil {
			return nil, false, apperrors.NewValidationError("file", "file is required")
		}

		stored, fb, err := s.uploader.Store(ctx, fileHeader, req.MaterialType)
		if err != nil {
			return nil, false, apperrors.NewCustomError(apperrors.ErrStorageFailure, err.Error())
		}
		fellBack = fb

		if stored.Local {
			note.Filename = &stored.Filename
		} else {
			note.FileURL = &stored.URL
		}
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.notes.CreateWithStatusTx(ctx, tx, note)
	})
	if err != nil {
		// The row never landed; clean up a locally stored payload.
		if note.Filename != nil {
			if rmErr := s.uploader.Local().Delete(*note.Filename); rmErr != nil {
				logger.Warn().Err(rmErr).Str("filename", *note.Filename).
					Msg("Failed to remove orphaned local file")
			}
		}
		return nil, fellBack, err
	}

	s.activity.Record(ctx, actor.ID, "Uploaded note", note.Title)
	return note, fellBack, nil
}

// Access resolves where the client should fetch a note from. Unverified
// notes are visible only to staff reviewers and the uploader; students see
// them as pending. Local files resolve to the authenticated download/view
// endpoints, never to a raw filesystem path.
func (s *NoteService) Access(ctx context.Context, actor *models.User, noteID int64, download bool) (*dto.NoteAccessResponse, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if err := s.accessGate(actor, note); err != nil {
		return nil, err
	}

	if note.FileURL != nil {
		url := *note.FileURL
		if download {
			url = filestorage.AttachmentURL(url)
		}
		return &dto.NoteAccessResponse{URL: url, Attachment: download}, nil
	}

	if note.Filename == nil {
		return nil, apperrors.ErrNoteNotFound
	}

	endpoint := "view"
	if download {
		endpoint = "download"
	}
	return &dto.NoteAccessResponse{
		URL:        fmt.Sprintf("/api/v1/notes/%d/%s", note.ID, endpoint),
		Attachment: download,
	}, nil
}

// LocalFile resolves the on-disk path of a locally stored note, behind the
// same gate as Access. The gate must run here too: the file bytes are
// served through this path, not just the URL that points at them.
func (s *NoteService) LocalFile(ctx context.Context, actor *models.User, noteID int64) (path, filename string, err error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return "", "", err
	}

	if err := s.accessGate(actor, note); err != nil {
		return "", "", err
	}

	if !note.IsLocal() {
		return "", "", apperrors.ErrNoteNotFound
	}

	path = s.uploader.Local().FullPath(*note.Filename)
	if path == "" {
		return "", "", apperrors.ErrNoteNotFound
	}
	return path, *note.Filename, nil
}

func (s *NoteService) accessGate(actor *models.User, note *models.Note) error {
	if err := s.guard.AuthorizeCollege(actor, auth.ActionViewNotes, note.CollegeID); err != nil {
		return err
	}
	if !note.IsVerified && s.isStudent(actor) && actor.ID != note.UserID {
		return apperrors.ErrPendingVerification
	}
	return nil
}

func (s *NoteService) isStudent(actor *models.User) bool {
	role := actor.RoleName()
	return role == models.RoleStudent || role == models.RoleSeniorStudent
}

// UpdateTitle renames a note. Allowed for the uploader and for reviewers
// (Teacher/Admin) of the note's college.
func (s *NoteService) UpdateTitle(ctx context.Context, actor *models.User, noteID int64, req dto.UpdateNoteTitleRequest) (*models.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeOwnership(actor, note); err != nil {
		return nil, err
	}

	if err := s.notes.UpdateTitle(ctx, noteID, req.Title); err != nil {
		return nil, err
	}

	note.Title = req.Title
	s.activity.Record(ctx, actor.ID, "Renamed note", req.Title)
	return note, nil
}

// Delete removes a note: status row first, then the note, then a
// best-effort removal of the local file. A failed file removal is logged
// and swallowed; the rows are already gone.
func (s *NoteService) Delete(ctx context.Context, actor *models.User, noteID int64) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}

	if err := s.authorizeOwnership(actor, note); err != nil {
		return err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.notes.DeleteTx(ctx, tx, noteID)
	})
	if err != nil {
		return err
	}

	if note.IsLocal() {
		if rmErr := s.uploader.Local().Delete(*note.Filename); rmErr != nil {
			logger.Warn().Err(rmErr).Str("filename", *note.Filename).
				Msg("Failed to remove local file for deleted note")
		}
	}

	s.activity.Record(ctx, actor.ID, "Deleted note", note.Title)
	return nil
}

// authorizeOwnership allows the uploader or a reviewer of the note's
// college to modify the note.
func (s *NoteService) authorizeOwnership(actor *models.User, note *models.Note) error {
	if actor != nil && actor.ID == note.UserID {
		// Uploaders manage their own notes regardless of role, but the
		// verification gate still applies.
		if !actor.IsVerified && !actor.IsSuperAdmin() {
			return apperrors.ErrPendingVerification
		}
		return nil
	}
	return s.guard.AuthorizeCollege(actor, auth.ActionReviewNote, note.CollegeID)
}

// List returns verified notes visible to the actor, filtered.
func (s *NoteService) List(ctx context.Context, actor *models.User, filter dto.NoteFilter) ([]*models.Note, error) {
	if err := s.guard.Authorize(actor, auth.ActionViewNotes); err != nil {
		return nil, err
	}

	repoFilter := repositories.NoteListFilter{
		CourseID:       filter.CourseID,
		SemesterNumber: filter.SemesterNumber,
		SubjectID:      filter.SubjectID,
		Search:         filter.Search,
		VerifiedOnly:   true,
	}
	if !actor.IsSuperAdmin() {
		repoFilter.CollegeID = actor.CollegeID
	}

	return s.notes.List(ctx, repoFilter)
}

// Pending returns the review queue for the actor's college.
func (s *NoteService) Pending(ctx context.Context, actor *models.User) ([]*models.Note, error) {
	if err := s.guard.Authorize(actor, auth.ActionReviewNote); err != nil {
		return nil, err
	}

	filter := repositories.NoteListFilter{PendingOnly: true}
	if !actor.IsSuperAdmin() {
		filter.CollegeID = actor.CollegeID
	}
	return s.notes.List(ctx, filter)
}

// ToResponse maps a note to its DTO.
func (s *NoteService) ToResponse(note *models.Note) dto.NoteResponse {
	resp := dto.NoteResponse{
		ID:           note.ID,
		Title:        note.Title,
		MaterialType: note.MaterialType,
		Filename:     note.Filename,
		FileURL:      note.FileURL,
		TopicID:      note.TopicID,
		CollegeID:    note.CollegeID,
		UploadDate:   note.UploadDate,
		IsVerified:   note.IsVerified,
	}
	if note.Uploader != nil {
		resp.UploadedBy = note.Uploader.Username
	}
	if note.Status != nil {
		resp.Status = note.Status.Status
		resp.Comments = note.Status.Comments
	}
	return resp
}
