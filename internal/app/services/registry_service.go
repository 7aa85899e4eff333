package services

import (
	"context"
	"fmt"
	"io"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/registryimport"
)

type registryStore interface {
	Add(ctx context.Context, entry *models.StudentRegistry) error
	Import(ctx context.Context, collegeID int64, rows []registryimport.Row) (int, error)
	ListByCollege(ctx context.Context, collegeID int64) ([]*models.StudentRegistry, error)
}

// RegistryService manages the student registry (Admin, own college).
type RegistryService struct {
	registry registryStore
	guard    *auth.Guard
	activity *ActivityService
}

// NewRegistryService creates a new registry service instance
func NewRegistryService(registry registryStore, guard *auth.Guard, activity *ActivityService) *RegistryService {
	return &RegistryService{
		registry: registry,
		guard:    guard,
		activity: activity,
	}
}

// Add inserts one pre-admitted seat into the actor's college registry.
func (s *RegistryService) Add(ctx context.Context, actor *models.User, collegeID int64, req dto.AddRegistryEntryRequest) (*models.StudentRegistry, error) {
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageRegistry, collegeID); err != nil {
		return nil, err
	}

	entry := &models.StudentRegistry{
		RegisterNumber: req.RegisterNumber,
		Email:          req.Email,
		CollegeID:      collegeID,
	}
	if err := s.registry.Add(ctx, entry); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Added registry entry", entry.RegisterNumber)
	return entry, nil
}

// ImportFile parses an uploaded CSV/XLSX sheet and inserts its rows for the
// actor's college. Already-present register numbers are skipped; a malformed
// row aborts the whole batch before anything is written.
func (s *RegistryService) ImportFile(ctx context.Context, actor *models.User, collegeID int64, file io.Reader, filename string) (*dto.RegistryImportResponse, error) {
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageRegistry, collegeID); err != nil {
		return nil, err
	}

	rows, err := registryimport.Parse(file, filename)
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error())
	}

	inserted, err := s.registry.Import(ctx, collegeID, rows)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Imported registry",
		fmt.Sprintf("%d inserted, %d skipped", inserted, len(rows)-inserted))

	return &dto.RegistryImportResponse{
		Inserted: inserted,
		Skipped:  len(rows) - inserted,
	}, nil
}

// List returns every registry entry of the actor's college.
func (s *RegistryService) List(ctx context.Context, actor *models.User, collegeID int64) ([]*models.StudentRegistry, error) {
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageRegistry, collegeID); err != nil {
		return nil, err
	}
	return s.registry.ListByCollege(ctx, collegeID)
}
