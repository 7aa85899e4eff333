package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/registryimport"
)

type fakeRegistryStore struct {
	nextID  int64
	entries []*models.StudentRegistry
}

func (f *fakeRegistryStore) find(collegeID int64, registerNumber string) *models.StudentRegistry {
	for _, e := range f.entries {
		if e.CollegeID == collegeID && e.RegisterNumber == registerNumber {
			return e
		}
	}
	return nil
}

func (f *fakeRegistryStore) Add(_ context.Context, entry *models.StudentRegistry) error {
	if f.find(entry.CollegeID, entry.RegisterNumber) != nil {
		return apperrors.ErrResourceAlreadyExists
	}
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRegistryStore) Import(_ context.Context, collegeID int64, rows []registryimport.Row) (int, error) {
	inserted := 0
	for _, row := range rows {
		if f.find(collegeID, row.RegisterNumber) != nil {
			continue
		}
		f.nextID++
		f.entries = append(f.entries, &models.StudentRegistry{
			ID:             f.nextID,
			RegisterNumber: row.RegisterNumber,
			Email:          row.Email,
			CollegeID:      collegeID,
		})
		inserted++
	}
	return inserted, nil
}

func (f *fakeRegistryStore) ListByCollege(_ context.Context, collegeID int64) ([]*models.StudentRegistry, error) {
	var out []*models.StudentRegistry
	for _, e := range f.entries {
		if e.CollegeID == collegeID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newRegistryFixture(t *testing.T) (*RegistryService, *fakeRegistryStore, *models.User) {
	t.Helper()
	collegeOne := int64(1)
	admin := &models.User{
		ID: 5, Email: "admin@one.edu", CollegeID: &collegeOne, IsVerified: true,
		Role: &models.Role{Name: models.RoleAdmin},
	}
	store := &fakeRegistryStore{}
	svc := NewRegistryService(store, auth.NewGuard(), NewActivityService(&recordingActivity{}))
	return svc, store, admin
}

func TestRegistryAddScopedToOwnCollege(t *testing.T) {
	svc, store, admin := newRegistryFixture(t)
	req := dto.AddRegistryEntryRequest{RegisterNumber: "REG001", Email: "s1@one.edu"}

	entry, err := svc.Add(context.Background(), admin, 1, req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.CollegeID)
	assert.NotNil(t, store.find(1, "REG001"))

	_, err = svc.Add(context.Background(), admin, 2, req)
	assert.ErrorIs(t, err, apperrors.ErrCrossTenant)
}

func TestRegistryAddRequiresAdmin(t *testing.T) {
	svc, _, _ := newRegistryFixture(t)
	collegeOne := int64(1)
	teacher := &models.User{
		ID: 6, CollegeID: &collegeOne, IsVerified: true,
		Role: &models.Role{Name: models.RoleTeacher},
	}

	_, err := svc.Add(context.Background(), teacher, 1,
		dto.AddRegistryEntryRequest{RegisterNumber: "REG002", Email: "s2@one.edu"})
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)
}

func TestRegistryImportSkipsExistingSeats(t *testing.T) {
	svc, store, admin := newRegistryFixture(t)
	store.entries = append(store.entries, &models.StudentRegistry{
		ID: 1, RegisterNumber: "REG001", Email: "s1@one.edu", CollegeID: 1,
	})
	store.nextID = 1

	sheet := "Register Number,Email\nREG001,s1@one.edu\nREG002,s2@one.edu\n"
	result, err := svc.ImportFile(context.Background(), admin, 1, strings.NewReader(sheet), "students.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	assert.NotNil(t, store.find(1, "REG002"))
}

func TestRegistryImportMalformedRowAbortsBatch(t *testing.T) {
	svc, store, admin := newRegistryFixture(t)

	sheet := "Register Number,Email\nREG001,s1@one.edu\nREG002,\n"
	_, err := svc.ImportFile(context.Background(), admin, 1, strings.NewReader(sheet), "students.csv")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, store.entries)
}

func TestRegistryImportRejectsUnknownFormat(t *testing.T) {
	svc, _, admin := newRegistryFixture(t)

	_, err := svc.ImportFile(context.Background(), admin, 1, strings.NewReader("whatever"), "students.pdf")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
