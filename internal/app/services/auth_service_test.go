package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/db"
	"github.com/edustack/portal/internal/pkg/apperrors"
	pkgauth "github.com/edustack/portal/internal/pkg/auth"
)

// --- fakes ---

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

type fakeUsers struct {
	byEmail map[string]*models.User
	created []*models.User
	nextID  int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*models.User{}, nextID: 100}
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = user
	f.created = append(f.created, user)
	return nil
}

func (f *fakeUsers) CreateTx(ctx context.Context, _ pgx.Tx, user *models.User) error {
	return f.Create(ctx, user)
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range f.byEmail {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeRoles struct{}

func (fakeRoles) GetByName(_ context.Context, name models.RoleName) (*models.Role, error) {
	ids := map[models.RoleName]int64{
		models.RoleSuperAdmin: 1, models.RoleAdmin: 2, models.RoleTeacher: 3,
		models.RoleSeniorStudent: 4, models.RoleStudent: 5,
	}
	return &models.Role{ID: ids[name], Name: name}, nil
}

type fakeRegistry struct {
	entry   *models.StudentRegistry
	claimed bool
}

func (f *fakeRegistry) Find(_ context.Context, collegeID int64, registerNumber, email string) (*models.StudentRegistry, error) {
	e := f.entry
	if e == nil || e.CollegeID != collegeID || e.RegisterNumber != registerNumber || e.Email != email {
		return nil, apperrors.ErrRegistryMismatch
	}
	return e, nil
}

func (f *fakeRegistry) ClaimSeatTx(_ context.Context, _ pgx.Tx, entryID int64) error {
	if f.claimed {
		return apperrors.ErrAlreadyRegistered
	}
	f.claimed = true
	f.entry.IsRegistered = true
	return nil
}

type fakeCollegeByID struct{ id int64 }

func (f fakeCollegeByID) GetByID(_ context.Context, id int64) (*models.College, error) {
	if id != f.id {
		return nil, apperrors.ErrCollegeNotFound
	}
	return &models.College{ID: id, Name: "Test College"}, nil
}

type fakeTokens struct{ stored map[string]*models.RefreshToken }

func newFakeTokens() *fakeTokens { return &fakeTokens{stored: map[string]*models.RefreshToken{}} }

func (f *fakeTokens) Save(_ context.Context, token *models.RefreshToken) error {
	f.stored[token.Token] = token
	return nil
}

func (f *fakeTokens) Get(_ context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.stored[token]; ok {
		return t, nil
	}
	return nil, apperrors.ErrTokenNotFound
}

func (f *fakeTokens) Delete(_ context.Context, token string) error {
	delete(f.stored, token)
	return nil
}

func (f *fakeTokens) DeleteByUser(_ context.Context, userID int64) error {
	for k, t := range f.stored {
		if t.UserID == userID {
			delete(f.stored, k)
		}
	}
	return nil
}

type recordingActivity struct{ entries []*models.ActivityLog }

func (r *recordingActivity) Insert(_ context.Context, entry *models.ActivityLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingActivity) ListByUser(context.Context, int64) ([]*models.ActivityLog, error) {
	return r.entries, nil
}

func (r *recordingActivity) ListByRole(context.Context, models.RoleName, *int64) ([]*models.ActivityLog, error) {
	return r.entries, nil
}

func newTestJWT(t *testing.T) *pkgauth.JWTService {
	t.Helper()
	return pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUsers, *fakeRegistry, *fakeTokens) {
	t.Helper()
	users := newFakeUsers()
	registry := &fakeRegistry{entry: &models.StudentRegistry{
		ID: 1, RegisterNumber: "REG001", Email: "alice@college.edu", CollegeID: 1,
	}}
	tokens := newFakeTokens()
	svc := NewAuthService(users, fakeRoles{}, registry, fakeCollegeByID{id: 1}, tokens,
		fakeTx{}, newTestJWT(t), NewActivityService(&recordingActivity{}))
	return svc, users, registry, tokens
}

// --- tests ---

func TestRegisterStudentClaimsSeat(t *testing.T) {
	svc, users, registry, _ := newAuthFixture(t)

	user, err := svc.RegisterStudent(context.Background(), dto.RegisterStudentRequest{
		Username:       "alice",
		Name:           "Alice",
		Email:          "alice@college.edu",
		Password:       "secret-password",
		CollegeID:      "CIDA001",
		RegisterNumber: " REG001 ", // whitespace is trimmed before matching
	})
	require.NoError(t, err)

	assert.True(t, registry.claimed)
	assert.True(t, user.IsVerified)
	assert.Equal(t, models.RoleStudent, user.RoleName())
	require.NotNil(t, user.CollegeID)
	assert.Equal(t, int64(1), *user.CollegeID)
	assert.Len(t, users.created, 1)
}

func TestRegisterStudentRegistryMismatch(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)

	_, err := svc.RegisterStudent(context.Background(), dto.RegisterStudentRequest{
		Username:       "mallory",
		Name:           "Mallory",
		Email:          "mallory@college.edu", // not in the registry
		Password:       "secret-password",
		CollegeID:      "CIDA001",
		RegisterNumber: "REG001",
	})
	assert.ErrorIs(t, err, apperrors.ErrRegistryMismatch)
	assert.Empty(t, users.created)
}

func TestRegisterStudentSeatTakenOnce(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)

	req := dto.RegisterStudentRequest{
		Username:       "alice",
		Name:           "Alice",
		Email:          "alice@college.edu",
		Password:       "secret-password",
		CollegeID:      "1", // bare numeric id also accepted
		RegisterNumber: "REG001",
	}

	_, err := svc.RegisterStudent(context.Background(), req)
	require.NoError(t, err)

	// Same seat again, different account identity.
	req.Username = "alice2"
	_, err = svc.RegisterStudent(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyRegistered)
	assert.Len(t, users.created, 1)
}

func TestRegisterStudentBadCollegeCode(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.RegisterStudent(context.Background(), dto.RegisterStudentRequest{
		Username:       "alice",
		Name:           "Alice",
		Email:          "alice@college.edu",
		Password:       "secret-password",
		CollegeID:      "SPRINGFIELD",
		RegisterNumber: "REG001",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCollegeIDFormat)
}

func TestRegisterTeacherStartsUnverified(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	user, err := svc.RegisterTeacher(context.Background(), dto.RegisterStaffRequest{
		Username:  "prof",
		Name:      "Professor",
		Email:     "prof@college.edu",
		Password:  "secret-password",
		CollegeID: "CIDA001",
	})
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.Equal(t, models.RoleTeacher, user.RoleName())
}

func TestRegisterSuperAdminIsVerifiedAndCollegeless(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)

	user, err := svc.RegisterSuperAdmin(context.Background(), dto.RegisterSuperAdminRequest{
		Username: "root",
		Name:     "Root",
		Email:    "root@portal.io",
		Password: "secret-password",
	})
	require.NoError(t, err)

	assert.True(t, user.IsVerified)
	assert.Nil(t, user.CollegeID)
	assert.Equal(t, models.RoleSuperAdmin, user.RoleName())

	// Taken identities are refused like every other registration.
	_, err = svc.RegisterSuperAdmin(context.Background(), dto.RegisterSuperAdminRequest{
		Username: "root2", Name: "Root", Email: "root@portal.io", Password: "secret-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.Len(t, users.created, 1)
}

func TestLoginCheckOrder(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)

	hash, err := pkgauth.HashPassword("correct-password")
	require.NoError(t, err)
	collegeID := int64(1)
	teacher := &models.User{
		Username: "prof", Name: "Professor", Email: "prof@college.edu",
		Password: hash, CollegeID: &collegeID, IsVerified: false,
		Role: &models.Role{ID: 3, Name: models.RoleTeacher},
	}
	require.NoError(t, users.Create(context.Background(), teacher))

	// Wrong password beats everything else.
	_, _, err = svc.Login(context.Background(), dto.LoginRequest{
		Email: "prof@college.edu", Password: "wrong", Role: "Teacher", CollegeID: "CIDA001",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Role mismatch comes before the college check.
	_, _, err = svc.Login(context.Background(), dto.LoginRequest{
		Email: "prof@college.edu", Password: "correct-password", Role: "Admin", CollegeID: "CIDA002",
	})
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)

	// Wrong college.
	_, _, err = svc.Login(context.Background(), dto.LoginRequest{
		Email: "prof@college.edu", Password: "correct-password", Role: "Teacher", CollegeID: "CIDA002",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Everything matches but the account is unverified.
	_, _, err = svc.Login(context.Background(), dto.LoginRequest{
		Email: "prof@college.edu", Password: "correct-password", Role: "Teacher", CollegeID: "CIDA001",
	})
	assert.ErrorIs(t, err, apperrors.ErrPendingVerification)

	// Verified account logs in and gets a token pair.
	teacher.IsVerified = true
	user, tokens, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "prof@college.edu", Password: "correct-password", Role: "Teacher", CollegeID: "CIDA001",
	})
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, users, _, stored := newAuthFixture(t)

	hash, err := pkgauth.HashPassword("correct-password")
	require.NoError(t, err)
	sa := &models.User{
		Username: "root", Name: "Root", Email: "root@portal.io",
		Password: hash, IsVerified: true,
		Role: &models.Role{ID: 1, Name: models.RoleSuperAdmin},
	}
	require.NoError(t, users.Create(context.Background(), sa))

	_, tokens, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "root@portal.io", Password: "correct-password", Role: "Super Admin",
	})
	require.NoError(t, err)

	fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// The old refresh token was rotated out.
	_, ok := stored.stored[tokens.RefreshToken]
	assert.False(t, ok)
	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}
