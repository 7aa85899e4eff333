package services

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/db"
	"github.com/edustack/portal/internal/pkg/apperrors"
	pkgauth "github.com/edustack/portal/internal/pkg/auth"
	"github.com/edustack/portal/internal/pkg/collegeid"
	"github.com/edustack/portal/internal/pkg/logger"
)

// Narrow repository slices the auth service consumes; fakes implement these
// in tests.
type userStore interface {
	Create(ctx context.Context, user *models.User) error
	CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type roleStore interface {
	GetByName(ctx context.Context, name models.RoleName) (*models.Role, error)
}

type registryGate interface {
	Find(ctx context.Context, collegeID int64, registerNumber, email string) (*models.StudentRegistry, error)
	ClaimSeatTx(ctx context.Context, tx pgx.Tx, entryID int64) error
}

type collegeGetter interface {
	GetByID(ctx context.Context, id int64) (*models.College, error)
}

type tokenStore interface {
	Save(ctx context.Context, token *models.RefreshToken) error
	Get(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// AuthService handles registration, login and token lifecycle.
type AuthService struct {
	users    userStore
	roles    roleStore
	registry registryGate
	colleges collegeGetter
	tokens   tokenStore
	tx       txRunner
	jwt      *pkgauth.JWTService
	activity *ActivityService
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	users userStore,
	roles roleStore,
	registry registryGate,
	colleges collegeGetter,
	tokens tokenStore,
	tx txRunner,
	jwt *pkgauth.JWTService,
	activity *ActivityService,
) *AuthService {
	return &AuthService{
		users:    users,
		roles:    roles,
		registry: registry,
		colleges: colleges,
		tokens:   tokens,
		tx:       tx,
		jwt:      jwt,
		activity: activity,
	}
}

// RegisterStudent creates a student account against the college's registry.
// The registry match requires college, register number and email to agree;
// the seat claim and the user insert commit in one transaction so a seat is
// never consumed without an account (or claimed twice).
func (s *AuthService) RegisterStudent(ctx context.Context, req dto.RegisterStudentRequest) (*models.User, error) {
	collegeID, err := collegeid.Parse(req.CollegeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.colleges.GetByID(ctx, collegeID); err != nil {
		return nil, err
	}

	if err := s.checkIdentityFree(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	registerNumber := strings.TrimSpace(req.RegisterNumber)
	entry, err := s.registry.Find(ctx, collegeID, registerNumber, req.Email)
	if err != nil {
		return nil, err
	}
	if entry.IsRegistered {
		return nil, apperrors.ErrAlreadyRegistered
	}

	roleName := models.RoleStudent
	if req.Senior {
		roleName = models.RoleSeniorStudent
	}
	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       req.Username,
		Name:           req.Name,
		Email:          req.Email,
		Password:       hash,
		RoleID:         role.ID,
		CollegeID:      &collegeID,
		RegisterNumber: &registerNumber,
		IsVerified:     true, // the registry match is the verification
		Role:           role,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.registry.ClaimSeatTx(ctx, tx, entry.ID); err != nil {
			return err
		}
		return s.users.CreateTx(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, user.ID, "Registered", "student account created")
	return user, nil
}

// RegisterTeacher creates a teacher account pending Admin approval.
func (s *AuthService) RegisterTeacher(ctx context.Context, req dto.RegisterStaffRequest) (*models.User, error) {
	return s.registerStaff(ctx, req, models.RoleTeacher)
}

// RegisterAdmin creates an admin account pending Super Admin approval.
func (s *AuthService) RegisterAdmin(ctx context.Context, req dto.RegisterStaffRequest) (*models.User, error) {
	return s.registerStaff(ctx, req, models.RoleAdmin)
}

func (s *AuthService) registerStaff(ctx context.Context, req dto.RegisterStaffRequest, roleName models.RoleName) (*models.User, error) {
	collegeID, err := collegeid.Parse(req.CollegeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.colleges.GetByID(ctx, collegeID); err != nil {
		return nil, err
	}

	if err := s.checkIdentityFree(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:   req.Username,
		Name:       req.Name,
		Email:      req.Email,
		Password:   hash,
		RoleID:     role.ID,
		CollegeID:  &collegeID,
		IsVerified: false, // pending approval
		Role:       role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info().Str("email", user.Email).Str("role", string(roleName)).
		Msg("Staff account registered, pending verification")
	return user, nil
}

// RegisterSuperAdmin bootstraps a college-less, pre-verified account.
func (s *AuthService) RegisterSuperAdmin(ctx context.Context, req dto.RegisterSuperAdminRequest) (*models.User, error) {
	if err := s.checkIdentityFree(ctx, req.Email, req.Username); err != nil {
		return nil, err
	}

	role, err := s.roles.GetByName(ctx, models.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:   req.Username,
		Name:       req.Name,
		Email:      req.Email,
		Password:   hash,
		RoleID:     role.ID,
		IsVerified: true,
		Role:       role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) checkIdentityFree(ctx context.Context, email, username string) error {
	if exists, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return err
	} else if exists {
		return apperrors.ErrEmailAlreadyExists
	}

	if exists, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return err
	} else if exists {
		return apperrors.ErrUsernameExists
	}

	return nil
}

// Login authenticates a user. The checks run in order: credentials, role
// match, college match (skipped for Super Admins), verification gate.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.User, *dto.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if !pkgauth.CheckPassword(user.Password, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if string(user.RoleName()) != req.Role {
		return nil, nil, apperrors.ErrRoleMismatch
	}

	if !user.IsSuperAdmin() {
		collegeID, err := collegeid.Parse(req.CollegeID)
		if err != nil {
			return nil, nil, err
		}
		if user.CollegeID == nil || *user.CollegeID != collegeID {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
	}

	if !user.IsVerified && !user.IsSuperAdmin() {
		return nil, nil, apperrors.ErrPendingVerification
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.activity.Record(ctx, user.ID, "Logged in", "")
	return user, tokens, nil
}

// Refresh exchanges a stored refresh token for a new token pair. The old
// token is rotated out.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.Get(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if stored.Expired(time.Now()) {
		_ = s.tokens.Delete(ctx, refreshToken)
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Delete(ctx, refreshToken)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	access, refresh, expiresIn, err := s.jwt.GenerateTokenPair(user.ID, user.Email, string(user.RoleName()))
	if err != nil {
		return nil, err
	}

	refreshExpiry := s.jwt.GetRefreshTokenExpiry()
	err = s.tokens.Save(ctx, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: refreshExpiry,
	})
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           access,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          refresh,
		RefreshTokenExpiresIn: int64(time.Until(refreshExpiry).Seconds()),
	}, nil
}
