package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/pkg/apperrors"
)

func actor(role models.RoleName, verified bool, collegeID *int64) *models.User {
	return &models.User{
		ID:         1,
		IsVerified: verified,
		CollegeID:  collegeID,
		Role:       &models.Role{ID: 1, Name: role},
	}
}

func ptr(v int64) *int64 { return &v }

func TestAuthorizeDenialOrder(t *testing.T) {
	g := NewGuard()

	// Wrong role wins over pending verification: an unverified Student
	// asking to review notes is told about the role, not the verification.
	unverifiedStudent := actor(models.RoleStudent, false, ptr(1))
	assert.ErrorIs(t, g.Authorize(unverifiedStudent, ActionReviewNote), apperrors.ErrRoleMismatch)

	// Right role but unverified.
	unverifiedTeacher := actor(models.RoleTeacher, false, ptr(1))
	assert.ErrorIs(t, g.Authorize(unverifiedTeacher, ActionReviewNote), apperrors.ErrPendingVerification)

	// Verified teacher passes.
	teacher := actor(models.RoleTeacher, true, ptr(1))
	assert.NoError(t, g.Authorize(teacher, ActionReviewNote))

	// Cross-tenant is reported only after role and verification pass.
	assert.ErrorIs(t, g.AuthorizeCollege(teacher, ActionReviewNote, 2), apperrors.ErrCrossTenant)
	assert.ErrorIs(t, g.AuthorizeCollege(unverifiedTeacher, ActionReviewNote, 2), apperrors.ErrPendingVerification)
}

func TestSuperAdminExemptions(t *testing.T) {
	g := NewGuard()

	// Super Admins skip the verification gate and the tenant check.
	sa := actor(models.RoleSuperAdmin, false, nil)
	assert.NoError(t, g.Authorize(sa, ActionManageColleges))
	assert.NoError(t, g.AuthorizeCollege(sa, ActionViewNotes, 42))

	// But not the role check.
	assert.ErrorIs(t, g.Authorize(sa, ActionCreateUnit), apperrors.ErrRoleMismatch)
}

func TestPermissionTable(t *testing.T) {
	g := NewGuard()

	tests := []struct {
		name    string
		role    models.RoleName
		action  Action
		allowed bool
	}{
		{"admin manages registry", models.RoleAdmin, ActionManageRegistry, true},
		{"teacher cannot manage registry", models.RoleTeacher, ActionManageRegistry, false},
		{"admin approves teachers", models.RoleAdmin, ActionApproveTeacher, true},
		{"super admin approves admins", models.RoleSuperAdmin, ActionApproveAdmin, true},
		{"admin cannot approve admins", models.RoleAdmin, ActionApproveAdmin, false},
		{"teacher creates units", models.RoleTeacher, ActionCreateUnit, true},
		{"admin cannot create units", models.RoleAdmin, ActionCreateUnit, false},
		{"admin edits units", models.RoleAdmin, ActionEditUnit, true},
		{"senior student uploads notes", models.RoleSeniorStudent, ActionUploadNote, true},
		{"student cannot upload notes", models.RoleStudent, ActionUploadNote, false},
		{"student views notes", models.RoleStudent, ActionViewNotes, true},
		{"senior student cannot review notes", models.RoleSeniorStudent, ActionReviewNote, false},
		{"teacher views student activity", models.RoleTeacher, ActionViewStudentActivity, true},
		{"admin views teacher activity", models.RoleAdmin, ActionViewTeacherActivity, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := actor(tt.role, true, ptr(1))
			err := g.Authorize(a, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)
			}
		})
	}
}

func TestAuthorizeNilActor(t *testing.T) {
	g := NewGuard()
	assert.ErrorIs(t, g.Authorize(nil, ActionViewNotes), apperrors.ErrUnauthenticated)
}

func TestTenantScope(t *testing.T) {
	g := NewGuard()

	admin := actor(models.RoleAdmin, true, ptr(3))
	assert.NoError(t, g.AuthorizeCollege(admin, ActionManageRegistry, 3))
	assert.ErrorIs(t, g.AuthorizeCollege(admin, ActionManageRegistry, 4), apperrors.ErrCrossTenant)

	// An actor with no college never passes a tenant check unless they are
	// the Super Admin.
	homeless := actor(models.RoleAdmin, true, nil)
	assert.ErrorIs(t, g.AuthorizeCollege(homeless, ActionManageRegistry, 3), apperrors.ErrCrossTenant)
}
