// Package auth holds the portal's authorization engine. Every protected
// operation maps to an Action; controllers never hand-roll role or tenant
// checks.
package auth

import (
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/pkg/apperrors"
)

// Action names one protected operation.
type Action string

// The full set of protected operations.
const (
	ActionManageColleges Action = "manage_colleges"
	ActionApproveAdmin   Action = "approve_admin"
	ActionApproveTeacher Action = "approve_teacher"
	ActionManageRegistry Action = "manage_registry"

	ActionManageCourse   Action = "manage_course"
	ActionManageSemester Action = "manage_semester"
	ActionManageSubject  Action = "manage_subject"
	ActionCreateUnit     Action = "create_unit"
	ActionCreateTopic    Action = "create_topic"
	ActionEditUnit       Action = "edit_unit"
	ActionEditTopic      Action = "edit_topic"

	ActionUploadNote Action = "upload_note"
	ActionReviewNote Action = "review_note"
	ActionViewNotes  Action = "view_notes"

	ActionViewAdminDashboard      Action = "view_admin_dashboard"
	ActionViewSuperAdminDashboard Action = "view_super_admin_dashboard"
	ActionViewTeacherDashboard    Action = "view_teacher_dashboard"

	ActionViewTeacherActivity Action = "view_teacher_activity"
	ActionViewAdminActivity   Action = "view_admin_activity"
	ActionViewStudentActivity Action = "view_student_activity"
)

// permissions is the static permission table. Changing who may do what
// means changing this table, nothing else.
var permissions = map[Action][]models.RoleName{
	ActionManageColleges: {models.RoleSuperAdmin},
	ActionApproveAdmin:   {models.RoleSuperAdmin},
	ActionApproveTeacher: {models.RoleAdmin},
	ActionManageRegistry: {models.RoleAdmin},

	ActionManageCourse:   {models.RoleAdmin, models.RoleTeacher},
	ActionManageSemester: {models.RoleAdmin, models.RoleTeacher},
	ActionManageSubject:  {models.RoleAdmin, models.RoleTeacher},
	ActionCreateUnit:     {models.RoleTeacher},
	ActionCreateTopic:    {models.RoleTeacher},
	ActionEditUnit:       {models.RoleAdmin, models.RoleTeacher},
	ActionEditTopic:      {models.RoleAdmin, models.RoleTeacher},

	ActionUploadNote: {models.RoleTeacher, models.RoleSeniorStudent, models.RoleAdmin},
	ActionReviewNote: {models.RoleTeacher, models.RoleAdmin},
	ActionViewNotes: {models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher,
		models.RoleSeniorStudent, models.RoleStudent},

	ActionViewAdminDashboard:      {models.RoleAdmin},
	ActionViewSuperAdminDashboard: {models.RoleSuperAdmin},
	ActionViewTeacherDashboard:    {models.RoleTeacher},

	ActionViewTeacherActivity: {models.RoleAdmin},
	ActionViewAdminActivity:   {models.RoleSuperAdmin},
	ActionViewStudentActivity: {models.RoleTeacher},
}

// Guard evaluates the permission table against an authenticated actor.
type Guard struct{}

// NewGuard creates the authorization engine.
func NewGuard() *Guard {
	return &Guard{}
}

// Authorize checks role membership then the verification gate, in that
// order, so the caller always learns the most specific denial reason.
// Super Admins are exempt from the verification gate.
func (g *Guard) Authorize(actor *models.User, action Action) error {
	if actor == nil {
		return apperrors.ErrUnauthenticated
	}

	allowed, ok := permissions[action]
	if !ok {
		return apperrors.ErrRoleMismatch
	}

	role := actor.RoleName()
	matched := false
	for _, name := range allowed {
		if role == name {
			matched = true
			break
		}
	}
	if !matched {
		return apperrors.ErrRoleMismatch
	}

	if !actor.IsVerified && !actor.IsSuperAdmin() {
		return apperrors.ErrPendingVerification
	}

	return nil
}

// AuthorizeCollege runs Authorize then confirms the actor operates inside
// their own college. Super Admins pass the tenant check for any college.
func (g *Guard) AuthorizeCollege(actor *models.User, action Action, collegeID int64) error {
	if err := g.Authorize(actor, action); err != nil {
		return err
	}

	if actor.IsSuperAdmin() {
		return nil
	}

	if actor.CollegeID == nil || *actor.CollegeID != collegeID {
		return apperrors.ErrCrossTenant
	}

	return nil
}

// AllowedRoles exposes the role set for an action; route declarations use
// it so documentation stays in sync with the table.
func AllowedRoles(action Action) []models.RoleName {
	return permissions[action]
}
