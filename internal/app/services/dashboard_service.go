package services

import (
	"context"
	"time"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/repositories"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/collegeid"
)

type courseLister interface {
	ListCoursesByCollege(ctx context.Context, collegeID int64) ([]*models.Course, error)
}

type collegeLister interface {
	GetAll(ctx context.Context) ([]*models.College, error)
}

// DashboardService assembles the role-specific landing summaries.
type DashboardService struct {
	users    verifiableUserStore
	notes    noteStore
	courses  courseLister
	colleges collegeLister
	guard    *auth.Guard
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(
	users verifiableUserStore,
	notes noteStore,
	courses courseLister,
	colleges collegeLister,
	guard *auth.Guard,
) *DashboardService {
	return &DashboardService{
		users:    users,
		notes:    notes,
		courses:  courses,
		colleges: colleges,
		guard:    guard,
	}
}

// Admin returns the admin's college summary: courses plus teacher and
// student rosters.
func (s *DashboardService) Admin(ctx context.Context, actor *models.User) (*dto.AdminDashboardResponse, error) {
	if err := s.guard.Authorize(actor, auth.ActionViewAdminDashboard); err != nil {
		return nil, err
	}
	if actor.CollegeID == nil {
		return nil, apperrors.ErrCrossTenant
	}

	courses, err := s.courses.ListCoursesByCollege(ctx, *actor.CollegeID)
	if err != nil {
		return nil, err
	}

	verified, unverified := true, false
	pendingTeachers, err := s.users.ListByRole(ctx, models.RoleTeacher, actor.CollegeID, &unverified)
	if err != nil {
		return nil, err
	}
	verifiedTeachers, err := s.users.ListByRole(ctx, models.RoleTeacher, actor.CollegeID, &verified)
	if err != nil {
		return nil, err
	}
	students, err := s.listStudents(ctx, actor.CollegeID)
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardResponse{
		Courses:          toCourseResponses(courses),
		PendingTeachers:  ToUserResponses(pendingTeachers),
		VerifiedTeachers: ToUserResponses(verifiedTeachers),
		VerifiedStudents: ToUserResponses(students),
	}, nil
}

// SuperAdmin returns the portal-wide summary.
func (s *DashboardService) SuperAdmin(ctx context.Context, actor *models.User) (*dto.SuperAdminDashboardResponse, error) {
	if err := s.guard.Authorize(actor, auth.ActionViewSuperAdminDashboard); err != nil {
		return nil, err
	}

	colleges, err := s.colleges.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	verified, unverified := true, false
	pendingAdmins, err := s.users.ListByRole(ctx, models.RoleAdmin, nil, &unverified)
	if err != nil {
		return nil, err
	}
	verifiedAdmins, err := s.users.ListByRole(ctx, models.RoleAdmin, nil, &verified)
	if err != nil {
		return nil, err
	}

	resp := &dto.SuperAdminDashboardResponse{
		PendingAdmins:  ToUserResponses(pendingAdmins),
		VerifiedAdmins: ToUserResponses(verifiedAdmins),
	}
	for _, college := range colleges {
		resp.Colleges = append(resp.Colleges, dto.CollegeResponse{
			ID:      college.ID,
			Code:    collegeid.Format(college.ID),
			Name:    college.Name,
			Address: college.Address,
		})
	}
	return resp, nil
}

// Teacher returns the teacher's college summary including the review queue.
func (s *DashboardService) Teacher(ctx context.Context, actor *models.User) (*dto.TeacherDashboardResponse, error) {
	if err := s.guard.Authorize(actor, auth.ActionViewTeacherDashboard); err != nil {
		return nil, err
	}
	if actor.CollegeID == nil {
		return nil, apperrors.ErrCrossTenant
	}

	courses, err := s.courses.ListCoursesByCollege(ctx, *actor.CollegeID)
	if err != nil {
		return nil, err
	}
	students, err := s.listStudents(ctx, actor.CollegeID)
	if err != nil {
		return nil, err
	}
	pending, err := s.notes.List(ctx, repositories.NoteListFilter{
		PendingOnly: true,
		CollegeID:   actor.CollegeID,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.TeacherDashboardResponse{
		Courses:          toCourseResponses(courses),
		VerifiedStudents: ToUserResponses(students),
	}
	for _, note := range pending {
		resp.PendingNotes = append(resp.PendingNotes, dto.NoteResponse{
			ID:           note.ID,
			Title:        note.Title,
			MaterialType: note.MaterialType,
			TopicID:      note.TopicID,
			CollegeID:    note.CollegeID,
			UploadDate:   note.UploadDate,
		})
	}
	return resp, nil
}

func (s *DashboardService) listStudents(ctx context.Context, collegeID *int64) ([]*models.User, error) {
	verified := true
	students, err := s.users.ListByRole(ctx, models.RoleStudent, collegeID, &verified)
	if err != nil {
		return nil, err
	}
	seniors, err := s.users.ListByRole(ctx, models.RoleSeniorStudent, collegeID, &verified)
	if err != nil {
		return nil, err
	}
	return append(students, seniors...), nil
}

func toCourseResponses(courses []*models.Course) []dto.CourseResponse {
	out := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, dto.CourseResponse{
			ID:        course.ID,
			Name:      course.Name,
			CollegeID: course.CollegeID,
		})
	}
	return out
}

// ToUserResponse maps a user to their DTO, computing the online window.
func ToUserResponse(user *models.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Name:           user.Name,
		Email:          user.Email,
		Role:           string(user.RoleName()),
		CollegeID:      user.CollegeID,
		RegisterNumber: user.RegisterNumber,
		IsVerified:     user.IsVerified,
		IsOnline:       user.IsOnline(time.Now()),
		LastActive:     user.LastActive,
	}
	if user.CollegeID != nil {
		resp.CollegeCode = collegeid.Format(*user.CollegeID)
	}
	return resp
}

// ToUserResponses maps a slice of users to DTOs.
func ToUserResponses(users []*models.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, ToUserResponse(user))
	}
	return out
}
