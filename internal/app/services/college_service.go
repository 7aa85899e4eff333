package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/pkg/collegeid"
)

type collegeStore interface {
	Create(ctx context.Context, college *models.College) error
	GetByID(ctx context.Context, id int64) (*models.College, error)
	GetAll(ctx context.Context) ([]*models.College, error)
	Update(ctx context.Context, college *models.College) error
	DeleteCascadeTx(ctx context.Context, tx pgx.Tx, id int64) error
}

// CollegeService handles college tenant management (Super Admin only).
type CollegeService struct {
	colleges collegeStore
	guard    *auth.Guard
	tx       txRunner
	activity *ActivityService
}

// NewCollegeService creates a new college service instance
func NewCollegeService(colleges collegeStore, guard *auth.Guard, tx txRunner, activity *ActivityService) *CollegeService {
	return &CollegeService{
		colleges: colleges,
		guard:    guard,
		tx:       tx,
		activity: activity,
	}
}

// Create adds a new college tenant
func (s *CollegeService) Create(ctx context.Context, actor *models.User, req dto.CreateCollegeRequest) (*models.College, error) {
	if err := s.guard.Authorize(actor, auth.ActionManageColleges); err != nil {
		return nil, err
	}

	college := &models.College{Name: req.Name}
	if req.Address != "" {
		college.Address = &req.Address
	}

	if err := s.colleges.Create(ctx, college); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Created college",
		fmt.Sprintf("%s (%s)", college.Name, collegeid.Format(college.ID)))
	return college, nil
}

// Get retrieves a college by ID
func (s *CollegeService) Get(ctx context.Context, id int64) (*models.College, error) {
	return s.colleges.GetByID(ctx, id)
}

// List retrieves all colleges
func (s *CollegeService) List(ctx context.Context, actor *models.User) ([]*models.College, error) {
	if err := s.guard.Authorize(actor, auth.ActionManageColleges); err != nil {
		return nil, err
	}
	return s.colleges.GetAll(ctx)
}

// Update renames a college
func (s *CollegeService) Update(ctx context.Context, actor *models.User, id int64, req dto.UpdateCollegeRequest) (*models.College, error) {
	if err := s.guard.Authorize(actor, auth.ActionManageColleges); err != nil {
		return nil, err
	}

	college, err := s.colleges.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	college.Name = req.Name
	if req.Address != "" {
		college.Address = &req.Address
	}

	if err := s.colleges.Update(ctx, college); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Updated college", collegeid.Format(college.ID))
	return college, nil
}

// Delete removes a college and everything scoped to it in one transaction.
func (s *CollegeService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if err := s.guard.Authorize(actor, auth.ActionManageColleges); err != nil {
		return err
	}

	if _, err := s.colleges.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.colleges.DeleteCascadeTx(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, actor.ID, "Deleted college", collegeid.Format(id))
	return nil
}

// ToResponse formats a college with its display code.
func (s *CollegeService) ToResponse(college *models.College) dto.CollegeResponse {
	return dto.CollegeResponse{
		ID:      college.ID,
		Code:    collegeid.Format(college.ID),
		Name:    college.Name,
		Address: college.Address,
	}
}
