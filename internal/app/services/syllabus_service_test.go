package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/pkg/apperrors"
)

// fakeSyllabus keeps the whole tree in maps and mimics the repository's
// bottom-up cascades.
type fakeSyllabus struct {
	courses   map[int64]*models.Course
	semesters map[int64]*models.Semester
	subjects  map[int64]*models.Subject
	units     map[int64]*models.Unit
	topics    map[int64]*models.Topic
	noteFiles map[int64][]string
	nextID    int64
}

func newFakeSyllabus() *fakeSyllabus {
	return &fakeSyllabus{
		courses:   map[int64]*models.Course{},
		semesters: map[int64]*models.Semester{},
		subjects:  map[int64]*models.Subject{},
		units:     map[int64]*models.Unit{},
		topics:    map[int64]*models.Topic{},
		noteFiles: map[int64][]string{},
	}
}

func (f *fakeSyllabus) id() int64 { f.nextID++; return f.nextID }

func (f *fakeSyllabus) CreateCourse(_ context.Context, c *models.Course) error {
	c.ID = f.id()
	f.courses[c.ID] = c
	return nil
}

func (f *fakeSyllabus) GetCourseByID(_ context.Context, id int64) (*models.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f *fakeSyllabus) ListCoursesByCollege(_ context.Context, collegeID int64) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range f.courses {
		if c.CollegeID == collegeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeSyllabus) UpdateCourse(_ context.Context, c *models.Course) error { return nil }

func (f *fakeSyllabus) DeleteCourseCascadeTx(ctx context.Context, tx pgx.Tx, courseID int64) ([]string, error) {
	var filenames []string
	for id, se := range f.semesters {
		if se.CourseID == courseID {
			names, err := f.DeleteSemesterCascadeTx(ctx, tx, id)
			if err != nil {
				return nil, err
			}
			filenames = append(filenames, names...)
		}
	}
	delete(f.courses, courseID)
	return filenames, nil
}

func (f *fakeSyllabus) CreateSemester(_ context.Context, s *models.Semester) error {
	s.ID = f.id()
	f.semesters[s.ID] = s
	return nil
}

func (f *fakeSyllabus) GetSemesterByID(_ context.Context, id int64) (*models.Semester, error) {
	if s, ok := f.semesters[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrSemesterNotFound
}

func (f *fakeSyllabus) ListSemestersByCourse(_ context.Context, courseID int64) ([]*models.Semester, error) {
	var out []*models.Semester
	for _, s := range f.semesters {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSyllabus) UpdateSemester(_ context.Context, s *models.Semester) error { return nil }

func (f *fakeSyllabus) DeleteSemesterCascadeTx(ctx context.Context, tx pgx.Tx, semesterID int64) ([]string, error) {
	var filenames []string
	for id, su := range f.subjects {
		if su.SemesterID == semesterID {
			names, err := f.DeleteSubjectCascadeTx(ctx, tx, id)
			if err != nil {
				return nil, err
			}
			filenames = append(filenames, names...)
		}
	}
	delete(f.semesters, semesterID)
	return filenames, nil
}

func (f *fakeSyllabus) CreateSubject(_ context.Context, s *models.Subject) error {
	s.ID = f.id()
	f.subjects[s.ID] = s
	return nil
}

func (f *fakeSyllabus) GetSubjectByID(_ context.Context, id int64) (*models.Subject, error) {
	if s, ok := f.subjects[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrSubjectNotFound
}

func (f *fakeSyllabus) ListSubjectsBySemester(_ context.Context, semesterID int64) ([]*models.Subject, error) {
	var out []*models.Subject
	for _, s := range f.subjects {
		if s.SemesterID == semesterID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSyllabus) UpdateSubject(_ context.Context, s *models.Subject) error { return nil }

func (f *fakeSyllabus) DeleteSubjectCascadeTx(ctx context.Context, tx pgx.Tx, subjectID int64) ([]string, error) {
	var filenames []string
	for id, u := range f.units {
		if u.SubjectID == subjectID {
			names, err := f.DeleteUnitCascadeTx(ctx, tx, id)
			if err != nil {
				return nil, err
			}
			filenames = append(filenames, names...)
		}
	}
	delete(f.subjects, subjectID)
	return filenames, nil
}

func (f *fakeSyllabus) CreateUnit(_ context.Context, u *models.Unit) error {
	u.ID = f.id()
	f.units[u.ID] = u
	return nil
}

func (f *fakeSyllabus) GetUnitByID(_ context.Context, id int64) (*models.Unit, error) {
	if u, ok := f.units[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUnitNotFound
}

func (f *fakeSyllabus) ListUnitsBySubject(_ context.Context, subjectID int64) ([]*models.Unit, error) {
	var out []*models.Unit
	for _, u := range f.units {
		if u.SubjectID == subjectID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeSyllabus) UpdateUnit(_ context.Context, u *models.Unit) error { return nil }

func (f *fakeSyllabus) DeleteUnitCascadeTx(ctx context.Context, tx pgx.Tx, unitID int64) ([]string, error) {
	var filenames []string
	for id, tp := range f.topics {
		if tp.UnitID == unitID {
			names, err := f.DeleteTopicCascadeTx(ctx, tx, id)
			if err != nil {
				return nil, err
			}
			filenames = append(filenames, names...)
		}
	}
	delete(f.units, unitID)
	return filenames, nil
}

func (f *fakeSyllabus) CreateTopic(_ context.Context, tp *models.Topic) error {
	tp.ID = f.id()
	f.topics[tp.ID] = tp
	return nil
}

func (f *fakeSyllabus) GetTopicByID(_ context.Context, id int64) (*models.Topic, error) {
	if tp, ok := f.topics[id]; ok {
		return tp, nil
	}
	return nil, apperrors.ErrTopicNotFound
}

func (f *fakeSyllabus) ListTopicsByUnit(_ context.Context, unitID int64) ([]*models.Topic, error) {
	var out []*models.Topic
	for _, tp := range f.topics {
		if tp.UnitID == unitID {
			out = append(out, tp)
		}
	}
	return out, nil
}

func (f *fakeSyllabus) UpdateTopic(_ context.Context, tp *models.Topic) error { return nil }

func (f *fakeSyllabus) DeleteTopicCascadeTx(_ context.Context, _ pgx.Tx, topicID int64) ([]string, error) {
	filenames := f.noteFiles[topicID]
	delete(f.noteFiles, topicID)
	delete(f.topics, topicID)
	return filenames, nil
}

func (f *fakeSyllabus) CollegeIDForCourse(ctx context.Context, courseID int64) (int64, error) {
	c, err := f.GetCourseByID(ctx, courseID)
	if err != nil {
		return 0, err
	}
	return c.CollegeID, nil
}

func (f *fakeSyllabus) CollegeIDForSemester(ctx context.Context, semesterID int64) (int64, error) {
	s, err := f.GetSemesterByID(ctx, semesterID)
	if err != nil {
		return 0, err
	}
	return f.CollegeIDForCourse(ctx, s.CourseID)
}

func (f *fakeSyllabus) CollegeIDForSubject(ctx context.Context, subjectID int64) (int64, error) {
	s, err := f.GetSubjectByID(ctx, subjectID)
	if err != nil {
		return 0, err
	}
	return f.CollegeIDForSemester(ctx, s.SemesterID)
}

func (f *fakeSyllabus) CollegeIDForUnit(ctx context.Context, unitID int64) (int64, error) {
	u, err := f.GetUnitByID(ctx, unitID)
	if err != nil {
		return 0, err
	}
	return f.CollegeIDForSubject(ctx, u.SubjectID)
}

func (f *fakeSyllabus) CollegeIDForTopic(ctx context.Context, topicID int64) (int64, error) {
	tp, err := f.GetTopicByID(ctx, topicID)
	if err != nil {
		return 0, err
	}
	return f.CollegeIDForUnit(ctx, tp.UnitID)
}

func newSyllabusFixture(t *testing.T) (*SyllabusService, *fakeSyllabus, *recordingRemover) {
	t.Helper()
	store := newFakeSyllabus()
	files := &recordingRemover{}
	svc := NewSyllabusService(store, auth.NewGuard(), fakeTx{},
		NewActivityService(&recordingActivity{}), files)
	return svc, store, files
}

// seedTree builds college 1: course > semester > subject > unit > topic and
// returns the ids top-down.
func seedTree(t *testing.T, svc *SyllabusService, store *fakeSyllabus) (int64, int64, int64, int64, int64) {
	t.Helper()
	ctx := context.Background()
	admin := noteActor(models.RoleAdmin, 1, 1)
	teacher := noteActor(models.RoleTeacher, 2, 1)

	course, err := svc.CreateCourse(ctx, admin, dto.CreateCourseRequest{Name: "B.Sc CS"})
	require.NoError(t, err)
	semester, err := svc.CreateSemester(ctx, admin, course.ID, dto.CreateSemesterRequest{Number: 3})
	require.NoError(t, err)
	subject, err := svc.CreateSubject(ctx, admin, semester.ID, dto.CreateSubjectRequest{Name: "OS"})
	require.NoError(t, err)
	unit, err := svc.CreateUnit(ctx, teacher, subject.ID, dto.CreateUnitRequest{Number: 1})
	require.NoError(t, err)
	topic, err := svc.CreateTopic(ctx, teacher, unit.ID, dto.CreateTopicRequest{Name: "Scheduling"})
	require.NoError(t, err)

	return course.ID, semester.ID, subject.ID, unit.ID, topic.ID
}

func TestUnitCreationIsTeacherOnly(t *testing.T) {
	svc, store, _ := newSyllabusFixture(t)
	ctx := context.Background()
	admin := noteActor(models.RoleAdmin, 1, 1)

	course, err := svc.CreateCourse(ctx, admin, dto.CreateCourseRequest{Name: "B.Sc CS"})
	require.NoError(t, err)
	semester, err := svc.CreateSemester(ctx, admin, course.ID, dto.CreateSemesterRequest{Number: 1})
	require.NoError(t, err)
	subject, err := svc.CreateSubject(ctx, admin, semester.ID, dto.CreateSubjectRequest{Name: "OS"})
	require.NoError(t, err)

	// Admins manage the upper levels but cannot create units.
	_, err = svc.CreateUnit(ctx, admin, subject.ID, dto.CreateUnitRequest{Number: 1})
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)

	// Admins may still edit and delete units a teacher created.
	teacher := noteActor(models.RoleTeacher, 2, 1)
	unit, err := svc.CreateUnit(ctx, teacher, subject.ID, dto.CreateUnitRequest{Number: 1})
	require.NoError(t, err)
	_, err = svc.UpdateUnit(ctx, admin, unit.ID, dto.UpdateUnitRequest{Number: 2})
	assert.NoError(t, err)
	_ = store
}

func TestSyllabusCrossTenantRejected(t *testing.T) {
	svc, store, _ := newSyllabusFixture(t)
	_, _, subjectID, unitID, topicID := seedTree(t, svc, store)
	ctx := context.Background()

	intruder := noteActor(models.RoleTeacher, 9, 2)

	_, err := svc.CreateUnit(ctx, intruder, subjectID, dto.CreateUnitRequest{Number: 9})
	assert.ErrorIs(t, err, apperrors.ErrCrossTenant)
	_, err = svc.CreateTopic(ctx, intruder, unitID, dto.CreateTopicRequest{Name: "x"})
	assert.ErrorIs(t, err, apperrors.ErrCrossTenant)
	err = svc.DeleteTopic(ctx, intruder, topicID)
	assert.ErrorIs(t, err, apperrors.ErrCrossTenant)
}

func TestCourseDeleteCascades(t *testing.T) {
	svc, store, _ := newSyllabusFixture(t)
	courseID, semesterID, subjectID, unitID, topicID := seedTree(t, svc, store)
	ctx := context.Background()
	admin := noteActor(models.RoleAdmin, 1, 1)

	require.NoError(t, svc.DeleteCourse(ctx, admin, courseID))

	_, ok := store.courses[courseID]
	assert.False(t, ok)
	_, ok = store.semesters[semesterID]
	assert.False(t, ok)
	_, ok = store.subjects[subjectID]
	assert.False(t, ok)
	_, ok = store.units[unitID]
	assert.False(t, ok)
	_, ok = store.topics[topicID]
	assert.False(t, ok)
}

func TestCourseDeleteSweepsLocalNoteFiles(t *testing.T) {
	svc, store, files := newSyllabusFixture(t)
	courseID, _, _, _, topicID := seedTree(t, svc, store)
	ctx := context.Background()
	admin := noteActor(models.RoleAdmin, 1, 1)

	store.noteFiles[topicID] = []string{"scheduling.pdf", "deadlock.pptx"}

	require.NoError(t, svc.DeleteCourse(ctx, admin, courseID))
	assert.Equal(t, []string{"scheduling.pdf", "deadlock.pptx"}, files.removed)
}

func TestTopicDeleteSurvivesSweepFailure(t *testing.T) {
	svc, store, files := newSyllabusFixture(t)
	_, _, _, _, topicID := seedTree(t, svc, store)
	ctx := context.Background()
	teacher := noteActor(models.RoleTeacher, 2, 1)

	store.noteFiles[topicID] = []string{"scheduling.pdf"}
	files.err = errSweepFailed

	require.NoError(t, svc.DeleteTopic(ctx, teacher, topicID),
		"file cleanup is best-effort once the rows are gone")
	_, ok := store.topics[topicID]
	assert.False(t, ok)
}

func TestSuperAdminMustNameCollege(t *testing.T) {
	svc, _, _ := newSyllabusFixture(t)
	ctx := context.Background()
	sa := &models.User{ID: 2, IsVerified: true, Role: &models.Role{Name: models.RoleSuperAdmin}}

	_, err := svc.CreateCourse(ctx, sa, dto.CreateCourseRequest{Name: "Stray"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	collegeID := int64(7)
	course, err := svc.CreateCourse(ctx, sa, dto.CreateCourseRequest{Name: "Targeted", CollegeID: &collegeID})
	require.NoError(t, err)
	assert.Equal(t, collegeID, course.CollegeID)
}
