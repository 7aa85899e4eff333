package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/edustack/portal/internal/app/auth"
	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/logger"
)

type syllabusStore interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	ListCoursesByCollege(ctx context.Context, collegeID int64) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) error
	DeleteCourseCascadeTx(ctx context.Context, tx pgx.Tx, courseID int64) ([]string, error)

	CreateSemester(ctx context.Context, semester *models.Semester) error
	GetSemesterByID(ctx context.Context, id int64) (*models.Semester, error)
	ListSemestersByCourse(ctx context.Context, courseID int64) ([]*models.Semester, error)
	UpdateSemester(ctx context.Context, semester *models.Semester) error
	DeleteSemesterCascadeTx(ctx context.Context, tx pgx.Tx, semesterID int64) ([]string, error)

	CreateSubject(ctx context.Context, subject *models.Subject) error
	GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error)
	ListSubjectsBySemester(ctx context.Context, semesterID int64) ([]*models.Subject, error)
	UpdateSubject(ctx context.Context, subject *models.Subject) error
	DeleteSubjectCascadeTx(ctx context.Context, tx pgx.Tx, subjectID int64) ([]string, error)

	CreateUnit(ctx context.Context, unit *models.Unit) error
	GetUnitByID(ctx context.Context, id int64) (*models.Unit, error)
	ListUnitsBySubject(ctx context.Context, subjectID int64) ([]*models.Unit, error)
	UpdateUnit(ctx context.Context, unit *models.Unit) error
	DeleteUnitCascadeTx(ctx context.Context, tx pgx.Tx, unitID int64) ([]string, error)

	CreateTopic(ctx context.Context, topic *models.Topic) error
	GetTopicByID(ctx context.Context, id int64) (*models.Topic, error)
	ListTopicsByUnit(ctx context.Context, unitID int64) ([]*models.Topic, error)
	UpdateTopic(ctx context.Context, topic *models.Topic) error
	DeleteTopicCascadeTx(ctx context.Context, tx pgx.Tx, topicID int64) ([]string, error)

	CollegeIDForCourse(ctx context.Context, courseID int64) (int64, error)
	CollegeIDForSemester(ctx context.Context, semesterID int64) (int64, error)
	CollegeIDForSubject(ctx context.Context, subjectID int64) (int64, error)
	CollegeIDForUnit(ctx context.Context, unitID int64) (int64, error)
	CollegeIDForTopic(ctx context.Context, topicID int64) (int64, error)
}

// SyllabusService manages the Course > Semester > Subject > Unit > Topic
// tree. Every operation resolves the target's college server-side and runs
// it through the guard, so a forged parent id from another college is
// rejected before any write.
type SyllabusService struct {
	syllabus syllabusStore
	guard    *auth.Guard
	tx       txRunner
	activity *ActivityService
	files    fileRemover
}

// NewSyllabusService creates a new syllabus service instance
func NewSyllabusService(syllabus syllabusStore, guard *auth.Guard, tx txRunner, activity *ActivityService, files fileRemover) *SyllabusService {
	return &SyllabusService{
		syllabus: syllabus,
		guard:    guard,
		tx:       tx,
		activity: activity,
		files:    files,
	}
}

// sweepFiles removes the local files of notes whose rows a cascade already
// deleted. The rows are committed away, so failures only log.
func (s *SyllabusService) sweepFiles(filenames []string) {
	for _, name := range filenames {
		if err := s.files.Delete(name); err != nil {
			logger.Warn().Err(err).Str("filename", name).
				Msg("Failed to remove local file for deleted note")
		}
	}
}

// --- Courses ---

// CreateCourse creates a course under the actor's college. Super Admins
// must name the target college explicitly.
func (s *SyllabusService) CreateCourse(ctx context.Context, actor *models.User, req dto.CreateCourseRequest) (*models.Course, error) {
	var collegeID int64
	switch {
	case req.CollegeID != nil:
		collegeID = *req.CollegeID
	case actor != nil && actor.CollegeID != nil:
		collegeID = *actor.CollegeID
	default:
		return nil, apperrors.NewValidationError("collegeId", "college is required")
	}

	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageCourse, collegeID); err != nil {
		return nil, err
	}

	course := &models.Course{Name: req.Name, CollegeID: collegeID}
	if err := s.syllabus.CreateCourse(ctx, course); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Created course", course.Name)
	return course, nil
}

// ListCourses lists the courses visible to the actor: their own college, or
// an explicit college for Super Admins.
func (s *SyllabusService) ListCourses(ctx context.Context, actor *models.User, collegeID int64) ([]*models.Course, error) {
	if err := s.guard.AuthorizeCollege(actor, auth.ActionViewNotes, collegeID); err != nil {
		return nil, err
	}
	return s.syllabus.ListCoursesByCollege(ctx, collegeID)
}

// UpdateCourse renames a course
func (s *SyllabusService) UpdateCourse(ctx context.Context, actor *models.User, courseID int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.syllabus.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageCourse, course.CollegeID); err != nil {
		return nil, err
	}

	course.Name = req.Name
	if err := s.syllabus.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Updated course", course.Name)
	return course, nil
}

// DeleteCourse removes a course and its entire subtree
func (s *SyllabusService) DeleteCourse(ctx context.Context, actor *models.User, courseID int64) error {
	course, err := s.syllabus.GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageCourse, course.CollegeID); err != nil {
		return err
	}

	var filenames []string
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		filenames, err = s.syllabus.DeleteCourseCascadeTx(ctx, tx, courseID)
		return err
	})
	if err != nil {
		return err
	}
	s.sweepFiles(filenames)

	s.activity.Record(ctx, actor.ID, "Deleted course", course.Name)
	return nil
}

// --- Semesters ---

// CreateSemester adds a semester to a course
func (s *SyllabusService) CreateSemester(ctx context.Context, actor *models.User, courseID int64, req dto.CreateSemesterRequest) (*models.Semester, error) {
	collegeID, err := s.syllabus.CollegeIDForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageSemester, collegeID); err != nil {
		return nil, err
	}

	semester := &models.Semester{Number: req.Number, CourseID: courseID}
	if err := s.syllabus.CreateSemester(ctx, semester); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Created semester", "")
	return semester, nil
}

// ListSemesters lists a course's semesters, tenant-checked via the course.
func (s *SyllabusService) ListSemesters(ctx context.Context, actor *models.User, courseID int64) ([]*models.Semester, error) {
	collegeID, err := s.syllabus.CollegeIDForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionViewNotes, collegeID); err != nil {
		return nil, err
	}
	return s.syllabus.ListSemestersByCourse(ctx, courseID)
}

// UpdateSemester changes a semester's number
func (s *SyllabusService) UpdateSemester(ctx context.Context, actor *models.User, semesterID int64, req dto.UpdateSemesterRequest) (*models.Semester, error) {
	collegeID, err := s.syllabus.CollegeIDForSemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageSemester, collegeID); err != nil {
		return nil, err
	}

	semester, err := s.syllabus.GetSemesterByID(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	semester.Number = req.Number
	if err := s.syllabus.UpdateSemester(ctx, semester); err != nil {
		return nil, err
	}
	return semester, nil
}

// DeleteSemester removes a semester and its subtree
func (s *SyllabusService) DeleteSemester(ctx context.Context, actor *models.User, semesterID int64) error {
	collegeID, err := s.syllabus.CollegeIDForSemester(ctx, semesterID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageSemester, collegeID); err != nil {
		return err
	}

	var filenames []string
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		filenames, err = s.syllabus.DeleteSemesterCascadeTx(ctx, tx, semesterID)
		return err
	})
	if err != nil {
		return err
	}
	s.sweepFiles(filenames)
	return nil
}

// --- Subjects ---

// CreateSubject adds a subject to a semester
func (s *SyllabusService) CreateSubject(ctx context.Context, actor *models.User, semesterID int64, req dto.CreateSubjectRequest) (*models.Subject, error) {
	collegeID, err := s.syllabus.CollegeIDForSemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageSubject, collegeID); err != nil {
		return nil, err
	}

	subject := &models.Subject{Name: req.Name, SemesterID: semesterID}
	if err := s.syllabus.CreateSubject(ctx, subject); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Created subject", subject.Name)
	return subject, nil
}

// ListSubjects lists a semester's subjects
func (s *SyllabusService) ListSubjects(ctx context.Context, actor *models.User, semesterID int64) ([]*models.Subject, error) {
	collegeID, err := s.syllabus.CollegeIDForSemester(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionViewNotes, collegeID); err != nil {
		return nil, err
	}
	return s.syllabus.ListSubjectsBySemester(ctx, semesterID)
}

// UpdateSubject renames a subject
func (s *SyllabusService) UpdateSubject(ctx context.Context, actor *models.User, subjectID int64, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	collegeID, err := s.syllabus.CollegeIDForSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageSubject, collegeID); err != nil {
		return nil, err
	}

	subject, err := s.syllabus.GetSubjectByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	subject.Name = req.Name
	if err := s.syllabus.UpdateSubject(ctx, subject); err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject removes a subject and its subtree
func (s *SyllabusService) DeleteSubject(ctx context.Context, actor *models.User, subjectID int64) error {
	collegeID, err := s.syllabus.CollegeIDForSubject(ctx, subjectID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionManageSubject, collegeID); err != nil {
		return err
	}

	var filenames []string
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		filenames, err = s.syllabus.DeleteSubjectCascadeTx(ctx, tx, subjectID)
		return err
	})
	if err != nil {
		return err
	}
	s.sweepFiles(filenames)
	return nil
}

// --- Units ---

// CreateUnit adds a unit to a subject (Teacher only)
func (s *SyllabusService) CreateUnit(ctx context.Context, actor *models.User, subjectID int64, req dto.CreateUnitRequest) (*models.Unit, error) {
	collegeID, err := s.syllabus.CollegeIDForSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionCreateUnit, collegeID); err != nil {
		return nil, err
	}

	unit := &models.Unit{Number: req.Number, SubjectID: subjectID}
	if err := s.syllabus.CreateUnit(ctx, unit); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Created unit", "")
	return unit, nil
}

// ListUnits lists a subject's units
func (s *SyllabusService) ListUnits(ctx context.Context, actor *models.User, subjectID int64) ([]*models.Unit, error) {
	collegeID, err := s.syllabus.CollegeIDForSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionViewNotes, collegeID); err != nil {
		return nil, err
	}
	return s.syllabus.ListUnitsBySubject(ctx, subjectID)
}

// UpdateUnit changes a unit's number
func (s *SyllabusService) UpdateUnit(ctx context.Context, actor *models.User, unitID int64, req dto.UpdateUnitRequest) (*models.Unit, error) {
	collegeID, err := s.syllabus.CollegeIDForUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionEditUnit, collegeID); err != nil {
		return nil, err
	}

	unit, err := s.syllabus.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	unit.Number = req.Number
	if err := s.syllabus.UpdateUnit(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// DeleteUnit removes a unit and its subtree
func (s *SyllabusService) DeleteUnit(ctx context.Context, actor *models.User, unitID int64) error {
	collegeID, err := s.syllabus.CollegeIDForUnit(ctx, unitID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionEditUnit, collegeID); err != nil {
		return err
	}

	var filenames []string
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		filenames, err = s.syllabus.DeleteUnitCascadeTx(ctx, tx, unitID)
		return err
	})
	if err != nil {
		return err
	}
	s.sweepFiles(filenames)
	return nil
}

// --- Topics ---

// CreateTopic adds a topic to a unit (Teacher only)
func (s *SyllabusService) CreateTopic(ctx context.Context, actor *models.User, unitID int64, req dto.CreateTopicRequest) (*models.Topic, error) {
	collegeID, err := s.syllabus.CollegeIDForUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionCreateTopic, collegeID); err != nil {
		return nil, err
	}

	topic := &models.Topic{Name: req.Name, UnitID: unitID}
	if err := s.syllabus.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, actor.ID, "Created topic", topic.Name)
	return topic, nil
}

// ListTopics lists a unit's topics
func (s *SyllabusService) ListTopics(ctx context.Context, actor *models.User, unitID int64) ([]*models.Topic, error) {
	collegeID, err := s.syllabus.CollegeIDForUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionViewNotes, collegeID); err != nil {
		return nil, err
	}
	return s.syllabus.ListTopicsByUnit(ctx, unitID)
}

// UpdateTopic renames a topic
func (s *SyllabusService) UpdateTopic(ctx context.Context, actor *models.User, topicID int64, req dto.UpdateTopicRequest) (*models.Topic, error) {
	collegeID, err := s.syllabus.CollegeIDForTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionEditTopic, collegeID); err != nil {
		return nil, err
	}

	topic, err := s.syllabus.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	topic.Name = req.Name
	if err := s.syllabus.UpdateTopic(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

// DeleteTopic removes a topic and its notes in one transaction.
func (s *SyllabusService) DeleteTopic(ctx context.Context, actor *models.User, topicID int64) error {
	collegeID, err := s.syllabus.CollegeIDForTopic(ctx, topicID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeCollege(actor, auth.ActionEditTopic, collegeID); err != nil {
		return err
	}

	var filenames []string
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		filenames, err = s.syllabus.DeleteTopicCascadeTx(ctx, tx, topicID)
		return err
	})
	if err != nil {
		return err
	}
	s.sweepFiles(filenames)

	s.activity.Record(ctx, actor.ID, "Deleted topic", "")
	return nil
}
