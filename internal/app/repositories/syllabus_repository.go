package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/pkg/apperrors"
	"github.com/edustack/portal/internal/pkg/dberrors"
)

// SyllabusRepository handles database operations for the Course > Semester >
// Subject > Unit > Topic hierarchy. Only courses carry a college_id; every
// deeper level resolves its college by joining up the chain.
type SyllabusRepository struct {
	db *pgxpool.Pool
}

// NewSyllabusRepository creates a new syllabus repository
func NewSyllabusRepository(db *pgxpool.Pool) *SyllabusRepository {
	return &SyllabusRepository{
		db: db,
	}
}

// --- Courses ---

// CreateCourse creates a course under a college
func (r *SyllabusRepository) CreateCourse(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (name, college_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, course.Name, course.CollegeID).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"course with this name already exists in the college")
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetCourseByID retrieves a course by ID
func (r *SyllabusRepository) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, name, college_id, created_at
		FROM courses
		WHERE id = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(&course.ID, &course.Name, &course.CollegeID, &course.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// ListCoursesByCollege retrieves all courses of a college
func (r *SyllabusRepository) ListCoursesByCollege(ctx context.Context, collegeID int64) ([]*models.Course, error) {
	query := `
		SELECT id, name, college_id, created_at
		FROM courses
		WHERE college_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, collegeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Name, &course.CollegeID, &course.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// UpdateCourse renames a course
func (r *SyllabusRepository) UpdateCourse(ctx context.Context, course *models.Course) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE courses SET name = $1 WHERE id = $2`, course.Name, course.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"course with this name already exists in the college")
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// --- Semesters ---

// CreateSemester adds a semester to a course
func (r *SyllabusRepository) CreateSemester(ctx context.Context, semester *models.Semester) error {
	query := `
		INSERT INTO semesters (number, course_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, semester.Number, semester.CourseID).Scan(&semester.ID, &semester.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating semester: %w", err)
	}

	return nil
}

// GetSemesterByID retrieves a semester by ID
func (r *SyllabusRepository) GetSemesterByID(ctx context.Context, id int64) (*models.Semester, error) {
	query := `
		SELECT id, number, course_id, created_at
		FROM semesters
		WHERE id = $1
	`

	var semester models.Semester
	err := r.db.QueryRow(ctx, query, id).Scan(&semester.ID, &semester.Number, &semester.CourseID, &semester.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSemesterNotFound
		}
		return nil, fmt.Errorf("error retrieving semester: %w", err)
	}

	return &semester, nil
}

// ListSemestersByCourse retrieves the semesters of a course
func (r *SyllabusRepository) ListSemestersByCourse(ctx context.Context, courseID int64) ([]*models.Semester, error) {
	query := `
		SELECT id, number, course_id, created_at
		FROM semesters
		WHERE course_id = $1
		ORDER BY number
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var semesters []*models.Semester
	for rows.Next() {
		var semester models.Semester
		if err := rows.Scan(&semester.ID, &semester.Number, &semester.CourseID, &semester.CreatedAt); err != nil {
			return nil, err
		}
		semesters = append(semesters, &semester)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return semesters, nil
}

// UpdateSemester changes a semester's number
func (r *SyllabusRepository) UpdateSemester(ctx context.Context, semester *models.Semester) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE semesters SET number = $1 WHERE id = $2`, semester.Number, semester.ID)
	if err != nil {
		return fmt.Errorf("error updating semester: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSemesterNotFound
	}
	return nil
}

// --- Subjects ---

// CreateSubject adds a subject to a semester
func (r *SyllabusRepository) CreateSubject(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (name, semester_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, subject.Name, subject.SemesterID).Scan(&subject.ID, &subject.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetSubjectByID retrieves a subject by ID
func (r *SyllabusRepository) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	query := `
		SELECT id, name, semester_id, created_at
		FROM subjects
		WHERE id = $1
	`

	var subject models.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(&subject.ID, &subject.Name, &subject.SemesterID, &subject.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	return &subject, nil
}

// ListSubjectsBySemester retrieves the subjects of a semester
func (r *SyllabusRepository) ListSubjectsBySemester(ctx context.Context, semesterID int64) ([]*models.Subject, error) {
	query := `
		SELECT id, name, semester_id, created_at
		FROM subjects
		WHERE semester_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, semesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.SemesterID, &subject.CreatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, &subject)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

// UpdateSubject renames a subject
func (r *SyllabusRepository) UpdateSubject(ctx context.Context, subject *models.Subject) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE subjects SET name = $1 WHERE id = $2`, subject.Name, subject.ID)
	if err != nil {
		return fmt.Errorf("error updating subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}
	return nil
}

// --- Units ---

// CreateUnit adds a unit to a subject
func (r *SyllabusRepository) CreateUnit(ctx context.Context, unit *models.Unit) error {
	query := `
		INSERT INTO units (number, subject_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, unit.Number, unit.SubjectID).Scan(&unit.ID, &unit.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating unit: %w", err)
	}

	return nil
}

// GetUnitByID retrieves a unit by ID
func (r *SyllabusRepository) GetUnitByID(ctx context.Context, id int64) (*models.Unit, error) {
	query := `
		SELECT id, number, subject_id, created_at
		FROM units
		WHERE id = $1
	`

	var unit models.Unit
	err := r.db.QueryRow(ctx, query, id).Scan(&unit.ID, &unit.Number, &unit.SubjectID, &unit.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUnitNotFound
		}
		return nil, fmt.Errorf("error retrieving unit: %w", err)
	}

	return &unit, nil
}

// ListUnitsBySubject retrieves the units of a subject
func (r *SyllabusRepository) ListUnitsBySubject(ctx context.Context, subjectID int64) ([]*models.Unit, error) {
	query := `
		SELECT id, number, subject_id, created_at
		FROM units
		WHERE subject_id = $1
		ORDER BY number
	`

	rows, err := r.db.Query(ctx, query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*models.Unit
	for rows.Next() {
		var unit models.Unit
		if err := rows.Scan(&unit.ID, &unit.Number, &unit.SubjectID, &unit.CreatedAt); err != nil {
			return nil, err
		}
		units = append(units, &unit)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return units, nil
}

// UpdateUnit changes a unit's number
func (r *SyllabusRepository) UpdateUnit(ctx context.Context, unit *models.Unit) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE units SET number = $1 WHERE id = $2`, unit.Number, unit.ID)
	if err != nil {
		return fmt.Errorf("error updating unit: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUnitNotFound
	}
	return nil
}

// --- Topics ---

// CreateTopic adds a topic to a unit
func (r *SyllabusRepository) CreateTopic(ctx context.Context, topic *models.Topic) error {
	query := `
		INSERT INTO topics (name, unit_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, topic.Name, topic.UnitID).Scan(&topic.ID, &topic.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating topic: %w", err)
	}

	return nil
}

// GetTopicByID retrieves a topic by ID
func (r *SyllabusRepository) GetTopicByID(ctx context.Context, id int64) (*models.Topic, error) {
	query := `
		SELECT id, name, unit_id, created_at
		FROM topics
		WHERE id = $1
	`

	var topic models.Topic
	err := r.db.QueryRow(ctx, query, id).Scan(&topic.ID, &topic.Name, &topic.UnitID, &topic.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTopicNotFound
		}
		return nil, fmt.Errorf("error retrieving topic: %w", err)
	}

	return &topic, nil
}

// ListTopicsByUnit retrieves the topics of a unit
func (r *SyllabusRepository) ListTopicsByUnit(ctx context.Context, unitID int64) ([]*models.Topic, error) {
	query := `
		SELECT id, name, unit_id, created_at
		FROM topics
		WHERE unit_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []*models.Topic
	for rows.Next() {
		var topic models.Topic
		if err := rows.Scan(&topic.ID, &topic.Name, &topic.UnitID, &topic.CreatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, &topic)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return topics, nil
}

// UpdateTopic renames a topic
func (r *SyllabusRepository) UpdateTopic(ctx context.Context, topic *models.Topic) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE topics SET name = $1 WHERE id = $2`, topic.Name, topic.ID)
	if err != nil {
		return fmt.Errorf("error updating topic: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTopicNotFound
	}
	return nil
}

// --- College resolution ---

// CollegeIDForCourse resolves the owning college of a course
func (r *SyllabusRepository) CollegeIDForCourse(ctx context.Context, courseID int64) (int64, error) {
	return r.resolveCollege(ctx, `SELECT college_id FROM courses WHERE id = $1`,
		courseID, apperrors.ErrCourseNotFound)
}

// CollegeIDForSemester resolves the owning college of a semester
func (r *SyllabusRepository) CollegeIDForSemester(ctx context.Context, semesterID int64) (int64, error) {
	return r.resolveCollege(ctx, `
		SELECT c.college_id FROM semesters se
		JOIN courses c ON se.course_id = c.id
		WHERE se.id = $1`, semesterID, apperrors.ErrSemesterNotFound)
}

// CollegeIDForSubject resolves the owning college of a subject
func (r *SyllabusRepository) CollegeIDForSubject(ctx context.Context, subjectID int64) (int64, error) {
	return r.resolveCollege(ctx, `
		SELECT c.college_id FROM subjects s
		JOIN semesters se ON s.semester_id = se.id
		JOIN courses c ON se.course_id = c.id
		WHERE s.id = $1`, subjectID, apperrors.ErrSubjectNotFound)
}

// CollegeIDForUnit resolves the owning college of a unit
func (r *SyllabusRepository) CollegeIDForUnit(ctx context.Context, unitID int64) (int64, error) {
	return r.resolveCollege(ctx, `
		SELECT c.college_id FROM units u
		JOIN subjects s ON u.subject_id = s.id
		JOIN semesters se ON s.semester_id = se.id
		JOIN courses c ON se.course_id = c.id
		WHERE u.id = $1`, unitID, apperrors.ErrUnitNotFound)
}

// CollegeIDForTopic resolves the owning college of a topic
func (r *SyllabusRepository) CollegeIDForTopic(ctx context.Context, topicID int64) (int64, error) {
	return r.resolveCollege(ctx, `
		SELECT c.college_id FROM topics t
		JOIN units u ON t.unit_id = u.id
		JOIN subjects s ON u.subject_id = s.id
		JOIN semesters se ON s.semester_id = se.id
		JOIN courses c ON se.course_id = c.id
		WHERE t.id = $1`, topicID, apperrors.ErrTopicNotFound)
}

func (r *SyllabusRepository) resolveCollege(ctx context.Context, query string, id int64, notFound error) (int64, error) {
	var collegeID int64
	err := r.db.QueryRow(ctx, query, id).Scan(&collegeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound
		}
		return 0, fmt.Errorf("error resolving college: %w", err)
	}
	return collegeID, nil
}

// --- Cascading deletes ---

// Each delete runs bottom-up inside the caller's transaction: verification
// statuses first, then notes, then the syllabus rows, so no orphans survive
// a partial failure. The local filenames of the removed notes come back so
// the service can sweep the files once the rows are committed away.

func collectLocalFilenames(ctx context.Context, tx pgx.Tx, query string, id int64) ([]string, error) {
	rows, err := tx.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("error listing note files: %w", err)
	}
	defer rows.Close()

	var filenames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning note filename: %w", err)
		}
		filenames = append(filenames, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error listing note files: %w", err)
	}
	return filenames, nil
}

// DeleteTopicCascadeTx removes a topic and its notes
func (r *SyllabusRepository) DeleteTopicCascadeTx(ctx context.Context, tx pgx.Tx, topicID int64) ([]string, error) {
	filenames, err := collectLocalFilenames(ctx, tx,
		`SELECT filename FROM notes WHERE topic_id = $1 AND filename IS NOT NULL`, topicID)
	if err != nil {
		return nil, err
	}

	statements := []string{
		`DELETE FROM verification_status WHERE note_id IN (SELECT id FROM notes WHERE topic_id = $1)`,
		`DELETE FROM notes WHERE topic_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, topicID); err != nil {
			return nil, fmt.Errorf("error cascading topic delete: %w", err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM topics WHERE id = $1`, topicID)
	if err != nil {
		return nil, fmt.Errorf("error deleting topic: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrTopicNotFound
	}
	return filenames, nil
}

// DeleteUnitCascadeTx removes a unit, its topics and their notes
func (r *SyllabusRepository) DeleteUnitCascadeTx(ctx context.Context, tx pgx.Tx, unitID int64) ([]string, error) {
	filenames, err := collectLocalFilenames(ctx, tx, `
		SELECT n.filename FROM notes n
		JOIN topics t ON n.topic_id = t.id
		WHERE t.unit_id = $1 AND n.filename IS NOT NULL`, unitID)
	if err != nil {
		return nil, err
	}

	statements := []string{
		`DELETE FROM verification_status WHERE note_id IN (
			SELECT n.id FROM notes n
			JOIN topics t ON n.topic_id = t.id
			WHERE t.unit_id = $1)`,
		`DELETE FROM notes WHERE topic_id IN (SELECT id FROM topics WHERE unit_id = $1)`,
		`DELETE FROM topics WHERE unit_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, unitID); err != nil {
			return nil, fmt.Errorf("error cascading unit delete: %w", err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM units WHERE id = $1`, unitID)
	if err != nil {
		return nil, fmt.Errorf("error deleting unit: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrUnitNotFound
	}
	return filenames, nil
}

// DeleteSubjectCascadeTx removes a subject and its descendants
func (r *SyllabusRepository) DeleteSubjectCascadeTx(ctx context.Context, tx pgx.Tx, subjectID int64) ([]string, error) {
	filenames, err := collectLocalFilenames(ctx, tx, `
		SELECT n.filename FROM notes n
		JOIN topics t ON n.topic_id = t.id
		JOIN units u ON t.unit_id = u.id
		WHERE u.subject_id = $1 AND n.filename IS NOT NULL`, subjectID)
	if err != nil {
		return nil, err
	}

	statements := []string{
		`DELETE FROM verification_status WHERE note_id IN (
			SELECT n.id FROM notes n
			JOIN topics t ON n.topic_id = t.id
			JOIN units u ON t.unit_id = u.id
			WHERE u.subject_id = $1)`,
		`DELETE FROM notes WHERE topic_id IN (
			SELECT t.id FROM topics t
			JOIN units u ON t.unit_id = u.id
			WHERE u.subject_id = $1)`,
		`DELETE FROM topics WHERE unit_id IN (SELECT id FROM units WHERE subject_id = $1)`,
		`DELETE FROM units WHERE subject_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, subjectID); err != nil {
			return nil, fmt.Errorf("error cascading subject delete: %w", err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("error deleting subject: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrSubjectNotFound
	}
	return filenames, nil
}

// DeleteSemesterCascadeTx removes a semester and its descendants
func (r *SyllabusRepository) DeleteSemesterCascadeTx(ctx context.Context, tx pgx.Tx, semesterID int64) ([]string, error) {
	filenames, err := collectLocalFilenames(ctx, tx, `
		SELECT n.filename FROM notes n
		JOIN topics t ON n.topic_id = t.id
		JOIN units u ON t.unit_id = u.id
		JOIN subjects s ON u.subject_id = s.id
		WHERE s.semester_id = $1 AND n.filename IS NOT NULL`, semesterID)
	if err != nil {
		return nil, err
	}

	statements := []string{
		`DELETE FROM verification_status WHERE note_id IN (
			SELECT n.id FROM notes n
			JOIN topics t ON n.topic_id = t.id
			JOIN units u ON t.unit_id = u.id
			JOIN subjects s ON u.subject_id = s.id
			WHERE s.semester_id = $1)`,
		`DELETE FROM notes WHERE topic_id IN (
			SELECT t.id FROM topics t
			JOIN units u ON t.unit_id = u.id
			JOIN subjects s ON u.subject_id = s.id
			WHERE s.semester_id = $1)`,
		`DELETE FROM topics WHERE unit_id IN (
			SELECT u.id FROM units u
			JOIN subjects s ON u.subject_id = s.id
			WHERE s.semester_id = $1)`,
		`DELETE FROM units WHERE subject_id IN (SELECT id FROM subjects WHERE semester_id = $1)`,
		`DELETE FROM subjects WHERE semester_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, semesterID); err != nil {
			return nil, fmt.Errorf("error cascading semester delete: %w", err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM semesters WHERE id = $1`, semesterID)
	if err != nil {
		return nil, fmt.Errorf("error deleting semester: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrSemesterNotFound
	}
	return filenames, nil
}

// DeleteCourseCascadeTx removes a course and its entire subtree
func (r *SyllabusRepository) DeleteCourseCascadeTx(ctx context.Context, tx pgx.Tx, courseID int64) ([]string, error) {
	filenames, err := collectLocalFilenames(ctx, tx, `
		SELECT n.filename FROM notes n
		JOIN topics t ON n.topic_id = t.id
		JOIN units u ON t.unit_id = u.id
		JOIN subjects s ON u.subject_id = s.id
		JOIN semesters se ON s.semester_id = se.id
		WHERE se.course_id = $1 AND n.filename IS NOT NULL`, courseID)
	if err != nil {
		return nil, err
	}

	statements := []string{
		`DELETE FROM verification_status WHERE note_id IN (
			SELECT n.id FROM notes n
			JOIN topics t ON n.topic_id = t.id
			JOIN units u ON t.unit_id = u.id
			JOIN subjects s ON u.subject_id = s.id
			JOIN semesters se ON s.semester_id = se.id
			WHERE se.course_id = $1)`,
		`DELETE FROM notes WHERE topic_id IN (
			SELECT t.id FROM topics t
			JOIN units u ON t.unit_id = u.id
			JOIN subjects s ON u.subject_id = s.id
			JOIN semesters se ON s.semester_id = se.id
			WHERE se.course_id = $1)`,
		`DELETE FROM topics WHERE unit_id IN (
			SELECT u.id FROM units u
			JOIN subjects s ON u.subject_id = s.id
			JOIN semesters se ON s.semester_id = se.id
			WHERE se.course_id = $1)`,
		`DELETE FROM units WHERE subject_id IN (
			SELECT s.id FROM subjects s
			JOIN semesters se ON s.semester_id = se.id
			WHERE se.course_id = $1)`,
		`DELETE FROM subjects WHERE semester_id IN (SELECT id FROM semesters WHERE course_id = $1)`,
		`DELETE FROM semesters WHERE course_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, courseID); err != nil {
			return nil, fmt.Errorf("error cascading course delete: %w", err)
		}
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	if err != nil {
		return nil, fmt.Errorf("error deleting course: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperrors.ErrCourseNotFound
	}
	return filenames, nil
}
