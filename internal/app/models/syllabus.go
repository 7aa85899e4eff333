package models

import "time"

// Syllabus hierarchy: Course > Semester > Subject > Unit > Topic. Each level
// points at its parent; the college is recorded only on the course, so scope
// checks walk the chain upward.

// Course defines the top syllabus level based on the 'courses' table
type Course struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" example:"B.Sc Computer Science"`
	CollegeID int64     `json:"collegeId" db:"college_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Semesters []*Semester `json:"semesters,omitempty"` // Relation, no db tag
}

// Semester defines the 'semesters' table
type Semester struct {
	ID        int64     `json:"id" db:"id"`
	Number    int       `json:"number" db:"number" example:"3"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Subjects []*Subject `json:"subjects,omitempty"` // Relation, no db tag
}

// Subject defines the 'subjects' table
type Subject struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name" example:"Operating Systems"`
	SemesterID int64     `json:"semesterId" db:"semester_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	Units []*Unit `json:"units,omitempty"` // Relation, no db tag
}

// Unit defines the 'units' table
type Unit struct {
	ID        int64     `json:"id" db:"id"`
	Number    int       `json:"number" db:"number" example:"2"`
	SubjectID int64     `json:"subjectId" db:"subject_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Topics []*Topic `json:"topics,omitempty"` // Relation, no db tag
}

// Topic defines the 'topics' table; notes attach here.
type Topic struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" example:"Round Robin"`
	UnitID    int64     `json:"unitId" db:"unit_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Notes []*Note `json:"notes,omitempty"` // Relation, no db tag
}
