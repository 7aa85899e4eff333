package dto

// CreateCourseRequest creates a course under the actor's college (Super
// Admin passes the target college explicitly).
type CreateCourseRequest struct {
	Name      string `json:"name" binding:"required"`
	CollegeID *int64 `json:"collegeId,omitempty"`
}

// UpdateCourseRequest renames a course.
type UpdateCourseRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateSemesterRequest adds a semester to a course.
type CreateSemesterRequest struct {
	Number int `json:"number" binding:"required,min=1"`
}

// UpdateSemesterRequest changes a semester's number.
type UpdateSemesterRequest struct {
	Number int `json:"number" binding:"required,min=1"`
}

// CreateSubjectRequest adds a subject to a semester.
type CreateSubjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateSubjectRequest renames a subject.
type UpdateSubjectRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateUnitRequest adds a unit to a subject.
type CreateUnitRequest struct {
	Number int `json:"number" binding:"required,min=1"`
}

// UpdateUnitRequest changes a unit's number.
type UpdateUnitRequest struct {
	Number int `json:"number" binding:"required,min=1"`
}

// CreateTopicRequest adds a topic to a unit.
type CreateTopicRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateTopicRequest renames a topic.
type UpdateTopicRequest struct {
	Name string `json:"name" binding:"required"`
}

// CourseResponse carries a course row.
type CourseResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CollegeID int64  `json:"collegeId"`
}

// SemesterResponse carries a semester row.
type SemesterResponse struct {
	ID       int64 `json:"id"`
	Number   int   `json:"number"`
	CourseID int64 `json:"courseId"`
}

// SubjectResponse carries a subject row.
type SubjectResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	SemesterID int64  `json:"semesterId"`
}

// UnitResponse carries a unit row.
type UnitResponse struct {
	ID        int64 `json:"id"`
	Number    int   `json:"number"`
	SubjectID int64 `json:"subjectId"`
}

// TopicResponse carries a topic row.
type TopicResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UnitID int64  `json:"unitId"`
}
