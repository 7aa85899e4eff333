package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/portal/internal/app/models"
	"github.com/edustack/portal/internal/app/models/dto"
	"github.com/edustack/portal/internal/app/services"
	"github.com/edustack/portal/internal/middleware"
	"github.com/edustack/portal/internal/pkg/collegeid"
)

// SyllabusController manages the course > semester > subject > unit > topic
// hierarchy. Each level nests under its parent in the route table.
type SyllabusController struct {
	syllabusService *services.SyllabusService
}

// NewSyllabusController creates a new SyllabusController
func NewSyllabusController(syllabusService *services.SyllabusService) *SyllabusController {
	return &SyllabusController{syllabusService: syllabusService}
}

// --- Courses ---

// CreateCourse adds a course under the actor's college.
func (c *SyllabusController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	course, err := c.syllabusService.CreateCourse(ctx.Request.Context(), middleware.CurrentUser(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(courseResponse(course)))
}

// ListCourses returns the courses of a college.
func (c *SyllabusController) ListCourses(ctx *gin.Context) {
	actor := middleware.CurrentUser(ctx)

	var collegeID int64
	if code := ctx.Query("collegeId"); code != "" {
		id, err := collegeid.Parse(code)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		collegeID = id
	} else if actor != nil && actor.CollegeID != nil {
		collegeID = *actor.CollegeID
	} else {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "collegeId query parameter is required").
			WithField("collegeId")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(detail))
		return
	}

	courses, err := c.syllabusService.ListCourses(ctx.Request.Context(), actor, collegeID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		out = append(out, courseResponse(course))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// UpdateCourse renames a course.
func (c *SyllabusController) UpdateCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	course, err := c.syllabusService.UpdateCourse(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courseResponse(course)))
}

// DeleteCourse removes a course and its whole subtree.
func (c *SyllabusController) DeleteCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.syllabusService.DeleteCourse(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Course deleted"}))
}

// --- Semesters ---

// CreateSemester adds a semester to a course.
func (c *SyllabusController) CreateSemester(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateSemesterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	semester, err := c.syllabusService.CreateSemester(ctx.Request.Context(), middleware.CurrentUser(ctx), courseID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(semesterResponse(semester)))
}

// ListSemesters returns a course's semesters.
func (c *SyllabusController) ListSemesters(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	semesters, err := c.syllabusService.ListSemesters(ctx.Request.Context(), middleware.CurrentUser(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.SemesterResponse, 0, len(semesters))
	for _, semester := range semesters {
		out = append(out, semesterResponse(semester))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// UpdateSemester changes a semester's number.
func (c *SyllabusController) UpdateSemester(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSemesterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	semester, err := c.syllabusService.UpdateSemester(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(semesterResponse(semester)))
}

// DeleteSemester removes a semester and its subtree.
func (c *SyllabusController) DeleteSemester(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.syllabusService.DeleteSemester(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Semester deleted"}))
}

// --- Subjects ---

// CreateSubject adds a subject to a semester.
func (c *SyllabusController) CreateSubject(ctx *gin.Context) {
	semesterID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	subject, err := c.syllabusService.CreateSubject(ctx.Request.Context(), middleware.CurrentUser(ctx), semesterID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(subjectResponse(subject)))
}

// ListSubjects returns a semester's subjects.
func (c *SyllabusController) ListSubjects(ctx *gin.Context) {
	semesterID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	subjects, err := c.syllabusService.ListSubjects(ctx.Request.Context(), middleware.CurrentUser(ctx), semesterID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		out = append(out, subjectResponse(subject))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// UpdateSubject renames a subject.
func (c *SyllabusController) UpdateSubject(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	subject, err := c.syllabusService.UpdateSubject(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(subjectResponse(subject)))
}

// DeleteSubject removes a subject and its subtree.
func (c *SyllabusController) DeleteSubject(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.syllabusService.DeleteSubject(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Subject deleted"}))
}

// --- Units ---

// CreateUnit adds a unit to a subject (Teacher only).
func (c *SyllabusController) CreateUnit(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateUnitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	unit, err := c.syllabusService.CreateUnit(ctx.Request.Context(), middleware.CurrentUser(ctx), subjectID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(unitResponse(unit)))
}

// ListUnits returns a subject's units.
func (c *SyllabusController) ListUnits(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	units, err := c.syllabusService.ListUnits(ctx.Request.Context(), middleware.CurrentUser(ctx), subjectID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.UnitResponse, 0, len(units))
	for _, unit := range units {
		out = append(out, unitResponse(unit))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// UpdateUnit changes a unit's number.
func (c *SyllabusController) UpdateUnit(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateUnitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	unit, err := c.syllabusService.UpdateUnit(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(unitResponse(unit)))
}

// DeleteUnit removes a unit and its topics.
func (c *SyllabusController) DeleteUnit(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.syllabusService.DeleteUnit(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Unit deleted"}))
}

// --- Topics ---

// CreateTopic adds a topic to a unit (Teacher only).
func (c *SyllabusController) CreateTopic(ctx *gin.Context) {
	unitID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	topic, err := c.syllabusService.CreateTopic(ctx.Request.Context(), middleware.CurrentUser(ctx), unitID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(topicResponse(topic)))
}

// ListTopics returns a unit's topics.
func (c *SyllabusController) ListTopics(ctx *gin.Context) {
	unitID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	topics, err := c.syllabusService.ListTopics(ctx.Request.Context(), middleware.CurrentUser(ctx), unitID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.TopicResponse, 0, len(topics))
	for _, topic := range topics {
		out = append(out, topicResponse(topic))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// UpdateTopic renames a topic.
func (c *SyllabusController) UpdateTopic(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorAPIResponse(dto.HandleValidationError(err)))
		return
	}

	topic, err := c.syllabusService.UpdateTopic(ctx.Request.Context(), middleware.CurrentUser(ctx), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(topicResponse(topic)))
}

// DeleteTopic removes a topic and its notes.
func (c *SyllabusController) DeleteTopic(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.syllabusService.DeleteTopic(ctx.Request.Context(), middleware.CurrentUser(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Topic deleted"}))
}

func courseResponse(course *models.Course) dto.CourseResponse {
	return dto.CourseResponse{ID: course.ID, Name: course.Name, CollegeID: course.CollegeID}
}

func semesterResponse(semester *models.Semester) dto.SemesterResponse {
	return dto.SemesterResponse{ID: semester.ID, Number: semester.Number, CourseID: semester.CourseID}
}

func subjectResponse(subject *models.Subject) dto.SubjectResponse {
	return dto.SubjectResponse{ID: subject.ID, Name: subject.Name, SemesterID: subject.SemesterID}
}

func unitResponse(unit *models.Unit) dto.UnitResponse {
	return dto.UnitResponse{ID: unit.ID, Number: unit.Number, SubjectID: unit.SubjectID}
}

func topicResponse(topic *models.Topic) dto.TopicResponse {
	return dto.TopicResponse{ID: topic.ID, Name: topic.Name, UnitID: topic.UnitID}
}
