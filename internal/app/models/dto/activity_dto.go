package dto

import "time"

// ActivityLogResponse carries one activity log row.
type ActivityLogResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Username  string    `json:"username,omitempty"`
	Action    string    `json:"action"`
	Details   *string   `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminDashboardResponse summarizes an admin's college.
type AdminDashboardResponse struct {
	Courses          []CourseResponse `json:"courses"`
	PendingTeachers  []UserResponse   `json:"pendingTeachers"`
	VerifiedTeachers []UserResponse   `json:"verifiedTeachers"`
	VerifiedStudents []UserResponse   `json:"verifiedStudents"`
}

// SuperAdminDashboardResponse summarizes the whole portal.
type SuperAdminDashboardResponse struct {
	Colleges       []CollegeResponse `json:"colleges"`
	PendingAdmins  []UserResponse    `json:"pendingAdmins"`
	VerifiedAdmins []UserResponse    `json:"verifiedAdmins"`
}

// TeacherDashboardResponse summarizes a teacher's college.
type TeacherDashboardResponse struct {
	Courses          []CourseResponse `json:"courses"`
	VerifiedStudents []UserResponse   `json:"verifiedStudents"`
	PendingNotes     []NoteResponse   `json:"pendingNotes"`
}
