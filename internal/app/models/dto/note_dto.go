package dto

import "time"

// UploadNoteRequest is the multipart form for note uploads. File uploads
// carry the payload in the "file" part; material type "url" uses FileURL
// instead.
type UploadNoteRequest struct {
	Title        string `form:"title" binding:"required"`
	TopicID      int64  `form:"topicId" binding:"required,min=1"`
	MaterialType string `form:"materialType" binding:"required"`
	FileURL      string `form:"fileUrl"`
}

// UpdateNoteTitleRequest renames a note.
type UpdateNoteTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

// RejectNoteRequest rejects a note with reviewer comments.
type RejectNoteRequest struct {
	Comments string `json:"comments"`
}

// NoteFilter carries the verified-notes listing filters. All fields are
// optional; Search matches title, topic, subject and uploader username.
type NoteFilter struct {
	CourseID       int64  `form:"courseId"`
	SemesterNumber int    `form:"semester"`
	SubjectID      int64  `form:"subjectId"`
	Search         string `form:"q"`
}

// NoteResponse carries a note row with its review state.
type NoteResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	MaterialType string    `json:"materialType"`
	Filename     *string   `json:"filename,omitempty"`
	FileURL      *string   `json:"fileUrl,omitempty"`
	TopicID      int64     `json:"topicId"`
	CollegeID    int64     `json:"collegeId"`
	UploadedBy   string    `json:"uploadedBy,omitempty"`
	UploadDate   time.Time `json:"uploadDate"`
	IsVerified   bool      `json:"isVerified"`
	Status       string    `json:"status,omitempty"`
	Comments     *string   `json:"comments,omitempty"`
}

// UploadNoteResponse is the upload result. StorageWarning is set when the
// CDN upload failed and the file landed in local storage instead.
type UploadNoteResponse struct {
	Note           NoteResponse `json:"note"`
	StorageWarning string       `json:"storageWarning,omitempty"`
}

// NoteAccessResponse resolves where the client should fetch a note from.
type NoteAccessResponse struct {
	URL        string `json:"url"`
	Attachment bool   `json:"attachment"`
}

// NoteVerificationResponse reports a note review decision. Rejected notes
// are retained with their status for uploader feedback.
type NoteVerificationResponse struct {
	NoteID   int64  `json:"noteId"`
	Status   string `json:"status"`
	Retained bool   `json:"retained,omitempty"`
}
