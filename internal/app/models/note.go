package models

import "time"

// Material types accepted for notes. "url" is an external link with no
// stored payload.
const (
	MaterialTypePDF   = "pdf"
	MaterialTypeDocx  = "docx"
	MaterialTypePPT   = "ppt"
	MaterialTypeVideo = "video"
	MaterialTypeURL   = "url"
)

// ValidMaterialType reports whether t is an accepted material type.
func ValidMaterialType(t string) bool {
	switch t {
	case MaterialTypePDF, MaterialTypeDocx, MaterialTypePPT, MaterialTypeVideo, MaterialTypeURL:
		return true
	}
	return false
}

// Note defines the study material model based on the 'notes' table. Exactly
// one of Filename (local storage) or FileURL (CDN or external link) is set.
type Note struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Filename     *string   `json:"filename,omitempty" db:"filename"`
	FileURL      *string   `json:"fileUrl,omitempty" db:"file_url"`
	MaterialType string    `json:"materialType" db:"material_type" example:"pdf"`
	UserID       int64     `json:"userId" db:"user_id"`
	TopicID      int64     `json:"topicId" db:"topic_id"`
	CollegeID    int64     `json:"collegeId" db:"college_id"`
	UploadDate   time.Time `json:"uploadDate" db:"upload_date"`
	IsVerified   bool      `json:"isVerified" db:"is_verified"`

	Uploader *User               `json:"uploader,omitempty"` // Relation, no db tag
	Topic    *Topic              `json:"topic,omitempty"`    // Relation, no db tag
	Status   *VerificationStatus `json:"status,omitempty"`   // Relation, no db tag
}

// IsLocal reports whether the payload lives on this server's filesystem.
func (n *Note) IsLocal() bool {
	return n.Filename != nil && *n.Filename != ""
}

// Verification states for a note's review record.
const (
	VerificationPending  = "Pending"
	VerificationApproved = "Approved"
	VerificationRejected = "Rejected"
)

// VerificationStatus defines the 'verification_status' table; one row per
// note, created with the note and deleted with it.
type VerificationStatus struct {
	ID         int64      `json:"id" db:"id"`
	NoteID     int64      `json:"noteId" db:"note_id"`
	VerifierID *int64     `json:"verifierId,omitempty" db:"verifier_id"`
	Status     string     `json:"status" db:"status" example:"Pending"`
	Comments   *string    `json:"comments,omitempty" db:"comments"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty" db:"verified_at"`

	Verifier *User `json:"verifier,omitempty"` // Relation, no db tag
}
