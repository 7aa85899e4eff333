package models

import "time"

// StudentRegistry defines a pre-admitted student seat based on the
// 'student_registry' table. Student signup succeeds only against a matching
// unclaimed entry; is_registered flips exactly once when the seat is taken.
type StudentRegistry struct {
	ID             int64     `json:"id" db:"id"`
	RegisterNumber string    `json:"registerNumber" db:"register_number"`
	Email          string    `json:"email" db:"email"`
	CollegeID      int64     `json:"collegeId" db:"college_id"`
	IsRegistered   bool      `json:"isRegistered" db:"is_registered"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
