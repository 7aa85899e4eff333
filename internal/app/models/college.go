package models

import "time"

// College defines the tenant model based on the 'colleges' table. Every
// user, registry entry and syllabus record belongs to exactly one college.
type College struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Name      string    `json:"name" db:"name" example:"Springfield Institute of Technology"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
