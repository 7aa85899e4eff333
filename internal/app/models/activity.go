package models

import "time"

// ActivityLog defines the append-only 'activity_logs' table. Rows are never
// updated or deleted through the API.
type ActivityLog struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Action    string    `json:"action" db:"action" example:"Uploaded note"`
	Details   *string   `json:"details,omitempty" db:"details"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	User *User `json:"user,omitempty"` // Relation, no db tag
}
