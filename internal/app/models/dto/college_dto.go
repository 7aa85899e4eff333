package dto

// CreateCollegeRequest creates a new college tenant.
type CreateCollegeRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address,omitempty"`
}

// UpdateCollegeRequest renames a college.
type UpdateCollegeRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address,omitempty"`
}

// CollegeResponse carries a college with its formatted display code.
type CollegeResponse struct {
	ID      int64   `json:"id"`
	Code    string  `json:"code" example:"CIDA001"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
}
