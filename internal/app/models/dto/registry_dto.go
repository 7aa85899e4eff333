package dto

// AddRegistryEntryRequest adds a single pre-admitted seat.
type AddRegistryEntryRequest struct {
	RegisterNumber string `json:"registerNumber" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
}

// RegistryImportResponse reports the outcome of a bulk registry upload.
type RegistryImportResponse struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// RegistryEntryResponse carries a registry row.
type RegistryEntryResponse struct {
	ID             int64  `json:"id"`
	RegisterNumber string `json:"registerNumber"`
	Email          string `json:"email"`
	CollegeID      int64  `json:"collegeId"`
	IsRegistered   bool   `json:"isRegistered"`
}
