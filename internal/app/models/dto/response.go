package dto

// APIResponse is the JSON envelope every endpoint returns. Exactly one of
// Data or Error is set.
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// NewSuccessResponse wraps payload data in the standard envelope.
func NewSuccessResponse(data interface{}) APIResponse {
	return APIResponse{Data: data}
}

// NewErrorAPIResponse wraps an error detail in the standard envelope.
func NewErrorAPIResponse(detail *ErrorDetail) APIResponse {
	return APIResponse{Error: detail}
}

// SuccessResponse represents a standard success message payload
type SuccessResponse struct {
	Message string `json:"message"`
}
