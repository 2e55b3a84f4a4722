package httptransport

// ErrorResponse is the low-detail error payload for audit endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ExportResponse wraps a serialized audit trail.
type ExportResponse struct {
	Format  string `json:"format"`
	Payload string `json:"payload"`
}
