package api

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse reports the credential and rate state for display.
type StatusResponse struct {
	IsAvailable   bool   `json:"is_available"`
	HasCredential bool   `json:"has_credential"`
	IsReady       bool   `json:"is_ready"`
	CanCallNow    bool   `json:"can_call_now"`
	LastError     string `json:"last_error,omitempty"`
}
