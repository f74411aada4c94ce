package http

// APIResponse is the envelope every endpoint returns: an HTTP-style status,
// its text, and an optional payload.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError describes one failed field check in a request body.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"target"`
	Message string                 `json:"message,omitempty" example:"Target is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
