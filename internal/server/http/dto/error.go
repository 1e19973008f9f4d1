package dto

// ErrorResponse wraps every error returned by the API.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the message and, after a failed purchase, the coins handed back.
type ErrorBody struct {
	Message string `json:"message"`
	Data    *Coins `json:"data,omitempty"`
}
