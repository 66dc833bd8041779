package dto

import "errors"

// Custom errors
var (
	// ErrForm16NotAvailable means the certificate itself is missing or
	// unreadable. It is the only fatal extraction error; a field that is
	// merely absent from the text never produces an error.
	ErrForm16NotAvailable = errors.New("form 16 document not available")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
