// Package response writes the JSON envelope shared by every endpoint:
//
//	{"status":"success","data":...}
//	{"status":"error","message":"...","error_code":"..."}
package response

import (
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// JSON is the codec used for request and response bodies.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes reported in the error_code field.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeNoCopiesAvailable  = "NO_COPIES_AVAILABLE"
	CodeAlreadyBorrowed    = "ALREADY_BORROWED"
	CodeNoActiveBorrowing  = "NO_ACTIVE_BORROWING"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenAlreadyUsed   = "TOKEN_ALREADY_USED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeBookInUse          = "BOOK_IN_USE"
	CodeRequestTooLarge    = "REQUEST_TOO_LARGE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// Envelope is the body of every response.
type Envelope struct {
	Status    string `json:"status"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

// Write encodes v as the response body.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := JSON.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response", "error", err)
	}
}

// Success writes a success envelope carrying data.
func Success(w http.ResponseWriter, status int, data any) {
	Write(w, status, Envelope{Status: StatusSuccess, Data: data})
}

// Message writes a success envelope carrying only a message.
func Message(w http.ResponseWriter, status int, msg string) {
	Write(w, status, Envelope{Status: StatusSuccess, Message: msg})
}

// Error writes an error envelope.
func Error(w http.ResponseWriter, status int, code, msg string) {
	Write(w, status, Envelope{Status: StatusError, Message: msg, ErrorCode: code})
}
