// Package handler exposes the library services over HTTP.
package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/libraryhub/libraryhub-go/internal/response"
	"github.com/libraryhub/libraryhub-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

var (
	errBodyTooLarge = errors.New("request body too large")
	errInvalidBody  = errors.New("invalid request body")
)

// decode reads a JSON request body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return errInvalidBody
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := response.JSON.Unmarshal(body, v); err != nil {
		return errInvalidBody
	}
	return nil
}

// writeDecodeError reports a decode failure.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		response.Error(w, http.StatusRequestEntityTooLarge, response.CodeRequestTooLarge, err.Error())
		return
	}
	response.Error(w, http.StatusBadRequest, response.CodeValidation, errInvalidBody.Error())
}

// writeError maps a service error onto its status and error code.
// Anything unrecognised is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		response.Error(w, http.StatusBadRequest, response.CodeValidation, verr.Error())
		return
	}

	status, code := http.StatusInternalServerError, response.CodeInternal
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		status, code = http.StatusBadRequest, response.CodeEmailTaken
	case errors.Is(err, service.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, response.CodeInvalidCredentials
	case errors.Is(err, service.ErrInvalidRefreshToken):
		status, code = http.StatusUnauthorized, response.CodeUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, response.CodeForbidden
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrBookNotFound):
		status, code = http.StatusNotFound, response.CodeNotFound
	case errors.Is(err, service.ErrNoCopiesAvailable):
		status, code = http.StatusBadRequest, response.CodeNoCopiesAvailable
	case errors.Is(err, service.ErrAlreadyBorrowed):
		status, code = http.StatusBadRequest, response.CodeAlreadyBorrowed
	case errors.Is(err, service.ErrNoActiveBorrowing):
		status, code = http.StatusNotFound, response.CodeNoActiveBorrowing
	case errors.Is(err, service.ErrInvalidResetToken):
		status, code = http.StatusBadRequest, response.CodeInvalidToken
	case errors.Is(err, service.ErrResetTokenUsed):
		status, code = http.StatusBadRequest, response.CodeTokenAlreadyUsed
	case errors.Is(err, service.ErrResetTokenExpired):
		status, code = http.StatusBadRequest, response.CodeTokenExpired
	case errors.Is(err, service.ErrBookInUse):
		status, code = http.StatusConflict, response.CodeBookInUse
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		response.Error(w, status, code, "internal server error")
		return
	}

	response.Error(w, status, code, err.Error())
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
