package rest

import (
	"errors"
	"net/http"
	"postboard/internal/service"
)

const (
	// ErrInvalidData is sent when a value in request is invalid
	ErrInvalidData = "INVALID_DATA"
	// ErrInternal is sent when an internal server error occurs
	ErrInternal = "INTERNAL_ERROR"
	// ErrParsing is sent when the request body cannot be decoded
	ErrParsing = "PARSING_ERROR"
	// ErrNotFound is sent when the addressed post or route does not exist
	ErrNotFound = "NOT_FOUND"

	ErrDuplicateUsername  = "DUPLICATE_USERNAME"
	ErrDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrInvalidCredentials = "INVALID_CREDENTIALS"
	ErrForbidden          = "FORBIDDEN"
	ErrAlreadyLiked       = "ALREADY_LIKED"
	ErrUnauthenticated    = "UNAUTHENTICATED"
	ErrInvalidToken       = "INVALID_TOKEN"
	ErrMethodNotAllowed   = "METHOD_NOT_ALLOWED"
)

// Levels tell Handle what to do with a returned *HTTPError.
const (
	// LevelRespond sends the error to the client without logging it.
	LevelRespond = 1
	// LevelWarn logs a warning and lets the chain continue.
	LevelWarn = 2
	// LevelFatal logs the error and sends it to the client.
	LevelFatal = 3
)

type HTTPError struct {
	Level     int    `json:"-"`
	IError    error  `json:"-"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

type errorMessage struct {
	target error
	text   string
}

// msg overrides the default client message for one error kind.
func msg(target error, text string) errorMessage {
	return errorMessage{target: target, text: text}
}

var serviceErrors = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{service.ErrInvalidRequest, http.StatusBadRequest, ErrInvalidData, "Invalid request."},
	{service.ErrDuplicateUsername, http.StatusBadRequest, ErrDuplicateUsername, "This user already exists."},
	{service.ErrDuplicateEmail, http.StatusBadRequest, ErrDuplicateEmail, "This email is already registered."},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, ErrInvalidCredentials, "Incorrect username or password."},
	{service.ErrNotFound, http.StatusNotFound, ErrNotFound, "Not found"},
	{service.ErrForbidden, http.StatusForbidden, ErrForbidden, "You do not have access."},
	{service.ErrAlreadyLiked, http.StatusBadRequest, ErrAlreadyLiked, "You already liked this post."},
	{service.ErrUnauthenticated, http.StatusUnauthorized, ErrUnauthenticated, "You do not have access."},
	{service.ErrInvalidToken, http.StatusForbidden, ErrInvalidToken, "Invalid token"},
}

// serviceError maps a service error to its response. Domain errors are
// answered as is; anything else becomes a logged 500 that keeps the cause
// for diagnostics only.
func serviceError(err error, overrides ...errorMessage) *HTTPError {
	for _, se := range serviceErrors {
		if !errors.Is(err, se.target) {
			continue
		}
		e := &HTTPError{
			Level:     LevelRespond,
			IError:    err,
			Status:    se.status,
			Message:   se.message,
			ErrorCode: se.code,
		}
		for _, o := range overrides {
			if errors.Is(err, o.target) {
				e.Message = o.text
			}
		}
		return e
	}

	return &HTTPError{
		Level:     LevelFatal,
		IError:    err,
		Status:    http.StatusInternalServerError,
		Message:   http.StatusText(http.StatusInternalServerError),
		ErrorCode: ErrInternal,
	}
}
