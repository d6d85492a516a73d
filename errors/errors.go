package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrEmptyText          = fmt.Errorf("message text required")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")
	ErrUnknownEvent       = fmt.Errorf("unknown event")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrEditWindowExpired  = fmt.Errorf("time limit passed")
	ErrInvalidTransition  = fmt.Errorf("invalid status transition")
	ErrUnknownStatus      = fmt.Errorf("unknown message status")
	ErrConnectionClosed   = fmt.Errorf("connection closed")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet the complexity rules")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrMissingToken       = fmt.Errorf("no token provided")
	ErrInvalidToken       = fmt.Errorf("invalid token")
)

// Acknowledged reports whether the error already produced its own event for the
// requesting connection, so no generic error event has to be sent.
func Acknowledged(err error) bool {
	return errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrEditWindowExpired) ||
		errors.Is(err, ErrInvalidTransition)
}

// Internal reports whether the error comes from the infrastructure rather than from the client.
func Internal(err error) bool {
	if err == nil {
		return false
	}
	for _, known := range []error{
		ErrEmptyText, ErrInvalidPayload, ErrUnknownEvent, ErrMessageNotFound, ErrRoomNotFound,
		ErrUserNotFound, ErrEditWindowExpired, ErrInvalidTransition, ErrUnknownStatus,
		ErrUserAlreadyExists, ErrInvalidCredentials, ErrInvalidPassword,
		ErrMissingToken, ErrInvalidToken,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return true
}

// HTTPStatus maps a service error to the status code of the REST surface.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrEmptyText),
		errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMessageNotFound),
		errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEditWindowExpired), errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
