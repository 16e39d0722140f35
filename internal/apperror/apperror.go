package apperror

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailTaken is returned when a user registration reuses an email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on login with a bad email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWrongPassword is returned when a password change supplies the wrong current password.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrUserNotFound is returned when a user lookup finds no row.
	ErrUserNotFound = errors.New("user not found")
	// ErrOwnerNotFound is returned when a store references a missing owner.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrStoreNotFound is returned when a store lookup finds no row.
	ErrStoreNotFound = errors.New("store not found")
	// ErrRatingNotFound is returned when no rating exists for a (user, store) pair.
	ErrRatingNotFound = errors.New("rating not found")
	// ErrRatingExists is returned when a rating insert hits the (user, store) unique index.
	ErrRatingExists = errors.New("rating already exists")
)

// StatusCode maps a domain error to its HTTP status. Unknown errors map to
// 500; callers must log the original and respond with Message(err) only.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrOwnerNotFound), errors.Is(err, ErrRatingExists):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrStoreNotFound), errors.Is(err, ErrRatingNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an error. Internal failures
// collapse to a generic message so backend details never leak.
func Message(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
