package apperrors

import (
	"net/http"
)

// Factories and predefined errors for the business domains of the service.

// ErrNotFound converts a repository "record not found" error into a 404.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation into a 409.
func ErrAlreadyExists(err error, domain, message string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, message, http.StatusConflict)
}

// ErrConflict builds a generic 409 conflict.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation builds a 400 for operations the business rules forbid.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrSelfReview is returned when a user tries to review themselves.
var ErrSelfReview = New(
	CodeInvalidOperation,
	"reviews",
	"You cannot review yourself",
	http.StatusBadRequest,
)

// ErrInvalidFileType is returned when an uploaded file's MIME type is not allowed.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"uploads",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// ErrMissingSearchTerm is returned when a search request carries no query text.
var ErrMissingSearchTerm = New(
	CodeValidationFailed,
	"search",
	"Search term is required",
	http.StatusBadRequest,
)

// ErrSocialAccountTaken is returned when another user already owns the
// email associated with the external account being linked.
var ErrSocialAccountTaken = New(
	CodeConflict,
	"social_accounts",
	"This social account is already linked to a different user",
	http.StatusConflict,
)
