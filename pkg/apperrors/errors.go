package apperrors

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrDuplicateName = errors.New("profile name already in use")
	ErrActiveProfile = errors.New("cannot delete the active profile")
	ErrLastAdmin     = errors.New("cannot remove last admin")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
)
