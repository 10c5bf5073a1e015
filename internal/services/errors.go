package services

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrInvalidInput is returned when a request carries invalid field values
var ErrInvalidInput = errors.New("invalid input")

// ErrForbidden is returned when the caller is not allowed to act on the
// requested entity
var ErrForbidden = errors.New("forbidden")

// IsNotFound reports whether the error is a missing-record condition,
// from either this package or the ORM.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
