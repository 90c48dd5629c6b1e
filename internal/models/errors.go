package models

import (
	"errors"
	"fmt"
)

// Error constants for department page operations
var (
	ErrPageNotFound       = errors.New("department page not found")
	ErrProgramNotFound    = errors.New("curriculum program not found")
	ErrRegulationNotFound = errors.New("regulation not found")
	ErrUnknownSection     = errors.New("unknown section")
	ErrUnknownList        = errors.New("unknown list")
	ErrUnknownField       = errors.New("unknown field")
	ErrItemNotFound       = errors.New("list item not found")
	ErrStaleSlug          = errors.New("result belongs to a previously selected department")
	ErrNoSlugSelected     = errors.New("no department selected")
	ErrUnknownDepartment  = errors.New("unknown department")
	ErrInvalidBucket      = errors.New("invalid storage bucket")
	ErrAssetNotFound      = errors.New("asset not found")
)

// ValidationError reports input rejected before any I/O took place
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UploadError wraps a failure of the object storage backend
type UploadError struct {
	Bucket string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload to %s failed: %v", e.Bucket, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PersistenceError wraps a failure of the page store
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUploadError reports whether err is or wraps an UploadError
func IsUploadError(err error) bool {
	var ue *UploadError
	return errors.As(err, &ue)
}

// IsPersistenceError reports whether err is or wraps a PersistenceError
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsNotFound reports whether err is one of the not-found sentinels
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPageNotFound) ||
		errors.Is(err, ErrProgramNotFound) ||
		errors.Is(err, ErrRegulationNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrUnknownDepartment) ||
		errors.Is(err, ErrAssetNotFound)
}

// IsBadRequest reports whether err describes a malformed request
func IsBadRequest(err error) bool {
	return IsValidationError(err) ||
		errors.Is(err, ErrUnknownSection) ||
		errors.Is(err, ErrUnknownList) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrInvalidBucket)
}
