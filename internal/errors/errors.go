package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidRequest is returned when input validation fails (e.g. an empty question)
	ErrInvalidRequest = errors.New("invalid request")

	// ErrIndexNotReady is returned when scoring is requested before the index
	// could be built or loaded
	ErrIndexNotReady = errors.New("index not ready")

	// ErrNoticeNotFound is returned when a notice is not found in the store
	ErrNoticeNotFound = errors.New("notice not found")

	// ErrNoticeUnreadable is returned when a stored notice cannot be read or
	// decoded; corpus scans skip these rather than failing
	ErrNoticeUnreadable = errors.New("notice unreadable")

	// ErrGenerationUnavailable is returned when no generation capability is
	// configured; callers fall back to the rule-based answer silently
	ErrGenerationUnavailable = errors.New("generation unavailable")

	// ErrGenerationFailed is returned when a configured generation call fails
	// (network, timeout, non-2xx); callers fall back and keep the detail
	ErrGenerationFailed = errors.New("generation failed")
)

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NoticeNotFoundError represents a notice not found error with context
type NoticeNotFoundError struct {
	NoticeID string
}

func (e *NoticeNotFoundError) Error() string {
	return fmt.Sprintf("notice with ID '%s' not found", e.NoticeID)
}

func (e *NoticeNotFoundError) Is(target error) bool {
	return target == ErrNoticeNotFound
}

// NewNoticeNotFoundError creates a new NoticeNotFoundError
func NewNoticeNotFoundError(noticeID string) *NoticeNotFoundError {
	return &NoticeNotFoundError{NoticeID: noticeID}
}

// NoticeUnreadableError represents a notice that exists but cannot be decoded
type NoticeUnreadableError struct {
	NoticeID string
	Cause    error
}

func (e *NoticeUnreadableError) Error() string {
	return fmt.Sprintf("notice with ID '%s' is unreadable: %v", e.NoticeID, e.Cause)
}

func (e *NoticeUnreadableError) Is(target error) bool {
	return target == ErrNoticeUnreadable
}

func (e *NoticeUnreadableError) Unwrap() error {
	return e.Cause
}

// NewNoticeUnreadableError creates a new NoticeUnreadableError
func NewNoticeUnreadableError(noticeID string, cause error) *NoticeUnreadableError {
	return &NoticeUnreadableError{NoticeID: noticeID, Cause: cause}
}

// IndexNotReadyError represents an index that could not be built or loaded
type IndexNotReadyError struct {
	Cause error
}

func (e *IndexNotReadyError) Error() string {
	return fmt.Sprintf("index not ready: %v", e.Cause)
}

func (e *IndexNotReadyError) Is(target error) bool {
	return target == ErrIndexNotReady
}

func (e *IndexNotReadyError) Unwrap() error {
	return e.Cause
}

// NewIndexNotReadyError creates a new IndexNotReadyError
func NewIndexNotReadyError(cause error) *IndexNotReadyError {
	return &IndexNotReadyError{Cause: cause}
}

// GenerationError represents a failed generation call with its reason
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Cause)
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// NewGenerationError creates a new GenerationError
func NewGenerationError(cause error) *GenerationError {
	return &GenerationError{Cause: cause}
}
