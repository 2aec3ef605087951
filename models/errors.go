package models

import "fmt"

// Error codes carried by ReaderError. They show up in logs and in the
// message of failed responses.
const (
	ErrCodeTimeout      = "SCRAPE_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeExtraction   = "CONTENT_EXTRACTION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeFallback     = "FALLBACK_FAILED"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ReaderError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ReaderError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ReaderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReaderError) Unwrap() error {
	return e.Err
}

// NewReaderError creates a new ReaderError.
func NewReaderError(code, message string, err error) *ReaderError {
	return &ReaderError{Code: code, Message: message, Err: err}
}
