package domain

import "errors"

// Domain errors
var (
	ErrFileNotFound       = errors.New("file not found")
	ErrInvalidEncoding    = errors.New("content is not valid UTF-8")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrInputTooLarge      = errors.New("input exceeds size limit")
	ErrDocumentMalformed  = errors.New("malformed document")
	ErrOCRUnavailable     = errors.New("ocr engine unavailable")
	ErrUnknownPDFStrategy = errors.New("unknown pdf strategy")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
