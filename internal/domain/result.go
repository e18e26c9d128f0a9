package domain

// Status is the outcome of a single extraction.
type Status string

const (
	StatusOK          Status = "ok"
	StatusNotFound    Status = "not_found"
	StatusDecodeError Status = "decode_error"
	StatusUnsupported Status = "unsupported"
	StatusTooLarge    Status = "too_large"
	StatusParseError  Status = "parse_error"
)

// Result is the immutable outcome of extracting one document.
//
// Text may be empty even when Status is StatusOK: PDF and OCR failures are
// recovered inside the pipeline and surface only as missing text.
type Result struct {
	Status    Status `json:"status"`
	Format    Format `json:"format"`
	Text      string `json:"text"`
	Escalated bool   `json:"escalated"`
	Err       error  `json:"-"`
}

// OK reports whether extraction ran to completion.
func (r Result) OK() bool {
	return r.Status == StatusOK
}

// HasText reports whether any text was recovered.
func (r Result) HasText() bool {
	return r.Status == StatusOK && r.Text != ""
}

// NotFound reports whether the referenced file could not be reached.
func (r Result) NotFound() bool {
	return r.Status == StatusNotFound
}

// ErrorMessage returns the underlying cause as a string, or "" when there is none.
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
