package domain

// DefaultQualityThreshold is the minimum stripped character count a text-layer
// PDF extraction must reach before OCR is skipped.
const DefaultQualityThreshold = 100

// ExtractionLimits bounds the work done for one document. Zero disables a limit.
type ExtractionLimits struct {
	// MaxPages truncates PDF text and OCR processing to the first N pages.
	MaxPages int `json:"max_pages" yaml:"max_pages"`
	// MaxOCRSeconds aborts the OCR pass; primary text already recovered is kept.
	MaxOCRSeconds int `json:"max_ocr_seconds" yaml:"max_ocr_seconds"`
	// MaxInputBytes rejects larger files before any reader runs.
	MaxInputBytes int64 `json:"max_input_bytes" yaml:"max_input_bytes"`
	// QualityThreshold is the stripped rune count below which PDFs escalate to OCR.
	QualityThreshold int `json:"quality_threshold" yaml:"quality_threshold"`
}

// DefaultExtractionLimits returns unlimited limits with the default threshold.
func DefaultExtractionLimits() ExtractionLimits {
	return ExtractionLimits{QualityThreshold: DefaultQualityThreshold}
}

// Validate checks that no limit is negative.
func (l ExtractionLimits) Validate() error {
	if l.MaxPages < 0 {
		return &ValidationError{Field: "max_pages", Message: "must not be negative"}
	}
	if l.MaxOCRSeconds < 0 {
		return &ValidationError{Field: "max_ocr_seconds", Message: "must not be negative"}
	}
	if l.MaxInputBytes < 0 {
		return &ValidationError{Field: "max_input_bytes", Message: "must not be negative"}
	}
	if l.QualityThreshold < 0 {
		return &ValidationError{Field: "quality_threshold", Message: "must not be negative"}
	}
	return nil
}
