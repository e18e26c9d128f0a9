package domain

import (
	"context"
	"time"
)

// DocumentExtractor turns a file path into extracted text.
type DocumentExtractor interface {
	Extract(ctx context.Context, path string) Result
}

// ExtractionMetrics receives pipeline observations.
type ExtractionMetrics interface {
	ObserveExtraction(format Format, status Status, elapsed time.Duration)
	IncEscalation()
	IncStrategyFailure(strategy string)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetUploadPath() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetLogPretty() bool
	GetAllowedOrigins() []string
	GetExtractionLimits() ExtractionLimits
	GetPDFStrategies() []string
	GetTesseractPath() string
	GetOCRLanguage() string
}
