package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"doc-text-reader/internal/domain"
	"doc-text-reader/internal/metrics"
)

// Readers groups the format readers used by ExtractionService.
type Readers struct {
	Plain TextReader
	Word  TextReader
	PDF   TextReader
	OCR   TextReader
}

// ExtractionService selects a reader by format and escalates weak PDF
// extractions to OCR. It keeps no state between calls.
type ExtractionService struct {
	readers Readers
	limits  domain.ExtractionLimits
	logger  domain.Logger
	metrics domain.ExtractionMetrics
}

// NewExtractionService creates the extraction coordinator
func NewExtractionService(readers Readers, limits domain.ExtractionLimits, logger domain.Logger, m domain.ExtractionMetrics) *ExtractionService {
	if m == nil {
		m = metrics.Nop{}
	}
	return &ExtractionService{
		readers: readers,
		limits:  limits,
		logger:  logger,
		metrics: m,
	}
}

// Extract reads the document at path. It never panics or returns an error;
// every outcome is described by the returned Result.
func (s *ExtractionService) Extract(ctx context.Context, path string) domain.Result {
	start := time.Now()
	ref := domain.NewDocumentRef(path)
	result := s.extract(ctx, ref)
	s.metrics.ObserveExtraction(ref.Format, result.Status, time.Since(start))
	return result
}

func (s *ExtractionService) extract(ctx context.Context, ref domain.DocumentRef) domain.Result {
	info, err := os.Stat(ref.Path)
	if err != nil {
		return notFound(ref, err)
	}
	if info.IsDir() {
		return notFound(ref, fmt.Errorf("%s is a directory", ref.Path))
	}

	if !ref.Format.Supported() {
		s.logger.Warn("Unsupported file type", "path", ref.Path, "extension", extensionOf(ref.Path))
		return domain.Result{
			Status: domain.StatusUnsupported,
			Format: ref.Format,
			Err:    domain.ErrUnsupportedFormat,
		}
	}

	if s.limits.MaxInputBytes > 0 && info.Size() > s.limits.MaxInputBytes {
		s.logger.Warn("Input rejected by size limit", "path", ref.Path, "size", info.Size(), "max", s.limits.MaxInputBytes)
		return domain.Result{
			Status: domain.StatusTooLarge,
			Format: ref.Format,
			Err:    fmt.Errorf("%w: %d bytes (max %d)", domain.ErrInputTooLarge, info.Size(), s.limits.MaxInputBytes),
		}
	}

	s.logger.Debug("Extracting document", "path", ref.Path, "format", ref.Format)

	switch ref.Format {
	case domain.FormatPlain:
		text, err := s.readers.Plain.Read(ctx, ref.Path)
		if err != nil {
			return s.readFailure(ref, err)
		}
		return okResult(ref, text, false)

	case domain.FormatWord:
		text, err := s.readers.Word.Read(ctx, ref.Path)
		if err != nil {
			return s.readFailure(ref, err)
		}
		return okResult(ref, text, false)

	default:
		return s.extractPDF(ctx, ref)
	}
}

// extractPDF reads the text layer and, when it falls below the quality
// threshold, appends OCR output to whatever was recovered.
func (s *ExtractionService) extractPDF(ctx context.Context, ref domain.DocumentRef) domain.Result {
	text, err := s.readers.PDF.Read(ctx, ref.Path)
	if err != nil {
		s.logger.Error("PDF reader failed", err, "path", ref.Path)
		text = ""
	}

	if !s.belowThreshold(text) {
		return okResult(ref, text, false)
	}

	s.logger.Warn("Standard text extraction yielded little or no text, trying OCR",
		"file", ref.Name(), "chars", strippedLen(text), "threshold", s.limits.QualityThreshold)
	s.metrics.IncEscalation()

	ocrText, err := s.readers.OCR.Read(ctx, ref.Path)
	if err != nil {
		s.logger.Error("OCR reader failed", err, "path", ref.Path)
		ocrText = ""
	}
	return okResult(ref, text+ocrText, true)
}

func (s *ExtractionService) belowThreshold(text string) bool {
	return text == "" || strippedLen(text) < s.limits.QualityThreshold
}

func (s *ExtractionService) readFailure(ref domain.DocumentRef, err error) domain.Result {
	status := domain.StatusParseError
	if errors.Is(err, domain.ErrInvalidEncoding) {
		status = domain.StatusDecodeError
	}
	s.logger.Error("Could not read document", err, "path", ref.Path, "format", ref.Format, "status", status)
	return domain.Result{
		Status: status,
		Format: ref.Format,
		Err:    err,
	}
}

func okResult(ref domain.DocumentRef, text string, escalated bool) domain.Result {
	return domain.Result{
		Status:    domain.StatusOK,
		Format:    ref.Format,
		Text:      text,
		Escalated: escalated,
	}
}

func notFound(ref domain.DocumentRef, cause error) domain.Result {
	return domain.Result{
		Status: domain.StatusNotFound,
		Format: ref.Format,
		Err:    fmt.Errorf("%w: %v", domain.ErrFileNotFound, cause),
	}
}

func strippedLen(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}

func extensionOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
