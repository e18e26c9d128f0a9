package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"doc-text-reader/internal/domain"
	"doc-text-reader/internal/metrics"
)

// PDFStrategy is one independent way of reading a PDF's text layer.
// On failure it returns the text it had accumulated so far together with the error.
type PDFStrategy interface {
	Name() string
	ExtractText(ctx context.Context, path string, maxPages int) (string, error)
}

// PDFReader tries its strategies in order until one succeeds. It never
// returns an error: when every strategy fails it falls back to the longest
// partial text any attempt produced.
type PDFReader struct {
	strategies []PDFStrategy
	maxPages   int
	logger     domain.Logger
	metrics    domain.ExtractionMetrics
}

// NewPDFReader creates a text-layer PDF reader
func NewPDFReader(strategies []PDFStrategy, maxPages int, logger domain.Logger, m domain.ExtractionMetrics) *PDFReader {
	if m == nil {
		m = metrics.Nop{}
	}
	return &PDFReader{
		strategies: strategies,
		maxPages:   maxPages,
		logger:     logger,
		metrics:    m,
	}
}

// Strategies returns the configured strategy names in attempt order.
func (r *PDFReader) Strategies() []string {
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Read implements TextReader. The error is always nil.
func (r *PDFReader) Read(ctx context.Context, path string) (string, error) {
	var (
		best     string
		failures []error
	)

	for _, strategy := range r.strategies {
		text, err := runStrategy(ctx, strategy, path, r.maxPages)
		if err == nil {
			r.logger.Debug("PDF text layer extracted", "strategy", strategy.Name(), "path", path, "chars", len(text))
			return text, nil
		}

		r.logger.Debug("PDF strategy failed, trying next", "strategy", strategy.Name(), "path", path, "error", err)
		r.metrics.IncStrategyFailure(strategy.Name())
		failures = append(failures, fmt.Errorf("%s: %w", strategy.Name(), err))
		if len(text) > len(best) {
			best = text
		}
	}

	if len(failures) > 0 {
		r.logger.Error("All PDF strategies failed", errors.Join(failures...), "path", path, "partial_chars", len(best))
	}
	return best, nil
}

// runStrategy shields the reader from panics inside third-party parsers.
func runStrategy(ctx context.Context, s PDFStrategy, path string, maxPages int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrDocumentMalformed, rec)
		}
	}()
	return s.ExtractText(ctx, path, maxPages)
}

// pageAccumulator concatenates per-page text, each page followed by "\n".
// With skipEmpty, pages with no text at all add nothing; whitespace is kept.
type pageAccumulator struct {
	sb        strings.Builder
	skipEmpty bool
}

func (a *pageAccumulator) add(pageText string) {
	if a.skipEmpty && pageText == "" {
		return
	}
	a.sb.WriteString(pageText)
	a.sb.WriteByte('\n')
}

func (a *pageAccumulator) String() string {
	return a.sb.String()
}

// pageLimit caps total to maxPages when maxPages is positive.
func pageLimit(total, maxPages int) int {
	if maxPages > 0 && maxPages < total {
		return maxPages
	}
	return total
}
