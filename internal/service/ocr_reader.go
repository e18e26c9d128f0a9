package service

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"doc-text-reader/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// Rasterizer renders PDF pages to images, in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, path string, maxPages int, fn func(pageNumber int, img image.Image) error) error
}

// Recognizer runs optical character recognition on one page image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// OCRReader rasterizes a PDF and recognizes every page. It is all-or-nothing:
// any failure yields empty text.
type OCRReader struct {
	rasterizer Rasterizer
	recognizer Recognizer
	maxPages   int
	timeout    time.Duration
	logger     domain.Logger
}

// NewOCRReader creates an optical fallback reader. A zero timeout disables the budget.
func NewOCRReader(rasterizer Rasterizer, recognizer Recognizer, maxPages int, timeout time.Duration, logger domain.Logger) *OCRReader {
	return &OCRReader{
		rasterizer: rasterizer,
		recognizer: recognizer,
		maxPages:   maxPages,
		timeout:    timeout,
		logger:     logger,
	}
}

// Read implements TextReader. Failures are logged and reported as "", nil.
func (r *OCRReader) Read(ctx context.Context, path string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	var sb strings.Builder
	pages := 0
	err := r.rasterizer.Rasterize(ctx, path, r.maxPages, func(pageNumber int, img image.Image) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := r.recognizer.Recognize(ctx, img)
		if err != nil {
			return fmt.Errorf("recognize page %d: %w", pageNumber, err)
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
		pages++
		return nil
	})
	if err != nil {
		r.logger.Error("Error during OCR", err, "path", path, "pages_done", pages, "elapsed_ms", time.Since(start).Milliseconds())
		return "", nil
	}

	r.logger.Debug("OCR completed", "path", path, "pages", pages, "elapsed_ms", time.Since(start).Milliseconds())
	return sb.String(), nil
}

// FitzRasterizer renders pages with MuPDF at the library's default resolution.
type FitzRasterizer struct{}

// Rasterize calls fn for each page, 1-indexed, stopping at the first error.
func (FitzRasterizer) Rasterize(ctx context.Context, path string, maxPages int, fn func(pageNumber int, img image.Image) error) error {
	doc, err := fitz.New(path)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	numPages := pageLimit(doc.NumPage(), maxPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := doc.Image(pageNum)
		if err != nil {
			return fmt.Errorf("render page %d: %w", pageNum+1, err)
		}
		if err := fn(pageNum+1, img); err != nil {
			return err
		}
	}
	return nil
}
