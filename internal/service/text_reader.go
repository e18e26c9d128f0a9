package service

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"doc-text-reader/internal/domain"
)

// TextReader turns a file path into raw text.
type TextReader interface {
	Read(ctx context.Context, path string) (string, error)
}

// PlainTextReader reads UTF-8 text files verbatim.
type PlainTextReader struct{}

// NewPlainTextReader creates a plain text reader
func NewPlainTextReader() *PlainTextReader {
	return &PlainTextReader{}
}

// Read returns the file contents unchanged. Bytes that are not valid UTF-8
// produce an error wrapping domain.ErrInvalidEncoding; no fallback encoding is tried.
func (r *PlainTextReader) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("decode %s: %w", path, domain.ErrInvalidEncoding)
	}
	return string(data), nil
}
