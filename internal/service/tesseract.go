package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"

	"doc-text-reader/internal/domain"
)

// TesseractRecognizer runs the tesseract executable, feeding it a PNG on
// stdin and reading plain text from stdout.
type TesseractRecognizer struct {
	Binary   string
	Language string
}

// NewTesseractRecognizer creates a recognizer. An empty binary means "tesseract" on PATH.
func NewTesseractRecognizer(binary, language string) *TesseractRecognizer {
	if binary == "" {
		binary = "tesseract"
	}
	return &TesseractRecognizer{
		Binary:   binary,
		Language: language,
	}
}

// Recognize returns the text found in img. The trailing page separator
// tesseract emits is removed.
func (t *TesseractRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	bin, err := exec.LookPath(t.Binary)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOCRUnavailable, err)
	}

	var input bytes.Buffer
	if err := png.Encode(&input, img); err != nil {
		return "", fmt.Errorf("encode page image: %w", err)
	}

	args := []string{"stdin", "stdout"}
	if t.Language != "" {
		args = append(args, "-l", t.Language)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = &input
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimRight(stdout.String(), "\f\r\n "), nil
}
