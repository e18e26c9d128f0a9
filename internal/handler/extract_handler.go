// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"doc-text-reader/internal/domain"
	"doc-text-reader/internal/service"
	pkgerrors "doc-text-reader/pkg/errors"

	"github.com/google/uuid"
)

// multipartOverhead leaves room for form boundaries and headers on top of the
// file size ceiling.
const multipartOverhead = 1 << 20

// ExtractHandler accepts an upload and returns its extracted text.
type ExtractHandler struct {
	extractor   domain.DocumentExtractor
	uploadPath  string
	maxFileSize int64
	logger      domain.Logger
}

// ExtractResponse is the body of a successful extraction.
type ExtractResponse struct {
	domain.FileStats
	Format    domain.Format `json:"format"`
	Text      string        `json:"text"`
	Escalated bool          `json:"escalated"`
}

// NewExtractHandler creates a new extract handler
func NewExtractHandler(extractor domain.DocumentExtractor, uploadPath string, maxFileSize int64, logger domain.Logger) *ExtractHandler {
	return &ExtractHandler{
		extractor:   extractor,
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Extract handles POST /api/v1/extract
func (h *ExtractHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeAppError(w, pkgerrors.NewTooLargeError("File too large", err), "")
			return
		}
		h.writeAppError(w, pkgerrors.NewValidationError("File is required"), "")
		return
	}
	defer file.Close()

	// Sanitize filename (strip any path components)
	originalName := strings.TrimSpace(filepath.Base(header.Filename))
	if originalName == "" || originalName == "." || originalName == string(filepath.Separator) {
		h.writeAppError(w, pkgerrors.NewValidationError("No selected file"), "")
		return
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if !domain.IsAllowedUpload(originalName) {
		h.writeAppError(w, pkgerrors.NewValidationError(
			"Unsupported file type. Allowed: TXT (.txt), Word (.docx), PDF (.pdf).", ext), originalName)
		return
	}
	if header.Size > h.maxFileSize {
		h.writeAppError(w, pkgerrors.NewTooLargeError("File too large", nil), originalName)
		return
	}

	path, err := h.save(file, ext)
	if err != nil {
		h.writeAppError(w, pkgerrors.NewInternalError("Failed to store upload", err), originalName)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn("Failed to remove upload", "path", path, "error", err)
		}
	}()

	result := h.extractor.Extract(r.Context(), path)
	if appErr := pkgerrors.FromResult(result); appErr != nil {
		h.writeAppError(w, appErr, originalName)
		return
	}

	// Stats need the stored file, so compute them before the deferred removal.
	stats, err := service.ComputeFileStats(path, result.Text)
	if err != nil {
		h.writeAppError(w, pkgerrors.NewInternalError("Failed to compute file stats", err), originalName)
		return
	}
	stats.FileName = originalName

	h.logger.Info("Extracted document",
		"file", originalName,
		"format", string(result.Format),
		"escalated", result.Escalated,
		"word_count", stats.WordCount,
	)
	writeJSON(w, http.StatusOK, ExtractResponse{
		FileStats: stats,
		Format:    result.Format,
		Text:      result.Text,
		Escalated: result.Escalated,
	})
}

// writeAppError logs a rejected request and writes its error body. Server-side
// failures are logged as errors, client mistakes at info level.
func (h *ExtractHandler) writeAppError(w http.ResponseWriter, err error, fileName string) {
	if pkgerrors.IsType(err, pkgerrors.ErrorTypeInternal) {
		h.logger.Error("Extraction request failed", err, "file", fileName)
	} else {
		h.logger.Info("Extraction request rejected", "file", fileName, "reason", err.Error())
	}
	writeAppError(w, err)
}

// save copies the upload under a random name and returns its path.
func (h *ExtractHandler) save(src io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(h.uploadPath, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(h.uploadPath, uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
