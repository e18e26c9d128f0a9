package domain

import (
	"path/filepath"
	"strings"
)

// Format is the container type of a document, derived from its file suffix.
type Format string

const (
	FormatPlain       Format = "plain"
	FormatWord        Format = "word"
	FormatPDF         Format = "pdf"
	FormatUnsupported Format = "unsupported"
)

// DetectFormat maps a path's suffix (case-insensitive) to a Format.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatPlain
	case ".docx":
		return FormatWord
	case ".pdf":
		return FormatPDF
	default:
		return FormatUnsupported
	}
}

// Supported reports whether a reader exists for the format.
func (f Format) Supported() bool {
	return f == FormatPlain || f == FormatWord || f == FormatPDF
}

// DocumentRef points at a file on local storage. Format is computed once by
// NewDocumentRef and is never re-derived.
type DocumentRef struct {
	Path   string `json:"path"`
	Format Format `json:"format"`
}

// NewDocumentRef creates a reference for the given path.
func NewDocumentRef(path string) DocumentRef {
	return DocumentRef{
		Path:   path,
		Format: DetectFormat(path),
	}
}

// Name returns the base name of the referenced file.
func (d DocumentRef) Name() string {
	return filepath.Base(d.Path)
}

// FileStats are the basic statistics reported alongside extracted text.
type FileStats struct {
	FileName   string  `json:"file_name"`
	FileSizeKB float64 `json:"file_size_kb"`
	WordCount  int     `json:"word_count"`
}

// AllowedUploadExtensions lists the extensions accepted by the upload surface.
var AllowedUploadExtensions = []string{"txt", "pdf", "docx"}

// IsAllowedUpload reports whether filename carries an accepted extension.
func IsAllowedUpload(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	ext := strings.ToLower(filename[idx+1:])
	for _, allowed := range AllowedUploadExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
