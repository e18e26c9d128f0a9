package service

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"doc-text-reader/internal/domain"
)

// ComputeFileStats reports name, size and word count for an extracted file.
// The file must still exist; size is rounded to two decimals.
func ComputeFileStats(path, text string) (domain.FileStats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FileStats{}, err
	}
	return domain.FileStats{
		FileName:   filepath.Base(path),
		FileSizeKB: math.Round(float64(info.Size())/1024*100) / 100,
		WordCount:  len(strings.Fields(text)),
	}, nil
}
