package service

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCRReader_ConcatenatesPagesInOrder(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: 3}
	recognizer := &fakeRecognizer{}

	reader := NewOCRReader(rasterizer, recognizer, 0, 0, NewMockLogger())
	text, err := reader.Read(context.Background(), "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, "page 1\npage 2\npage 3\n", text)
	assert.Equal(t, 3, recognizer.calls)
}

func TestOCRReader_AllOrNothing(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: 4}
	recognizer := &fakeRecognizer{failOn: 3}
	logger := NewMockLogger()

	reader := NewOCRReader(rasterizer, recognizer, 0, 0, logger)
	text, err := reader.Read(context.Background(), "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, "", text, "pages recognized before the failure must be discarded")
	assert.Equal(t, 3, recognizer.calls)
	require.Len(t, logger.Find("ERROR", "Error during OCR"), 1)
}

func TestOCRReader_RasterizerFailure(t *testing.T) {
	rasterizer := &fakeRasterizer{err: errors.New("pdftoppm missing")}
	recognizer := &fakeRecognizer{}

	reader := NewOCRReader(rasterizer, recognizer, 0, 0, NewMockLogger())
	text, err := reader.Read(context.Background(), "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.Equal(t, 0, recognizer.calls)
}

func TestOCRReader_PageLimit(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: 10}
	recognizer := &fakeRecognizer{}

	reader := NewOCRReader(rasterizer, recognizer, 2, 0, NewMockLogger())
	text, err := reader.Read(context.Background(), "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, 2, rasterizer.gotMaxPages)
	assert.Equal(t, "page 1\npage 2\n", text)
}

func TestOCRReader_TimeBudget(t *testing.T) {
	rasterizer := &fakeRasterizer{pages: 2}
	recognizer := &fakeRecognizer{block: true}
	logger := NewMockLogger()

	reader := NewOCRReader(rasterizer, recognizer, 0, 20*time.Millisecond, logger)

	start := time.Now()
	text, err := reader.Read(context.Background(), "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.Less(t, time.Since(start), 5*time.Second)
	entries := logger.Find("ERROR", "Error during OCR")
	require.Len(t, entries, 1)
	cause, _ := entries[0].field("error")
	assert.ErrorIs(t, cause.(error), context.DeadlineExceeded)
}

func TestFitzRasterizer_MissingFile(t *testing.T) {
	called := false
	err := FitzRasterizer{}.Rasterize(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), 0, func(int, image.Image) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}

func TestFitzRasterizer_RendersEveryPage(t *testing.T) {
	path := writeThreePagePDF(t)

	tests := []struct {
		maxPages int
		want     []int
	}{
		{0, []int{1, 2, 3}},
		{1, []int{1}},
		{5, []int{1, 2, 3}},
	}

	for _, tt := range tests {
		var got []int
		err := FitzRasterizer{}.Rasterize(context.Background(), path, tt.maxPages, func(pageNumber int, img image.Image) error {
			require.NotNil(t, img)
			assert.False(t, img.Bounds().Empty(), "page %d rendered empty", pageNumber)
			got = append(got, pageNumber)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "maxPages=%d", tt.maxPages)
	}
}

func TestFitzRasterizer_StopsOnCallbackError(t *testing.T) {
	path := writeThreePagePDF(t)
	stop := errors.New("stop")

	calls := 0
	err := FitzRasterizer{}.Rasterize(context.Background(), path, 0, func(int, image.Image) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
