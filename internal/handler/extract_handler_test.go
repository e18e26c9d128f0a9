package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"doc-text-reader/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func TestExtractHandler_Success(t *testing.T) {
	uploads := t.TempDir()
	ext := &mockExtractor{result: domain.Result{
		Status: domain.StatusOK,
		Format: domain.FormatPDF,
		Text:   "three little words",
	}}
	h := NewExtractHandler(ext, uploads, 1024, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Extract(rr, uploadRequest(t, "file", "Report.PDF", []byte("%PDF-fake")))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	body := decodeBody(t, rr)
	assert.Equal(t, "Report.PDF", body["file_name"])
	assert.Equal(t, "pdf", body["format"])
	assert.Equal(t, "three little words", body["text"])
	assert.Equal(t, false, body["escalated"])
	assert.Equal(t, float64(3), body["word_count"])
	assert.Equal(t, 0.01, body["file_size_kb"])

	assert.Equal(t, 1, ext.calls)
	assert.Equal(t, "%PDF-fake", ext.gotContent)
	assert.Equal(t, ".pdf", ext.gotPath[len(ext.gotPath)-4:])
	_, err := os.Stat(ext.gotPath)
	assert.True(t, os.IsNotExist(err), "upload should be removed after extraction")

	entries, err := os.ReadDir(uploads)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractHandler_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name     string
		req      func(t *testing.T) *http.Request
		wantCode int
	}{
		{
			name:     "missing file",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "file", "", nil) },
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "wrong field",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "upload", "a.txt", []byte("x")) },
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "disallowed extension",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "file", "data.csv", []byte("a,b")) },
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "legacy doc",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "file", "old.doc", []byte("x")) },
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "over size ceiling",
			req:      func(t *testing.T) *http.Request { return uploadRequest(t, "file", "big.txt", bytes.Repeat([]byte("a"), 2048)) },
			wantCode: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &mockExtractor{result: domain.Result{Status: domain.StatusOK, Text: "x"}}
			h := NewExtractHandler(ext, t.TempDir(), 1024, NewMockHandlerLogger())

			rr := httptest.NewRecorder()
			h.Extract(rr, tt.req(t))

			assert.Equal(t, tt.wantCode, rr.Code, rr.Body.String())
			assert.Contains(t, decodeBody(t, rr), "error")
			assert.Zero(t, ext.calls, "extractor must not run")
		})
	}
}

func TestExtractHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		result   domain.Result
		wantCode int
	}{
		{"empty text", domain.Result{Status: domain.StatusOK, Format: domain.FormatPDF}, http.StatusUnprocessableEntity},
		{"not found", domain.Result{Status: domain.StatusNotFound}, http.StatusNotFound},
		{"unsupported", domain.Result{Status: domain.StatusUnsupported}, http.StatusUnsupportedMediaType},
		{"too large", domain.Result{Status: domain.StatusTooLarge}, http.StatusRequestEntityTooLarge},
		{"decode error", domain.Result{Status: domain.StatusDecodeError, Err: domain.ErrInvalidEncoding}, http.StatusUnprocessableEntity},
		{"parse error", domain.Result{Status: domain.StatusParseError, Err: domain.ErrDocumentMalformed}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &mockExtractor{result: tt.result}
			h := NewExtractHandler(ext, t.TempDir(), 1024, NewMockHandlerLogger())

			rr := httptest.NewRecorder()
			h.Extract(rr, uploadRequest(t, "file", "doc.txt", []byte("hello")))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Contains(t, decodeBody(t, rr), "error")
			assert.Equal(t, 1, ext.calls)
			_, err := os.Stat(ext.gotPath)
			assert.True(t, os.IsNotExist(err), "upload should be removed on failure too")
		})
	}
}

func TestExtractHandler_EscalatedFlag(t *testing.T) {
	ext := &mockExtractor{result: domain.Result{
		Status:    domain.StatusOK,
		Format:    domain.FormatPDF,
		Text:      "scanned words",
		Escalated: true,
	}}
	h := NewExtractHandler(ext, t.TempDir(), 1024, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Extract(rr, uploadRequest(t, "file", "scan.pdf", []byte("%PDF")))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decodeBody(t, rr)["escalated"])
}

func TestExtractHandler_RejectionDetails(t *testing.T) {
	ext := &mockExtractor{}
	h := NewExtractHandler(ext, t.TempDir(), 1024, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Extract(rr, uploadRequest(t, "file", "sheet.CSV", []byte("a,b")))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeBody(t, rr)
	assert.Contains(t, body["error"], "Unsupported file type")
	assert.Equal(t, ".csv", body["details"])
}

func TestExtractHandler_StoreFailure(t *testing.T) {
	// A regular file where the upload directory should be makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	ext := &mockExtractor{result: domain.Result{Status: domain.StatusOK, Text: "x"}}
	h := NewExtractHandler(ext, blocker, 1024, NewMockHandlerLogger())

	rr := httptest.NewRecorder()
	h.Extract(rr, uploadRequest(t, "file", "a.txt", []byte("hello")))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to store upload", decodeBody(t, rr)["error"])
	assert.Zero(t, ext.calls)
}
