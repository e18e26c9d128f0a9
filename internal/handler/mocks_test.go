package handler

import (
	"context"
	"os"

	"doc-text-reader/internal/domain"
)

// Mock logger used by handler package tests.
type MockHandlerLogger struct{}

func NewMockHandlerLogger() domain.Logger {
	return &MockHandlerLogger{}
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{})             {}
func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *MockHandlerLogger) Debug(msg string, fields ...interface{})            {}
func (l *MockHandlerLogger) Warn(msg string, fields ...interface{})             {}

// mockExtractor records the stored upload and returns a canned result.
type mockExtractor struct {
	result     domain.Result
	calls      int
	gotPath    string
	gotContent string
}

func (m *mockExtractor) Extract(ctx context.Context, path string) domain.Result {
	m.calls++
	m.gotPath = path
	if data, err := os.ReadFile(path); err == nil {
		m.gotContent = string(data)
	}
	return m.result
}
