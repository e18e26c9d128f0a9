package service

import (
	"context"
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"doc-text-reader/internal/domain"
)

type logEntry struct {
	level  string
	msg    string
	fields []interface{}
}

// MockLogger records every call so tests can assert on diagnostics.
type MockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level, msg string, fields []interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO", msg, args)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	m.record("ERROR", msg, append([]interface{}{"error", err}, args...))
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG", msg, args)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN", msg, args)
}

// Find returns the entries at level whose message contains substr.
func (m *MockLogger) Find(level, substr string) []logEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []logEntry
	for _, e := range m.entries {
		if e.level == level && strings.Contains(e.msg, substr) {
			out = append(out, e)
		}
	}
	return out
}

func (e logEntry) field(key string) (interface{}, bool) {
	for i := 0; i+1 < len(e.fields); i += 2 {
		if e.fields[i] == key {
			return e.fields[i+1], true
		}
	}
	return nil, false
}

// fakeReader is an instrumented TextReader.
type fakeReader struct {
	text  string
	err   error
	calls int
	paths []string
}

func (f *fakeReader) Read(ctx context.Context, path string) (string, error) {
	f.calls++
	f.paths = append(f.paths, path)
	return f.text, f.err
}

// fakeStrategy is a scripted PDFStrategy.
type fakeStrategy struct {
	name        string
	text        string
	err         error
	panicWith   interface{}
	calls       int
	gotMaxPages int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) ExtractText(ctx context.Context, path string, maxPages int) (string, error) {
	f.calls++
	f.gotMaxPages = maxPages
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.text, f.err
}

// fakeRasterizer yields blank images for a fixed number of pages.
type fakeRasterizer struct {
	pages       int
	err         error
	gotMaxPages int
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, path string, maxPages int, fn func(int, image.Image) error) error {
	f.gotMaxPages = maxPages
	if f.err != nil {
		return f.err
	}
	n := pageLimit(f.pages, maxPages)
	for i := 1; i <= n; i++ {
		if err := fn(i, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
			return err
		}
	}
	return nil
}

// fakeRecognizer returns "page N" for the Nth call, failing on failOn if set.
type fakeRecognizer struct {
	calls  int
	failOn int
	block  bool
}

func (f *fakeRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.failOn > 0 && f.calls == f.failOn {
		return "", fmt.Errorf("recognition failed on call %d", f.calls)
	}
	return fmt.Sprintf("page %d", f.calls), nil
}

// countingMetrics counts observations.
type countingMetrics struct {
	mu               sync.Mutex
	observed         []domain.Status
	escalations      int
	strategyFailures map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{strategyFailures: make(map[string]int)}
}

func (c *countingMetrics) ObserveExtraction(format domain.Format, status domain.Status, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observed = append(c.observed, status)
}

func (c *countingMetrics) IncEscalation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.escalations++
}

func (c *countingMetrics) IncStrategyFailure(strategy string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strategyFailures[strategy]++
}
