package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"doc-text-reader/internal/domain"

	"gopkg.in/yaml.v3"
)

// DefaultMaxFileSize is the upload ceiling enforced by the HTTP surface.
const DefaultMaxFileSize int64 = 16 * 1024 * 1024

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort     string                  `yaml:"server_port"`
	UploadPath     string                  `yaml:"upload_path"`
	MaxFileSize    int64                   `yaml:"max_file_size"`
	LogLevel       string                  `yaml:"log_level"`
	LogPretty      bool                    `yaml:"log_pretty"`
	AllowedOrigins []string                `yaml:"allowed_origins"`
	Limits         domain.ExtractionLimits `yaml:"limits"`
	PDFStrategies  []string                `yaml:"pdf_strategies"`
	TesseractPath  string                  `yaml:"tesseract_path"`
	OCRLanguage    string                  `yaml:"ocr_language"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() *AppConfig {
	return &AppConfig{
		ServerPort:  "8080",
		UploadPath:  "./uploads",
		MaxFileSize: DefaultMaxFileSize,
		LogLevel:    "info",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		Limits:        domain.DefaultExtractionLimits(),
		PDFStrategies: []string{"fitz", "ledongthuc"},
		TesseractPath: "tesseract",
		OCRLanguage:   "eng",
	}
}

// Load builds the configuration. Defaults come first, then the YAML file named
// by CONFIG_FILE (if any), then environment variables. A broken config file is
// reported, but the returned config is usable even when err is non-nil.
func Load() (*AppConfig, error) {
	cfg := defaultConfig()

	var fileErr error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fileErr = cfg.loadFile(path)
	}

	// Cloud Run (and many PaaS) provide the listening port via PORT.
	// Keep SERVER_PORT for local/dev compatibility.
	cfg.ServerPort = getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", cfg.ServerPort))
	cfg.UploadPath = getEnvOrDefault("UPLOAD_PATH", cfg.UploadPath)
	cfg.MaxFileSize = getEnvInt64OrDefault("MAX_FILE_SIZE", cfg.MaxFileSize)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = getEnvBoolOrDefault("LOG_PRETTY", cfg.LogPretty)
	cfg.AllowedOrigins = getEnvListOrDefault("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.Limits.MaxPages = getEnvIntOrDefault("MAX_PAGES", cfg.Limits.MaxPages)
	cfg.Limits.MaxOCRSeconds = getEnvIntOrDefault("MAX_OCR_SECONDS", cfg.Limits.MaxOCRSeconds)
	cfg.Limits.MaxInputBytes = getEnvInt64OrDefault("MAX_INPUT_BYTES", cfg.Limits.MaxInputBytes)
	cfg.Limits.QualityThreshold = getEnvIntOrDefault("QUALITY_THRESHOLD", cfg.Limits.QualityThreshold)
	cfg.PDFStrategies = getEnvListOrDefault("PDF_STRATEGIES", cfg.PDFStrategies)
	cfg.TesseractPath = getEnvOrDefault("TESSERACT_PATH", cfg.TesseractPath)
	cfg.OCRLanguage = getEnvOrDefault("OCR_LANGUAGE", cfg.OCRLanguage)

	return cfg, fileErr
}

// loadFile overlays values from a YAML file onto cfg.
func (c *AppConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	overlay := *c
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	*c = overlay
	return nil
}

// Validate checks the extraction limits.
func (c *AppConfig) Validate() error {
	if c.MaxFileSize <= 0 {
		return &domain.ValidationError{Field: "max_file_size", Message: "must be positive"}
	}
	return c.Limits.Validate()
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetUploadPath returns the upload directory path
func (c *AppConfig) GetUploadPath() string {
	return c.UploadPath
}

// GetMaxFileSize returns the maximum allowed upload size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogPretty reports whether logs use the console writer
func (c *AppConfig) GetLogPretty() bool {
	return c.LogPretty
}

// GetAllowedOrigins returns the CORS origins
func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetExtractionLimits returns the per-document limits
func (c *AppConfig) GetExtractionLimits() domain.ExtractionLimits {
	return c.Limits
}

// GetPDFStrategies returns the text-layer strategies in attempt order
func (c *AppConfig) GetPDFStrategies() []string {
	return c.PDFStrategies
}

// GetTesseractPath returns the OCR executable
func (c *AppConfig) GetTesseractPath() string {
	return c.TesseractPath
}

// GetOCRLanguage returns the OCR language code
func (c *AppConfig) GetOCRLanguage() string {
	return c.OCRLanguage
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
