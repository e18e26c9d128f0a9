package config

import (
	"fmt"
	"os"
	"time"

	"doc-text-reader/internal/domain"
	"doc-text-reader/internal/metrics"
	"doc-text-reader/internal/service"
	"doc-text-reader/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	Registry          *prometheus.Registry
	Metrics           *metrics.Metrics
	PDFReader         *service.PDFReader
	ExtractionService domain.DocumentExtractor
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v; using defaults and environment\n", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	appLogger := logger.NewWithOptions(logger.Options{
		Level:  cfg.GetLogLevel(),
		Pretty: cfg.GetLogPretty(),
	})
	return NewContainerWith(cfg, appLogger)
}

// NewContainerWith wires the pipeline around an existing config and logger.
func NewContainerWith(cfg domain.Config, appLogger domain.Logger) (*Container, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	limits := cfg.GetExtractionLimits()

	names := cfg.GetPDFStrategies()
	if len(names) == 0 {
		names = service.DefaultPDFStrategies
	}
	strategies, err := service.NewPDFStrategies(names)
	if err != nil {
		return nil, fmt.Errorf("pdf strategies: %w", err)
	}
	pdfReader := service.NewPDFReader(strategies, limits.MaxPages, appLogger, m)

	ocrReader := service.NewOCRReader(
		service.FitzRasterizer{},
		service.NewTesseractRecognizer(cfg.GetTesseractPath(), cfg.GetOCRLanguage()),
		limits.MaxPages,
		time.Duration(limits.MaxOCRSeconds)*time.Second,
		appLogger,
	)

	extractionService := service.NewExtractionService(service.Readers{
		Plain: service.NewPlainTextReader(),
		Word:  service.NewDocxReader(),
		PDF:   pdfReader,
		OCR:   ocrReader,
	}, limits, appLogger, m)

	appLogger.Debug("Extraction pipeline ready",
		"pdf_strategies", pdfReader.Strategies(),
		"quality_threshold", limits.QualityThreshold,
		"max_pages", limits.MaxPages,
	)

	return &Container{
		Config:            cfg,
		Logger:            appLogger,
		Registry:          registry,
		Metrics:           m,
		PDFReader:         pdfReader,
		ExtractionService: extractionService,
	}, nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetExtractionService returns the extraction coordinator
func (c *Container) GetExtractionService() domain.DocumentExtractor {
	return c.ExtractionService
}
