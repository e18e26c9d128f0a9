// Command docextract prints the text extracted from local documents.
//
// Usage:
//
//	docextract report.pdf notes.txt
//	docextract --json --max-pages 5 scan.pdf
//	docextract --strategies pdfcpu,fitz --threshold 50 paper.pdf
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doc-text-reader/internal/config"
	"doc-text-reader/internal/domain"
	"doc-text-reader/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	json       bool
	maxPages   int
	ocrTimeout time.Duration
	threshold  int
	strategies []string
}

// fileOutput is one line of --json output.
type fileOutput struct {
	Path      string        `json:"path"`
	Status    domain.Status `json:"status"`
	Format    domain.Format `json:"format"`
	Escalated bool          `json:"escalated"`
	Text      string        `json:"text"`
	Error     string        `json:"error,omitempty"`
}

var errFilesFailed = errors.New("one or more files could not be extracted")

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: .env file could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFilesFailed) {
			fmt.Fprintln(os.Stderr, "docextract:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "docextract <file>...",
		Short:         "Extract plain text from .txt, .docx and .pdf files",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.json, "json", false, "print one JSON object per file")
	flags.IntVar(&opts.maxPages, "max-pages", 0, "only read the first N PDF pages (0 = all)")
	flags.DurationVar(&opts.ocrTimeout, "ocr-timeout", 0, "abort OCR after this long (0 = no limit)")
	flags.IntVar(&opts.threshold, "threshold", domain.DefaultQualityThreshold, "stripped character count below which PDFs fall back to OCR")
	flags.StringSliceVar(&opts.strategies, "strategies", nil, "PDF text strategies in attempt order (fitz, ledongthuc, pdfcpu)")
	return cmd
}

func run(cmd *cobra.Command, opts *options, paths []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "config: %v; using defaults and environment\n", err)
	}
	applyFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	appLogger := logger.NewWithOptions(logger.Options{
		Level:  cfg.GetLogLevel(),
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	})
	container, err := config.NewContainerWith(cfg, appLogger)
	if err != nil {
		return err
	}

	extractor := container.GetExtractionService()
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	failed := 0
	for _, path := range paths {
		res := extractor.Extract(cmd.Context(), path)
		if !res.OK() {
			failed++
		}
		if opts.json {
			if err := enc.Encode(toOutput(path, res)); err != nil {
				return err
			}
			continue
		}
		printResult(out, cmd.ErrOrStderr(), path, res)
	}

	if failed > 0 {
		return errFilesFailed
	}
	return nil
}

// applyFlags overrides configured values with the flags the user set.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.AppConfig) {
	flags := cmd.Flags()
	if flags.Changed("max-pages") {
		cfg.Limits.MaxPages = opts.maxPages
	}
	if flags.Changed("ocr-timeout") {
		cfg.Limits.MaxOCRSeconds = int(math.Ceil(opts.ocrTimeout.Seconds()))
	}
	if flags.Changed("threshold") {
		cfg.Limits.QualityThreshold = opts.threshold
	}
	if flags.Changed("strategies") {
		cfg.PDFStrategies = opts.strategies
	}
}

func toOutput(path string, res domain.Result) fileOutput {
	return fileOutput{
		Path:      path,
		Status:    res.Status,
		Format:    res.Format,
		Escalated: res.Escalated,
		Text:      res.Text,
		Error:     res.ErrorMessage(),
	}
}

func printResult(stdout, stderr io.Writer, path string, res domain.Result) {
	if !res.OK() {
		msg := string(res.Status)
		if detail := res.ErrorMessage(); detail != "" {
			msg += ": " + detail
		}
		fmt.Fprintf(stderr, "%s: %s\n", path, msg)
		return
	}
	fmt.Fprintln(stdout, res.Text)
}
