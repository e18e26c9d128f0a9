package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"doc-text-reader/internal/domain"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Strategy names accepted by NewPDFStrategies.
const (
	StrategyFitz       = "fitz"
	StrategyLedongthuc = "ledongthuc"
	StrategyPDFCPU     = "pdfcpu"
)

// DefaultPDFStrategies is the attempt order used when none is configured.
var DefaultPDFStrategies = []string{StrategyFitz, StrategyLedongthuc}

// NewPDFStrategies resolves strategy names, in order.
func NewPDFStrategies(names []string) ([]PDFStrategy, error) {
	strategies := make([]PDFStrategy, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case StrategyFitz:
			strategies = append(strategies, FitzStrategy{})
		case StrategyLedongthuc:
			strategies = append(strategies, LedongthucStrategy{})
		case StrategyPDFCPU:
			strategies = append(strategies, PDFCPUStrategy{})
		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPDFStrategy, name)
		}
	}
	return strategies, nil
}

// FitzStrategy reads the text layer through MuPDF. Pages whose text is empty
// after trailing line breaks are removed add nothing.
type FitzStrategy struct{}

func (FitzStrategy) Name() string { return StrategyFitz }

func (FitzStrategy) ExtractText(ctx context.Context, path string, maxPages int) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	acc := pageAccumulator{skipEmpty: true}
	numPages := pageLimit(doc.NumPage(), maxPages)
	for pageNum := 0; pageNum < numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return acc.String(), err
		}
		text, err := doc.Text(pageNum)
		if err != nil {
			return acc.String(), fmt.Errorf("page %d: %w", pageNum+1, err)
		}
		acc.add(strings.TrimRight(text, "\r\n"))
	}
	return acc.String(), nil
}

// LedongthucStrategy reads the text layer with github.com/ledongthuc/pdf.
// Every page adds a line, even when it has no text.
type LedongthucStrategy struct{}

func (LedongthucStrategy) Name() string { return StrategyLedongthuc }

func (LedongthucStrategy) ExtractText(ctx context.Context, path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return "", fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	acc := pageAccumulator{}
	numPages := pageLimit(r.NumPage(), maxPages)
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		if err := ctx.Err(); err != nil {
			return acc.String(), err
		}
		page := r.Page(pageNum)
		if page.V.IsNull() {
			acc.add("")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return acc.String(), fmt.Errorf("page %d: %w", pageNum, err)
		}
		acc.add(text)
	}
	return acc.String(), nil
}

// PDFCPUStrategy decodes text-showing operators from each page's content
// stream using pdfcpu. Pages without text add nothing.
type PDFCPUStrategy struct{}

func (PDFCPUStrategy) Name() string { return StrategyPDFCPU }

func (PDFCPUStrategy) ExtractText(ctx context.Context, path string, maxPages int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pdfCtx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}

	acc := pageAccumulator{skipEmpty: true}
	numPages := pageLimit(pdfCtx.PageCount, maxPages)
	for pageNr := 1; pageNr <= numPages; pageNr++ {
		if err := ctx.Err(); err != nil {
			return acc.String(), err
		}
		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil {
			return acc.String(), fmt.Errorf("page %d: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return acc.String(), fmt.Errorf("page %d: %w", pageNr, err)
		}
		acc.add(contentStreamText(data))
	}
	return acc.String(), nil
}

// contentStreamText collects the string operands of Tj, TJ, ' and " in a
// page content stream. Strings are decoded byte-per-rune (Latin-1), which is
// right for simple fonts and lossy for composite ones.
func contentStreamText(data []byte) string {
	var (
		sb       strings.Builder
		operands []string
	)

	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	emit := func() {
		for _, s := range operands {
			sb.WriteString(s)
		}
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, next := readLiteralString(data, i)
			operands = append(operands, s)
			i = next
		case c == '/':
			i++
			for i < len(data) && !isPDFWhitespace(data[i]) && !isPDFDelimiter(data[i]) {
				i++
			}
		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case c == '<':
			s, next := readHexString(data, i)
			operands = append(operands, s)
			i = next
		case isPDFWhitespace(c) || isPDFDelimiter(c):
			i++
		default:
			j := i
			for j < len(data) && !isPDFWhitespace(data[j]) && !isPDFDelimiter(data[j]) {
				j++
			}
			tok := string(data[i:j])
			i = j
			if !isOperatorToken(tok) {
				continue
			}
			switch tok {
			case "Tj", "TJ":
				emit()
			case "'", "\"":
				newline()
				emit()
			case "T*", "TD", "ET":
				newline()
			case "Td":
				if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") && !strings.HasSuffix(sb.String(), " ") {
					sb.WriteByte(' ')
				}
			case "ID":
				i = skipInlineImage(data, i)
			}
			operands = operands[:0]
		}
	}
	return strings.TrimSpace(sb.String())
}

func readLiteralString(data []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 1
	i := start + 1
	for i < len(data) && depth > 0 {
		c := data[i]
		switch c {
		case '\\':
			i++
			if i >= len(data) {
				break
			}
			switch e := data[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '\r':
				if i+1 < len(data) && data[i+1] == '\n' {
					i++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && i+1 < len(data) && data[i+1] >= '0' && data[i+1] <= '7'; k++ {
						i++
						val = val*8 + int(data[i]-'0')
					}
					sb.WriteRune(rune(val & 0xFF))
				} else {
					sb.WriteRune(rune(e))
				}
			}
		case '(':
			depth++
			sb.WriteByte('(')
		case ')':
			depth--
			if depth > 0 {
				sb.WriteByte(')')
			}
		default:
			sb.WriteRune(rune(c))
		}
		i++
	}
	return sb.String(), i
}

func readHexString(data []byte, start int) (string, int) {
	end := bytes.IndexByte(data[start:], '>')
	if end < 0 {
		return "", len(data)
	}
	digits := make([]byte, 0, end)
	for _, c := range data[start+1 : start+end] {
		if !isPDFWhitespace(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw, err := hex.DecodeString(string(digits))
	if err != nil {
		return "", start + end + 1
	}
	var sb strings.Builder
	for _, b := range raw {
		sb.WriteRune(rune(b))
	}
	return sb.String(), start + end + 1
}

// skipInlineImage advances past inline image data up to and including EI.
func skipInlineImage(data []byte, i int) int {
	for j := i; j+2 < len(data); j++ {
		if isPDFWhitespace(data[j]) && data[j+1] == 'E' && data[j+2] == 'I' &&
			(j+3 == len(data) || isPDFWhitespace(data[j+3]) || isPDFDelimiter(data[j+3])) {
			return j + 3
		}
	}
	return len(data)
}

func isOperatorToken(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '\'' || c == '"'
}

func isPDFWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
