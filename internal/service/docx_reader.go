package service

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"doc-text-reader/internal/domain"
)

const docxBodyPart = "word/document.xml"

// DocxReader extracts body paragraphs from .docx files.
type DocxReader struct{}

// NewDocxReader creates a word-processor document reader
func NewDocxReader() *DocxReader {
	return &DocxReader{}
}

// Read joins the text of every top-level body paragraph with "\n", in
// document order. Tables, text boxes, content controls and headers/footers
// are skipped. Empty paragraphs are kept as empty lines.
func (r *DocxReader) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx %s: %w: %v", path, domain.ErrDocumentMalformed, err)
	}
	defer zr.Close()

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("%s not found in %s: %w", docxBodyPart, path, domain.ErrDocumentMalformed)
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	paragraphs, err := readBodyParagraphs(rc)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w: %v", path, domain.ErrDocumentMalformed, err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// readBodyParagraphs walks document.xml and returns the text of each w:p
// whose parent is w:body. Only runs that are direct children of the paragraph
// or of a w:hyperlink inside it contribute text, so tracked insertions,
// content controls, smart tags and text boxes are left out.
func readBodyParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		stack      []string
		current    strings.Builder
		paraIdx    = -1 // stack index of the open body paragraph
		inText     bool
	)

	parent := func() string {
		if len(stack) == 0 {
			return ""
		}
		return stack[len(stack)-1]
	}

	// inRun reports whether the element about to be pushed sits in a run
	// that belongs to the open body paragraph.
	inRun := func() bool {
		if paraIdx < 0 || len(stack) <= paraIdx {
			return false
		}
		switch path := stack[paraIdx+1:]; len(path) {
		case 1:
			return path[0] == "r"
		case 2:
			return path[0] == "hyperlink" && path[1] == "r"
		}
		return false
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" && parent() == "body" {
				paraIdx = len(stack)
				current.Reset()
			}
			if inRun() {
				switch t.Name.Local {
				case "t":
					inText = true
				case "tab", "ptab":
					current.WriteByte('\t')
				case "cr":
					current.WriteByte('\n')
				case "br":
					if isLineBreak(t) {
						current.WriteByte('\n')
					}
				case "noBreakHyphen":
					current.WriteByte('-')
				}
			}
			stack = append(stack, t.Name.Local)

		case xml.CharData:
			if inText {
				current.Write(t)
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if paraIdx >= 0 && len(stack) == paraIdx {
					paragraphs = append(paragraphs, current.String())
					paraIdx = -1
				}
			}
		}
	}

	return paragraphs, nil
}

// isLineBreak reports whether a w:br is a text-wrapping break. Page and
// column breaks add no text.
func isLineBreak(br xml.StartElement) bool {
	for _, attr := range br.Attr {
		if attr.Name.Local == "type" {
			return attr.Value == "" || attr.Value == "textWrapping"
		}
	}
	return true
}
