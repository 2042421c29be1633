package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

type TextExtractor interface {
	Extract(data []byte, mimeType string) (*DocumentContent, error)
	ExtractFile(filePath, mimeType string) (*DocumentContent, error)
}

type DocumentContent struct {
	Text      string
	PageCount int
	MimeType  string
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// DetectMimeType resolves the document type from the declared MIME type,
// falling back to the file extension for generic uploads.
func DetectMimeType(filename, declared string) (string, error) {
	switch declared {
	case MimePDF, MimeDOCX:
		return declared, nil
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MimePDF, nil
	case ".docx":
		return MimeDOCX, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, declared)
}

func (t *textExtractor) ExtractFile(filePath, mimeType string) (*DocumentContent, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return t.Extract(data, mimeType)
}

func (t *textExtractor) Extract(data []byte, mimeType string) (*DocumentContent, error) {
	var (
		content *DocumentContent
		err     error
	)

	switch mimeType {
	case MimePDF:
		content, err = extractPDF(data)
	case MimeDOCX:
		content, err = extractDOCX(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content.Text) == "" {
		return nil, fmt.Errorf("no text content found in document")
	}
	content.MimeType = mimeType

	return content, nil
}

func extractPDF(data []byte) (*DocumentContent, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return &DocumentContent{
		Text:      textBuilder.String(),
		PageCount: totalPage,
	}, nil
}

func extractDOCX(data []byte) (*DocumentContent, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open DOCX: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()

		text, err := docxText(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read document.xml: %w", err)
		}

		return &DocumentContent{Text: text, PageCount: 1}, nil
	}

	return nil, fmt.Errorf("no word/document.xml found in DOCX")
}

// docxText walks WordprocessingML, keeping run text and turning paragraph
// ends, breaks and tabs into whitespace.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		b      strings.Builder
		inText bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteString("\t")
			case "br", "cr":
				b.WriteString("\n")
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(el)
			}
		}
	}

	return CleanText(b.String()), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := lines[:0]

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
