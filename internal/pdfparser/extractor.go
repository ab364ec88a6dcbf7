package pdfparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"fjacquet/money-backward/internal/parsererror"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor defines the interface for extracting text from PDF files.
// It allows the parser to be tested without real PDFs.
type PDFExtractor interface {
	// ExtractText extracts text content from a PDF file at the given path.
	ExtractText(pdfPath string) (string, error)
}

// RealPDFExtractor reads the PDF with ledongthuc/pdf and falls back to the
// pdftotext command when the library fails or yields no text.
type RealPDFExtractor struct {
	// PdftotextBin overrides the fallback command name.
	PdftotextBin string
}

// NewRealPDFExtractor creates a new RealPDFExtractor instance.
func NewRealPDFExtractor() *RealPDFExtractor {
	return &RealPDFExtractor{PdftotextBin: "pdftotext"}
}

// ExtractText implements PDFExtractor.
func (e *RealPDFExtractor) ExtractText(pdfPath string) (string, error) {
	text, libErr := extractWithLibrary(pdfPath)
	if libErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	text, cmdErr := e.extractWithPdftotext(pdfPath)
	if cmdErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	err := errors.Join(libErr, cmdErr)
	if err == nil {
		err = errors.New("no text found; the PDF may be image-based")
	}
	return "", &parsererror.ParseError{
		Parser: "pdf",
		Field:  "text",
		Value:  pdfPath,
		Err:    err,
	}
}

// extractWithLibrary recovers from panics raised on malformed documents.
func extractWithLibrary(pdfPath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer func() { _ = f.Close() }()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return buf.String(), nil
}

func (e *RealPDFExtractor) extractWithPdftotext(pdfPath string) (string, error) {
	bin := e.PdftotextBin
	if bin == "" {
		bin = "pdftotext"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("%s not available: %w", bin, err)
	}
	out, err := exec.Command(bin, "-layout", pdfPath, "-").Output() // #nosec G204 -- fixed binary, user-provided path
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", bin, err)
	}
	return string(out), nil
}

// MockPDFExtractor implements PDFExtractor for testing purposes.
// It returns predefined text instead of reading the file.
type MockPDFExtractor struct {
	MockText string
	MockErr  error
	// Calls counts ExtractText invocations.
	Calls int
}

// NewMockPDFExtractor creates a new MockPDFExtractor with the given mock data.
func NewMockPDFExtractor(mockText string, mockErr error) *MockPDFExtractor {
	return &MockPDFExtractor{
		MockText: mockText,
		MockErr:  mockErr,
	}
}

// ExtractText returns the predefined mock text or error.
func (e *MockPDFExtractor) ExtractText(pdfPath string) (string, error) {
	e.Calls++
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
