package services

import (
	"bytes"
	"strings"
	"testing"
)

func TestSanitizePDFTruncatesTrailingGarbage(t *testing.T) {
	pdfBody := []byte("%PDF-1.4\nsome objects here\n%%EOF\n")
	garbage := []byte("<html><body>portal session expired</body></html>")

	got := sanitizePDF(append(append([]byte{}, pdfBody...), garbage...))

	if !bytes.Equal(got, pdfBody) {
		t.Errorf("sanitizePDF did not truncate at %%%%EOF: got %d bytes, want %d", len(got), len(pdfBody))
	}
}

func TestSanitizePDFKeepsTrailingNewlines(t *testing.T) {
	pdfBody := []byte("%PDF-1.4\ncontent\n%%EOF\r\n\n")

	got := sanitizePDF(pdfBody)

	if !bytes.Equal(got, pdfBody) {
		t.Errorf("%s", "sanitizePDF modified a PDF with only trailing newlines after %%EOF")
	}
}

func TestSanitizePDFPassesThroughNonPDF(t *testing.T) {
	content := []byte("just some text, definitely not a PDF %%EOF trailing")

	got := sanitizePDF(content)

	if !bytes.Equal(got, content) {
		t.Error("sanitizePDF modified non-PDF content")
	}
}

func TestSanitizePDFNoEOFMarker(t *testing.T) {
	content := []byte("%PDF-1.4\ntruncated download without end marker")

	got := sanitizePDF(content)

	if !bytes.Equal(got, content) {
		t.Errorf("%s", "sanitizePDF modified a PDF missing its %%EOF marker")
	}
}

func TestExtractTextRejectsEmptyContent(t *testing.T) {
	extractor := NewPDFExtractor()

	if _, err := extractor.ExtractText(nil); err == nil {
		t.Error("expected error for empty content, got nil")
	}
}

func TestExtractTextRejectsNonPDF(t *testing.T) {
	extractor := NewPDFExtractor()

	_, err := extractor.ExtractText([]byte(strings.Repeat("not a pdf ", 100)))
	if err == nil {
		t.Fatal("expected parse error for non-PDF content, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse PDF") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetPageCountRejectsEmptyContent(t *testing.T) {
	extractor := NewPDFExtractor()

	if _, err := extractor.GetPageCount(nil); err == nil {
		t.Error("expected error for empty content, got nil")
	}
}
