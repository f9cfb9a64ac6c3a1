package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrInsufficientText is returned when a PDF parses but yields almost no
// text. Scanned papers hit this; the caller should fall back to OCR.
var ErrInsufficientText = errors.New("insufficient text extracted from PDF")

// minExtractedChars is the minimum text length considered a real extraction.
// Below this the PDF is almost certainly image-based.
const minExtractedChars = 50

// PDFExtractor handles PDF text extraction using ledongthuc/pdf (MIT license)
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// sanitizePDF truncates trailing garbage after the last %%EOF marker.
// Papers downloaded from university portals often carry appended HTML
// that breaks the parser.
func sanitizePDF(content []byte) []byte {
	if len(content) == 0 {
		return content
	}

	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return content // Not a PDF, return as-is
	}

	eofMarker := []byte("%%EOF")
	lastEOF := bytes.LastIndex(content, eofMarker)
	if lastEOF == -1 {
		// No %%EOF found, let the parser complain about the truncation
		return content
	}

	pdfEnd := lastEOF + len(eofMarker)

	// Trailing newlines after %%EOF are valid
	for pdfEnd < len(content) && (content[pdfEnd] == '\n' || content[pdfEnd] == '\r') {
		pdfEnd++
	}

	if pdfEnd < len(content) {
		extraBytes := len(content) - pdfEnd
		if extraBytes > 10 { // More than just whitespace
			log.Printf("PDF Sanitizer: Removing %d bytes of trailing garbage after %%EOF", extraBytes)
			return content[:pdfEnd]
		}
	}

	return content
}

// ExtractText extracts text from PDF bytes. Returns ErrInsufficientText
// (wrapped) when the PDF parses but is likely scanned.
func (p *PDFExtractor) ExtractText(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("empty PDF content")
	}

	content = sanitizePDF(content)

	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to parse PDF: %w", err)
	}

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	log.Printf("PDF Extractor: Processing PDF with %d pages", numPages)

	var textBuilder strings.Builder

	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			log.Printf("PDF Extractor: Page %d is null, skipping", i)
			continue
		}

		// Row extraction preserves line structure, which the question
		// extractor relies on for numbered markers
		rows, err := page.GetTextByRow()
		if err != nil {
			log.Printf("PDF Extractor: Row extraction failed for page %d, trying plain text: %v", i, err)
			text, plainErr := page.GetPlainText(nil)
			if plainErr != nil {
				log.Printf("PDF Extractor: Plain text extraction also failed for page %d: %v", i, plainErr)
				continue
			}
			textBuilder.WriteString(text)
			textBuilder.WriteString("\n")
			continue
		}

		for _, row := range rows {
			var rowText strings.Builder
			for _, word := range row.Content {
				rowText.WriteString(word.S)
			}
			line := strings.TrimSpace(rowText.String())
			if line != "" {
				textBuilder.WriteString(line)
				textBuilder.WriteString("\n")
			}
		}
		textBuilder.WriteString("\n") // Separate pages
	}

	extracted := strings.TrimSpace(textBuilder.String())

	if len(extracted) < minExtractedChars {
		return "", fmt.Errorf("%w (only %d characters) - PDF may be scanned/image-based and requires OCR", ErrInsufficientText, len(extracted))
	}

	log.Printf("PDF Extractor: Successfully extracted %d characters from %d pages", len(extracted), numPages)

	return extracted, nil
}

// GetPageCount returns the total number of pages in the PDF
func (p *PDFExtractor) GetPageCount(content []byte) (int, error) {
	if len(content) == 0 {
		return 0, fmt.Errorf("empty PDF content")
	}

	content = sanitizePDF(content)
	reader := bytes.NewReader(content)

	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse PDF: %w", err)
	}

	return pdfReader.NumPage(), nil
}
