// Package loader converts raw document files (pdf, docx, txt) into plain text
// for prompt construction. Dispatch is by declared format, never by sniffing
// content; a document either yields text or fails wholesale.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Format is a declared document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// UnsupportedFormatError is returned for file extensions the loader does not
// handle. It fails the document before any prompt is built.
type UnsupportedFormatError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q for %s", e.Ext, e.Path)
}

// CorruptDocumentError is returned when the underlying parser cannot produce
// text from a document (encrypted or damaged file, empty content stream).
type CorruptDocumentError struct {
	Path  string
	Cause error
}

func (e *CorruptDocumentError) Error() string {
	return fmt.Sprintf("cannot extract text from %s: %v", e.Path, e.Cause)
}

func (e *CorruptDocumentError) Unwrap() error { return e.Cause }

// RawDocument is one ingested file: identifier, bytes, and declared format.
type RawDocument struct {
	ID      uuid.UUID
	Path    string
	Content []byte
	Format  Format
}

// ExtractedText is the plain-text representation of a RawDocument. PDF page
// boundaries are preserved as form-feed markers ("\f") in Text.
type ExtractedText struct {
	DocumentID uuid.UUID
	SourceFile string
	Text       string
	Pages      int
}

// DetectFormat maps a file extension (case-insensitive) to a Format.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt":
		return FormatTXT, nil
	default:
		return "", &UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// NewRawDocument reads path into a RawDocument with a fresh id. Fails with
// UnsupportedFormatError before touching the file if the extension is unknown.
func NewRawDocument(path string) (*RawDocument, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &RawDocument{
		ID:      uuid.New(),
		Path:    path,
		Content: content,
		Format:  format,
	}, nil
}

// Loader dispatches extraction by declared format. Stateless apart from the
// logger; safe for concurrent use.
type Loader struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load converts doc into plain text. No partial success: any parser failure
// surfaces as CorruptDocumentError and the document produces no text at all.
func (l *Loader) Load(doc *RawDocument) (*ExtractedText, error) {
	var (
		text  string
		pages int
		err   error
	)
	switch doc.Format {
	case FormatPDF:
		text, pages, err = extractPDF(doc.Content)
	case FormatDOCX:
		text, err = extractDOCX(doc.Content)
		pages = 1
	case FormatTXT:
		text, err = extractTXT(doc.Content)
		pages = 1
	default:
		return nil, &UnsupportedFormatError{Path: doc.Path, Ext: string(doc.Format)}
	}
	if err != nil {
		return nil, &CorruptDocumentError{Path: doc.Path, Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &CorruptDocumentError{Path: doc.Path, Cause: fmt.Errorf("no text content found")}
	}

	l.logger.Debug("loader.load.ok",
		"path", doc.Path,
		"format", doc.Format,
		"pages", pages,
		"chars", len(text),
	)
	return &ExtractedText{
		DocumentID: doc.ID,
		SourceFile: doc.Path,
		Text:       text,
		Pages:      pages,
	}, nil
}
