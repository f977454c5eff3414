// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decode extracts raw page text from PDF files. Failures are
// isolated per document: every problem comes back as an *Error carrying
// the paper identifier, never as an abort of the surrounding batch.
package decode

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result is the raw extraction for one document: ordered page texts and
// the total page count. It is held only for the duration of one
// processing pass.
type Result struct {
	PaperID    string
	Pages      []string
	TotalPages int
}

// Text returns the concatenated page texts separated by newlines.
func (r *Result) Text() string {
	return strings.Join(r.Pages, "\n")
}

// Empty reports whether the decoder produced no extractable text, as with
// scanned image PDFs. An empty result is not a decode failure.
func (r *Result) Empty() bool {
	for _, p := range r.Pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// Error is a per-document decode failure: corrupt file, encrypted file,
// zero-page document, or unsupported format.
type Error struct {
	PaperID string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decoding %s (paper %s): %v", e.Path, e.PaperID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// File reads the PDF at path and returns per-page text plus the page
// count. Pages whose text cannot be extracted contribute an empty string
// rather than failing the document; only structural problems (unreadable
// file, zero pages) produce an *Error.
func File(path, paperID string) (result *Result, err error) {
	// The underlying PDF parser panics on some malformed files; fold
	// those into a decode error so one bad document cannot take down a
	// batch.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &Error{PaperID: paperID, Path: path, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, &Error{PaperID: paperID, Path: path, Err: err}
	}
	defer f.Close()

	total := reader.NumPage()
	if total == 0 {
		return nil, &Error{PaperID: paperID, Path: path, Err: fmt.Errorf("zero-page document")}
	}

	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return &Result{PaperID: paperID, Pages: pages, TotalPages: total}, nil
}
