// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"bytes"
	"fmt"
	"os"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfMagic is the 4-byte signature every PDF starts with.
var pdfMagic = []byte("%PDF")

// DefaultMinPDFSize is the smallest download accepted as a plausible PDF.
// Anything smaller is an error page or a stub.
const DefaultMinPDFSize = 1000

// PageCounter reports the number of renderable pages in a PDF file.
type PageCounter func(path string) (int, error)

// CountPDFPages is the production PageCounter, backed by pdfcpu.
func CountPDFPages(path string) (int, error) {
	return pdfapi.PageCountFile(path)
}

// validate checks that path holds a real PDF: present, at least
// MinPDFSize bytes, starting with the PDF signature, and opening with at
// least one page. Callers delete the file on any failure.
func (a *Acquirer) validate(path string) error {
	minSize := a.MinPDFSize
	if minSize <= 0 {
		minSize = DefaultMinPDFSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	if info.Size() < minSize {
		return fmt.Errorf("file too small: %d bytes", info.Size())
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	header := make([]byte, len(pdfMagic))
	_, readErr := f.Read(header)
	f.Close()
	if readErr != nil {
		return fmt.Errorf("reading header: %w", readErr)
	}
	if !bytes.Equal(header, pdfMagic) {
		return fmt.Errorf("missing PDF signature")
	}

	countPages := a.CountPages
	if countPages == nil {
		countPages = CountPDFPages
	}
	pages, err := countPages(path)
	if err != nil {
		return fmt.Errorf("unreadable PDF structure: %w", err)
	}
	if pages < 1 {
		return fmt.Errorf("no renderable pages")
	}
	return nil
}
