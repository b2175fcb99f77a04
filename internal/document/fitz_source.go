// Package document opens the featured PDF and renders its pages.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"novel-reader/internal/domain"

	"github.com/gen2brain/go-fitz"
)

// BaseDPI is the render density at scale 1.0.
const BaseDPI = 150.0

// Info is the document metadata shown on the landing card.
type Info struct {
	Pages  int    `json:"pages"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

// FitzSource implements domain.DocumentSource with MuPDF. The file is opened
// on first use and kept open until Close.
type FitzSource struct {
	path   string
	logger domain.Logger

	mu  sync.Mutex
	doc *fitz.Document
}

// NewFitzSource creates a source for the PDF at path.
func NewFitzSource(path string, logger domain.Logger) *FitzSource {
	return &FitzSource{path: path, logger: logger}
}

// Path returns the document location.
func (s *FitzSource) Path() string {
	return s.path
}

// PageCount opens the document if needed and returns its number of pages.
func (s *FitzSource) PageCount(ctx context.Context) (int, error) {
	info, err := s.Info(ctx)
	if err != nil {
		return 0, err
	}
	return info.Pages, nil
}

// Info returns the page count and the title and author from the PDF metadata.
func (s *FitzSource) Info(ctx context.Context) (Info, error) {
	var info Info
	err := s.withDoc(ctx, func(doc *fitz.Document) error {
		meta := doc.Metadata()
		info = Info{
			Pages:  doc.NumPage(),
			Title:  meta["title"],
			Author: meta["author"],
		}
		return nil
	})
	return info, err
}

// RenderPage rasterizes a 1-based page to PNG at BaseDPI times scale.
func (s *FitzSource) RenderPage(ctx context.Context, page int, scale float64) ([]byte, error) {
	if page < 1 {
		return nil, domain.ErrPageOutOfRange
	}
	if scale <= 0 {
		return nil, &domain.ValidationError{Field: "scale", Message: "must be positive"}
	}

	var png []byte
	err := s.withDoc(ctx, func(doc *fitz.Document) error {
		if page > doc.NumPage() {
			return domain.ErrPageOutOfRange
		}
		out, err := doc.ImagePNG(page-1, BaseDPI*scale)
		if err != nil {
			return fmt.Errorf("failed to render page %d: %w", page, err)
		}
		png = out
		return nil
	})
	return png, err
}

// Close releases the underlying document.
func (s *FitzSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return nil
	}
	err := s.doc.Close()
	s.doc = nil
	return err
}

// withDoc runs fn on the open document in a separate goroutine so a caller
// whose context ends is released while MuPDF finishes.
func (s *FitzSource) withDoc(ctx context.Context, fn func(doc *fitz.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		doc, err := s.open()
		if err != nil {
			done <- err
			return
		}
		done <- fn(doc)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// open must be called with s.mu held.
func (s *FitzSource) open() (*fitz.Document, error) {
	if s.doc != nil {
		return s.doc, nil
	}
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("document %s not found: %w", s.path, err)
		}
		return nil, fmt.Errorf("failed to stat document: %w", err)
	}

	doc, err := fitz.New(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	s.doc = doc
	s.logger.Info("Document opened", "path", s.path, "pages", doc.NumPage())
	return doc, nil
}
