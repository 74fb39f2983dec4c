package document

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"
)

// Limits enforced by Session.Open and Session.RenderPage.
const (
	// MaxFileSize is the largest document file Open will accept.
	MaxFileSize = 50 << 20

	// MaxPageCount is the largest page count Open will accept.
	MaxPageCount = 5000

	// MaxBitmapDim is the hard cap on either dimension of a rendered
	// bitmap. Renders that would exceed it are scaled down uniformly so the
	// larger dimension lands exactly on the cap.
	MaxBitmapDim = 3000
)

var (
	// ErrInvalidInput is returned when a path does not reference a readable
	// file.
	ErrInvalidInput = errors.New("document: invalid input")

	// ErrResourceLimit is returned when a document exceeds the file-size or
	// page-count ceiling.
	ErrResourceLimit = errors.New("document: resource limit exceeded")

	// ErrRenderFailure is returned when the native loader rejects a file or
	// a native render/extract call fails.
	ErrRenderFailure = errors.New("document: render failure")
)

// Session owns at most one open native document handle and serializes every
// native call behind a single lock; the underlying handle is not safe for
// concurrent use.
//
// A Session moves between Closed and Open any number of times. Opening while
// already open closes the prior handle first, even when the new open fails.
type Session struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger

	handle Handle
	path   string
	pages  int
}

// NewSession creates a closed session that opens documents via backend.
// A nil logger disables session logging.
func NewSession(backend Backend, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{backend: backend, logger: logger}
}

// Open loads the document at path and returns its page count. Any previously
// open handle is closed first, so a failed open always leaves the session
// closed rather than half-open.
func (s *Session) Open(ctx context.Context, path string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}
	if info.Size() > MaxFileSize {
		return 0, fmt.Errorf("%w: file is %d bytes (limit %d)", ErrResourceLimit, info.Size(), int64(MaxFileSize))
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	f.Close()

	handle, err := s.backend.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: open %s: %w", ErrRenderFailure, path, err)
	}

	pages := handle.PageCount()
	if pages > MaxPageCount {
		if cerr := handle.Close(); cerr != nil {
			s.logger.Warn("closing rejected document failed", "path", path, "error", cerr)
		}
		return 0, fmt.Errorf("%w: document has %d pages (limit %d)", ErrResourceLimit, pages, MaxPageCount)
	}

	s.handle = handle
	s.path = path
	s.pages = pages
	return pages, nil
}

// RenderPage rasterizes one page. scale = dpi/72 * zoom; each bitmap
// dimension is page bounds times scale, floored to at least 1px. If either
// dimension would exceed MaxBitmapDim the render is downscaled uniformly so
// the larger dimension equals the cap instead of failing.
//
// Returns (nil, nil) when no document is open or index is out of range.
func (s *Session) RenderPage(ctx context.Context, index int, zoom, dpi float64) (*image.RGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil || index < 0 || index >= s.pages {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds, err := s.handle.PageBounds(index)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d bounds: %w", ErrRenderFailure, index, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := s.handle.RenderPage(index, renderScale(bounds, zoom, dpi))
	if err != nil {
		return nil, fmt.Errorf("%w: render page %d: %w", ErrRenderFailure, index, err)
	}
	return img, nil
}

// renderScale computes the raster scale for a page, capping the larger output
// dimension at MaxBitmapDim. Degrading fidelity here is deliberate: a huge
// page at high zoom downscales silently instead of exhausting memory.
func renderScale(bounds image.Rectangle, zoom, dpi float64) float64 {
	scale := dpi / 72 * zoom
	w := float64(bounds.Dx()) * scale
	h := float64(bounds.Dy()) * scale
	if m := math.Max(w, h); m > MaxBitmapDim {
		scale *= MaxBitmapDim / m
	}
	return scale
}

// ExtractPageText returns the page's text in visual reading order: line
// characters unseparated, a line break after each line and an additional
// blank line after each block.
//
// Returns "" when no document is open or index is out of range.
func (s *Session) ExtractPageText(ctx context.Context, index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil || index < 0 || index >= s.pages {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	blocks, err := s.handle.PageText(index)
	if err != nil {
		return "", fmt.Errorf("%w: extract page %d text: %w", ErrRenderFailure, index, err)
	}
	return assembleText(blocks), nil
}

// PageBounds returns a page's bounds in points. ok is false when no document
// is open, index is out of range, or the native lookup fails (best effort,
// logged).
func (s *Session) PageBounds(index int) (image.Rectangle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil || index < 0 || index >= s.pages {
		return image.Rectangle{}, false
	}
	bounds, err := s.handle.PageBounds(index)
	if err != nil {
		s.logger.Warn("page bounds lookup failed", "page", index, "error", err)
		return image.Rectangle{}, false
	}
	return bounds, true
}

// Outline returns the document's table of contents, or nil when no document
// is open.
func (s *Session) Outline() ([]OutlineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return nil, nil
	}
	items, err := s.handle.Outline()
	if err != nil {
		return nil, fmt.Errorf("%w: outline: %w", ErrRenderFailure, err)
	}
	return items, nil
}

// Metadata returns the document's metadata map, or an empty map when no
// document is open.
func (s *Session) Metadata() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil {
		return map[string]string{}
	}
	return s.handle.Metadata()
}

// PageCount returns the page count captured at open time; it never re-queries
// the native layer. Zero when closed.
func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages
}

// Path returns the path of the currently open document, or "" when closed.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// IsOpen reports whether a document is currently open.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle != nil
}

// Close releases the native handle. Idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	if s.handle == nil {
		return nil
	}
	err := s.handle.Close()
	if err != nil {
		s.logger.Warn("closing document failed", "path", s.path, "error", err)
	}
	s.handle = nil
	s.path = ""
	s.pages = 0
	return err
}
