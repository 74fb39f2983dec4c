// Package testutil provides a synthetic document backend for tests.
//
// This package is intended for use in tests only. FakeBackend implements
// document.Backend over in-memory pages with configurable bounds, text
// blocks and failure injection, so session and viewer behavior can be tested
// without a native PDF library.
package testutil

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Soumya-Chakraborty/PaperWise/document"
)

// FakePage describes one synthetic page.
type FakePage struct {
	// Width and Height are the page bounds in points.
	Width, Height int
	// Blocks is the page text in reading order.
	Blocks []document.TextBlock
}

// TextPage builds a single-block page with the given lines and letter-sized
// bounds.
func TextPage(lines ...string) FakePage {
	return FakePage{
		Width:  612,
		Height: 792,
		Blocks: []document.TextBlock{{Lines: lines}},
	}
}

// FakeBackend implements document.Backend over synthetic pages. The zero
// value is unusable; fill Pages first. Safe for concurrent use.
type FakeBackend struct {
	mu sync.Mutex

	// Pages are the pages every opened handle exposes.
	Pages []FakePage

	// OpenErr, when set, makes Open fail.
	OpenErr error

	// RenderErr, when set, makes RenderPage fail for the given page index.
	RenderErr map[int]error

	// Outline and Meta are returned verbatim by every handle.
	Outline []document.OutlineItem
	Meta    map[string]string

	opens       int
	renderCalls int
	handles     []*FakeHandle
}

// Open returns a new handle over the backend's pages.
func (b *FakeBackend) Open(path string) (document.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	b.opens++
	h := &FakeHandle{backend: b}
	b.handles = append(b.handles, h)
	return h, nil
}

// Opens returns how many handles were opened successfully.
func (b *FakeBackend) Opens() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

// RenderCalls returns how many renders were performed across all handles.
func (b *FakeBackend) RenderCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renderCalls
}

// OpenHandles returns how many handles have been opened but not closed.
func (b *FakeBackend) OpenHandles() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, h := range b.handles {
		if !h.closed {
			n++
		}
	}
	return n
}

// FakeHandle is the handle type produced by FakeBackend.
type FakeHandle struct {
	backend *FakeBackend
	closed  bool
}

func (h *FakeHandle) PageCount() int {
	return len(h.backend.Pages)
}

func (h *FakeHandle) PageBounds(index int) (image.Rectangle, error) {
	p := h.backend.Pages[index]
	return image.Rect(0, 0, p.Width, p.Height), nil
}

func (h *FakeHandle) RenderPage(index int, scale float64) (*image.RGBA, error) {
	h.backend.mu.Lock()
	err := h.backend.RenderErr[index]
	if err == nil {
		h.backend.renderCalls++
	}
	h.backend.mu.Unlock()
	if err != nil {
		return nil, err
	}

	p := h.backend.Pages[index]
	w := int(math.Floor(float64(p.Width) * scale))
	ht := int(math.Floor(float64(p.Height) * scale))
	if w < 1 {
		w = 1
	}
	if ht < 1 {
		ht = 1
	}
	return image.NewRGBA(image.Rect(0, 0, w, ht)), nil
}

func (h *FakeHandle) PageText(index int) ([]document.TextBlock, error) {
	return h.backend.Pages[index].Blocks, nil
}

func (h *FakeHandle) Outline() ([]document.OutlineItem, error) {
	return h.backend.Outline, nil
}

func (h *FakeHandle) Metadata() map[string]string {
	if h.backend.Meta == nil {
		return map[string]string{}
	}
	return h.backend.Meta
}

func (h *FakeHandle) Close() error {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	h.closed = true
	return nil
}

// TempDoc writes a small placeholder file and returns its path. Session.Open
// stats and opens the path before handing it to the backend, so fake
// documents still need a real file behind them.
func TempDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-fake"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
