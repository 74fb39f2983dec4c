//go:build cgo

package document

import (
	"image"

	fitz "github.com/gen2brain/go-fitz"
)

// Ensure the adapter satisfies the backend contract.
var _ Backend = FitzBackend{}

// FitzBackend opens documents with MuPDF via go-fitz. MuPDF document handles
// cannot be shared across concurrent calls, which is why Session guards every
// handle operation with its lock.
type FitzBackend struct{}

// Open loads the document at path.
func (FitzBackend) Open(path string) (Handle, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &fitzHandle{doc: doc}, nil
}

type fitzHandle struct {
	doc *fitz.Document
}

func (h *fitzHandle) PageCount() int {
	return h.doc.NumPage()
}

func (h *fitzHandle) PageBounds(index int) (image.Rectangle, error) {
	return h.doc.Bound(index)
}

func (h *fitzHandle) RenderPage(index int, scale float64) (*image.RGBA, error) {
	// MuPDF scales relative to 72 dpi and floors output dimensions,
	// keeping at least one pixel per side.
	if scale <= 0 {
		scale = 1.0 / 72
	}
	return h.doc.ImageDPI(index, scale*72)
}

func (h *fitzHandle) PageText(index int) ([]TextBlock, error) {
	text, err := h.doc.Text(index)
	if err != nil {
		return nil, err
	}
	return splitBlocks(text), nil
}

func (h *fitzHandle) Outline() ([]OutlineItem, error) {
	toc, err := h.doc.ToC()
	if err != nil {
		return nil, err
	}
	items := make([]OutlineItem, 0, len(toc))
	for _, o := range toc {
		items = append(items, OutlineItem{
			Level: o.Level,
			Title: o.Title,
			Page:  o.Page,
		})
	}
	return items, nil
}

func (h *fitzHandle) Metadata() map[string]string {
	return h.doc.Metadata()
}

func (h *fitzHandle) Close() error {
	return h.doc.Close()
}
