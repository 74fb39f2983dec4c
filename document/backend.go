package document

import (
	"image"
	"strings"
)

// TextBlock is one block of page text in visual reading order. Lines hold
// the characters of each line with no trailing separator.
type TextBlock struct {
	Lines []string
}

// OutlineItem is a single entry of a document's table of contents.
type OutlineItem struct {
	Level int
	Title string
	Page  int
}

// Backend opens native document handles.
type Backend interface {
	Open(path string) (Handle, error)
}

// Handle is an open native document. Implementations are not safe for
// concurrent use; Session serializes every call against the handle.
type Handle interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageBounds returns the bounds of a page in points (1/72 inch).
	PageBounds(index int) (image.Rectangle, error)

	// RenderPage rasterizes a page at the given scale, where scale 1.0 is
	// one pixel per point. Each output dimension is floored to at least 1px.
	RenderPage(index int, scale float64) (*image.RGBA, error)

	// PageText returns the page's text blocks in visual reading order.
	PageText(index int) ([]TextBlock, error)

	// Outline returns the document's table of contents, if any.
	Outline() ([]OutlineItem, error)

	// Metadata returns document metadata such as title and author.
	Metadata() map[string]string

	// Close releases the native document. The handle must not be used
	// afterwards.
	Close() error
}

// assembleText flattens text blocks into a single string: lines are joined
// with a line break after each, and every block is followed by an additional
// blank line.
func assembleText(blocks []TextBlock) string {
	var sb strings.Builder
	for _, b := range blocks {
		for _, line := range b.Lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// splitBlocks is the inverse used by backends that only produce flat text:
// blocks are separated by blank lines, lines by line breaks.
func splitBlocks(text string) []TextBlock {
	if text == "" {
		return nil
	}
	var blocks []TextBlock
	for _, chunk := range strings.Split(text, "\n\n") {
		chunk = strings.Trim(chunk, "\n")
		if chunk == "" {
			continue
		}
		blocks = append(blocks, TextBlock{Lines: strings.Split(chunk, "\n")})
	}
	return blocks
}
