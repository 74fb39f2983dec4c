package paperwise

import "github.com/Soumya-Chakraborty/PaperWise/document"

// Error taxonomy, re-exported from the document package so callers of the
// facade can match failures without importing subpackages.
//
// Open and render failures are wrapped with a human-readable cause chain;
// errors.Is against these sentinels classifies them. Context cancellation is
// always propagated as-is, never absorbed. Cheap query-style calls (bounds,
// page count, text of an unopened document) return zero values instead of
// raising.
var (
	// ErrInvalidInput marks a path that does not reference a readable file.
	ErrInvalidInput = document.ErrInvalidInput

	// ErrResourceLimit marks a document over the file-size or page-count
	// ceiling. Oversized bitmap renders are handled by silent downscaling
	// and never raise it.
	ErrResourceLimit = document.ErrResourceLimit

	// ErrRenderFailure marks a native open, load or render error.
	ErrRenderFailure = document.ErrRenderFailure
)
