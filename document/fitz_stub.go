//go:build !cgo

package document

import "fmt"

// Ensure the stub satisfies the backend contract.
var _ Backend = FitzBackend{}

// FitzBackend opens documents with MuPDF via go-fitz.
// This is a stub for builds without CGO; Open always fails.
type FitzBackend struct{}

// Open always fails in non-CGO builds.
func (FitzBackend) Open(path string) (Handle, error) {
	return nil, fmt.Errorf("%w: go-fitz backend requires cgo", ErrRenderFailure)
}
