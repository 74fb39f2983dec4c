// Package document owns a single open native document handle and converts
// page numbers into raster images and text under strict resource ceilings.
//
// # Exclusive ownership
//
// The native handle (MuPDF via go-fitz) cannot be safely shared across
// simultaneous calls. Session therefore serializes open, render, text
// extraction, bounds and close behind one lock, and guarantees at most one
// live handle per session: opening while already open closes the prior
// handle first, even when the new open fails.
//
// # Resource ceilings
//
//   - Files larger than MaxFileSize are rejected (ErrResourceLimit).
//   - Documents with more than MaxPageCount pages are rejected.
//   - Rendered bitmaps never exceed MaxBitmapDim on either side; oversized
//     renders are downscaled uniformly instead of failing.
//
// Build requires MuPDF development headers for the go-fitz backend
// (apt install libmupdf-dev or equivalent). Without CGO the backend stub
// fails at Open; alternative backends can be supplied via the Backend
// interface.
package document
