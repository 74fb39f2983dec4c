// Package search implements linear, overlapping-match text search across a
// document's pages: FindMatches is the pure per-page matcher, Engine walks
// pages through a TextSource and caps the aggregate result count.
package search
