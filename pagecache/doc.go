// Package pagecache provides the bounded-memory cache of rendered pages.
//
// Entries are keyed by (document, page index, zoom) and accounted by their
// actual pixel footprint; when a Put pushes the resident total over the
// fixed byte budget, least-recently-used entries are evicted until the cache
// is back under it.
//
// Entries for a closed document are not removed implicitly. They are looked
// up only by explicit key and harmless until evicted or cleared with
// ClearDocument, which is the accepted trade-off for keeping the cache lock
// independent of the document session lock.
package pagecache
