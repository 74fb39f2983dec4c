// Package sysmem probes the amount of physical memory on the host. The page
// cache derives its default capacity from it.
package sysmem

// Total returns total physical memory in bytes, or 0 when it cannot be
// determined on this platform.
func Total() int64 {
	return total()
}
