package database

import "sync"

var (
	lastOffset   int
	lastOffsetMu = &sync.RWMutex{}
)

// LastUpdateOffset returns the in-memory copy of the polling cursor, loaded
// at startup and kept current by SaveUpdateOffset.
func LastUpdateOffset() int {
	lastOffsetMu.RLock()
	defer lastOffsetMu.RUnlock()
	return lastOffset
}
