package engine

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// buildLocks serializes builds per channel. Builds for different channels run
// fully in parallel; a second build request for a busy channel is rejected,
// never interleaved.
type buildLocks struct {
	locks *xsync.MapOf[int, *sync.Mutex]
}

func newBuildLocks() *buildLocks {
	return &buildLocks{locks: xsync.NewMapOf[int, *sync.Mutex]()}
}

// tryLock acquires the channel's build lock without blocking; false means a
// build is already in flight.
func (b *buildLocks) tryLock(channelID int) bool {
	mu, _ := b.locks.LoadOrStore(channelID, &sync.Mutex{})
	return mu.TryLock()
}

func (b *buildLocks) unlock(channelID int) {
	if mu, ok := b.locks.Load(channelID); ok {
		mu.Unlock()
	}
}
