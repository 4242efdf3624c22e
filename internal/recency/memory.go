package recency

import (
	"context"
	"sync"
	"time"
)

// memoryRing holds the last ringSize plays for one channel. Oldest slots are
// overwritten in place, so the structure is bounded regardless of uptime.
const ringSize = 512

type play struct {
	itemID string
	at     time.Time
}

type memoryRing struct {
	slots [ringSize]play
	next  int
	count int
}

// Memory is the in-memory Store used in tests and when redis is not
// configured.
type Memory struct {
	mu    sync.Mutex
	rings map[int]*memoryRing
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{rings: make(map[int]*memoryRing)}
}

func (m *Memory) MarkPlayed(_ context.Context, channelID int, itemIDs []string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ring := m.rings[channelID]
	if ring == nil {
		ring = &memoryRing{}
		m.rings[channelID] = ring
	}
	for _, id := range itemIDs {
		ring.slots[ring.next] = play{itemID: id, at: at}
		ring.next = (ring.next + 1) % ringSize
		if ring.count < ringSize {
			ring.count++
		}
	}
	return nil
}

func (m *Memory) RecentlyPlayed(_ context.Context, channelID int, since time.Time) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]bool)
	ring := m.rings[channelID]
	if ring == nil {
		return out, nil
	}
	for i := 0; i < ring.count; i++ {
		p := ring.slots[i]
		if !p.at.Before(since) {
			out[p.itemID] = true
		}
	}
	return out, nil
}
