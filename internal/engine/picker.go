package engine

import (
	"math/rand"

	"github.com/Castaway-Media/castaway/internal/catalog"
)

// picker implements shuffle-cycle selection: the pool is shuffled once, items
// are handed out in order, and the pool is reshuffled when exhausted. Every
// item plays once before any repeats, and a fixed rand source makes the whole
// sequence reproducible.
type picker struct {
	pool []catalog.Item
	rnd  *rand.Rand
	idx  int
}

func newPicker(pool []catalog.Item, rnd *rand.Rand) *picker {
	p := &picker{pool: append([]catalog.Item(nil), pool...), rnd: rnd}
	p.shuffle()
	return p
}

func (p *picker) shuffle() {
	p.rnd.Shuffle(len(p.pool), func(i, j int) {
		p.pool[i], p.pool[j] = p.pool[j], p.pool[i]
	})
	p.idx = 0
}

func (p *picker) next() catalog.Item {
	if p.idx >= len(p.pool) {
		p.shuffle()
	}
	item := p.pool[p.idx]
	p.idx++
	return item
}
