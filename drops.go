package tide

import (
	"sync"
	"time"
)

// Drop records a command whose result never reached the loop, usually
// because the program stopped or the command's scope was released while
// it was still sending.
type Drop struct {
	Kind CmdKind
	Err  error
	At   time.Time
}

// dropRing keeps the most recent drops. A nil ring records nothing.
type dropRing struct {
	mu    sync.RWMutex
	drops []Drop
	head  int
	count int
}

func newDropRing(size int) *dropRing {
	if size <= 0 {
		return nil
	}
	return &dropRing{drops: make([]Drop, size)}
}

func (r *dropRing) push(d Drop) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drops[r.head] = d
	r.head = (r.head + 1) % len(r.drops)
	if r.count < len(r.drops) {
		r.count++
	}
}

// all returns the recorded drops, oldest first.
func (r *dropRing) all() []Drop {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.count == 0 {
		return nil
	}
	size := len(r.drops)
	out := make([]Drop, r.count)
	start := (r.head - r.count + size) % size
	for i := range out {
		out[i] = r.drops[(start+i)%size]
	}
	return out
}
