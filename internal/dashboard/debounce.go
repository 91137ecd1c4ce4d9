package dashboard

import (
	"sync"
	"time"
)

// Debouncer buffers free-text input and applies only the latest value once
// no new input has arrived for the quiet period.
type Debouncer struct {
	mu      sync.Mutex
	wait    time.Duration
	apply   func(string)
	timer   *time.Timer
	pending string
	armed   bool
}

func NewDebouncer(wait time.Duration, apply func(string)) *Debouncer {
	return &Debouncer{wait: wait, apply: apply}
}

func (b *Debouncer) Push(v string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = v
	b.armed = true
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.wait, b.fire)
}

// Flush applies the pending value immediately, if any.
func (b *Debouncer) Flush() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.mu.Unlock()
	b.fire()
}

// Stop discards pending input.
func (b *Debouncer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.armed = false
}

func (b *Debouncer) fire() {
	b.mu.Lock()
	if !b.armed {
		b.mu.Unlock()
		return
	}
	v := b.pending
	b.armed = false
	b.mu.Unlock()
	b.apply(v)
}
