package resultevent

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []ResultCompleted
}

func (r *Recorder) Publish(ctx context.Context, ev ResultCompleted) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []ResultCompleted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ResultCompleted(nil), r.events...)
}

// Direct hands events straight to a handler, for setups without a queue.
type Direct struct {
	Handle HandleFunc
}

func (d Direct) Publish(ctx context.Context, ev ResultCompleted) error {
	return d.Handle(ctx, ev)
}
