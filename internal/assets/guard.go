package assets

import (
	"context"
	"sync"
)

// Guard ties each probe run to the target it was started for. Starting a new
// run in a slot (one client's "current activity" view) cancels the previous
// run in that slot, and Commit refuses results from a run that has since been
// superseded, so a late answer is never applied to a newer selection.
type Guard struct {
	mu    sync.Mutex
	seq   uint64
	slots map[string]*guardRun
}

type guardRun struct {
	id     uint64
	target string
	cancel context.CancelFunc
}

// Ticket identifies one run.
type Ticket struct {
	slot string
	id   uint64
}

// NewGuard returns an empty Guard.
func NewGuard() *Guard {
	return &Guard{slots: make(map[string]*guardRun)}
}

// Begin starts a run for target in slot and returns a context that is
// cancelled if a newer run starts in the same slot.
func (g *Guard) Begin(ctx context.Context, slot, target string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if prev, ok := g.slots[slot]; ok {
		prev.cancel()
	}
	g.seq++
	g.slots[slot] = &guardRun{id: g.seq, target: target, cancel: cancel}
	return ctx, Ticket{slot: slot, id: g.seq}
}

// Commit ends the run and reports whether it was still the active one.
// A false result means the caller must discard what the run produced.
func (g *Guard) Commit(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	run, ok := g.slots[t.slot]
	if !ok || run.id != t.id {
		return false
	}
	run.cancel()
	delete(g.slots, t.slot)
	return true
}

// Active returns the target of the run in progress for slot, if any.
func (g *Guard) Active(slot string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	run, ok := g.slots[slot]
	if !ok {
		return "", false
	}
	return run.target, true
}
