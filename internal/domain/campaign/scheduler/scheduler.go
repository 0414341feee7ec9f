// Package scheduler contains the one-shot campaign trigger registry
package scheduler

import (
	"sort"
	"sync"
	"time"
)

type entry struct {
	at    time.Time
	timer *time.Timer
	fn    func()
}

// Scheduler keeps at most one pending trigger per campaign id.
// Triggers fire on their own goroutine once their instant is reached.
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*entry
	stopped bool
	now     func() time.Time
}

// New creates an empty scheduler
func New() *Scheduler {
	return &Scheduler{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Schedule registers fn to run at when, replacing any prior trigger for id.
// An instant in the past fires immediately. Schedule is a no-op after Stop.
func (s *Scheduler) Schedule(id string, when time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	if prev, ok := s.entries[id]; ok {
		prev.timer.Stop()
	}

	e := &entry{at: when, fn: fn}
	e.timer = time.AfterFunc(when.Sub(s.now()), func() { s.fire(id, e) })
	s.entries[id] = e
}

// Cancel removes the pending trigger for id and reports whether one existed
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.entries, id)
	return true
}

// FireDue runs every trigger due at or before now and returns how many ran
func (s *Scheduler) FireDue(now time.Time) int {
	s.mu.Lock()
	due := make([]*entry, 0)
	for id, e := range s.entries {
		if !e.at.After(now) {
			e.timer.Stop()
			delete(s.entries, id)
			due = append(due, e)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, e := range due {
		e.fn()
	}
	return len(due)
}

// Pending returns the ids with a registered trigger, sorted
func (s *Scheduler) Pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stop drops every pending trigger and rejects new ones
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, id)
	}
	s.stopped = true
}

// fire runs e unless it was cancelled or replaced in the meantime
func (s *Scheduler) fire(id string, e *entry) {
	s.mu.Lock()
	if s.entries[id] != e {
		s.mu.Unlock()
		return
	}
	delete(s.entries, id)
	s.mu.Unlock()

	e.fn()
}
