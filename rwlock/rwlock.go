// Package rwlock implements a reader-writer lock with an explicit
// reader/writer turn handoff, so that neither readers nor writers can
// starve the other class.
//
// This is deliberately not sync.RWMutex: stdlib's RWMutex already has
// its own (different, undocumented-as-contract) writer-starvation
// mitigation, but the tree package needs the specific cascade-wake
// handoff policy below, where the thread releasing the lock decides
// which class gets to run next. The lock is not reentrant; a
// goroutine must never try to acquire a lock it already holds.
package rwlock

import "sync"

type change int

const (
	changeNone change = iota
	changeReaders
	changeWriters
)

// RWMutex is a reader-writer lock with explicit turn handoff.
//
// Unlocking transfers the "turn" to the other class if it has
// waiters, otherwise to its own class. This guarantees that a writer
// blocked behind a stream of readers will eventually run, and that a
// reader blocked behind a queue of writers will eventually run too.
type RWMutex struct {
	mu      sync.Mutex
	readers *sync.Cond
	writers *sync.Cond

	rcount, wcount int
	rwait, wwait   int
	change         change
}

// New returns an unlocked RWMutex.
func New() *RWMutex {
	m := &RWMutex{}
	m.readers = sync.NewCond(&m.mu)
	m.writers = sync.NewCond(&m.mu)
	return m
}

// RLock acquires the lock for reading. It blocks while a writer holds
// or is waiting for the lock, unless this goroutine has just been
// handed the reader turn.
func (m *RWMutex) RLock() {
	m.mu.Lock()
	m.rwait++
	for m.wcount+m.wwait > 0 && m.change != changeReaders {
		m.readers.Wait()
	}
	m.rwait--
	m.change = changeNone
	m.rcount++
	// Cascade-wake: signal the next queued reader, if any. change has
	// already been reset, so that reader is admitted only while no
	// writer holds or waits for the lock; with writers queued it waits
	// again for the next reader turn.
	if m.rwait > 0 {
		m.mu.Unlock()
		m.readers.Signal()
		return
	}
	m.mu.Unlock()
}

// RUnlock releases a reader's hold on the lock. If this was the last
// active reader and a writer is waiting, the writer turn is handed
// off.
func (m *RWMutex) RUnlock() {
	m.mu.Lock()
	m.rcount--
	if m.rcount == 0 && m.wwait > 0 {
		m.change = changeWriters
		m.mu.Unlock()
		m.writers.Signal()
		return
	}
	m.mu.Unlock()
}

// Lock acquires the lock for writing. It blocks while any reader or
// writer holds the lock, unless this goroutine has just been handed
// the writer turn.
func (m *RWMutex) Lock() {
	m.mu.Lock()
	m.wwait++
	for m.wcount+m.rcount > 0 && m.change != changeWriters {
		m.writers.Wait()
	}
	m.wwait--
	m.change = changeNone
	m.wcount++
	m.mu.Unlock()
}

// Unlock releases the writer's hold on the lock. A waiting reader
// class is preferred for the handoff; only if none is waiting does a
// waiting writer get the turn.
func (m *RWMutex) Unlock() {
	m.mu.Lock()
	m.wcount--
	if m.rwait > 0 {
		m.change = changeReaders
		m.mu.Unlock()
		m.readers.Signal()
		return
	}
	if m.wwait > 0 {
		m.change = changeWriters
		m.mu.Unlock()
		m.writers.Signal()
		return
	}
	m.mu.Unlock()
}
