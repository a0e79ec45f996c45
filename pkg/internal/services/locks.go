package services

import "sync"

// eventLocks hands out one RWMutex per event id. Entries are dropped once
// nobody holds or waits on them, so the map only grows with in-flight ids.
type eventLocks struct {
	mu      sync.Mutex
	entries map[string]*eventLock
}

type eventLock struct {
	sync.RWMutex
	refs int
}

func newEventLocks() *eventLocks {
	return &eventLocks{entries: make(map[string]*eventLock)}
}

func (v *eventLocks) acquire(key string) *eventLock {
	v.mu.Lock()
	defer v.mu.Unlock()
	entry, ok := v.entries[key]
	if !ok {
		entry = &eventLock{}
		v.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (v *eventLocks) release(key string, entry *eventLock) {
	v.mu.Lock()
	defer v.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(v.entries, key)
	}
}

// Lock takes the exclusive lock for key and returns its unlock func.
func (v *eventLocks) Lock(key string) func() {
	entry := v.acquire(key)
	entry.Lock()
	return func() {
		entry.Unlock()
		v.release(key, entry)
	}
}

// RLock takes the shared lock for key and returns its unlock func.
func (v *eventLocks) RLock(key string) func() {
	entry := v.acquire(key)
	entry.RLock()
	return func() {
		entry.RUnlock()
		v.release(key, entry)
	}
}

func (v *eventLocks) size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}
