package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventLocksReleaseEntries(t *testing.T) {
	locks := newEventLocks()

	unlock := locks.Lock("42")
	assert.Equal(t, 1, locks.size())
	unlock()
	assert.Equal(t, 0, locks.size())

	r1 := locks.RLock("42")
	r2 := locks.RLock("42")
	assert.Equal(t, 1, locks.size())
	r1()
	r2()
	assert.Equal(t, 0, locks.size())
}

func TestEventLocksExcludeSameKeyOnly(t *testing.T) {
	locks := newEventLocks()
	unlock := locks.Lock("a")

	// A different key must not wait on "a".
	done := make(chan struct{})
	go func() {
		locks.Lock("b")()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on another key blocked")
	}

	var mu sync.Mutex
	acquired := false
	waiting := make(chan struct{})
	go func() {
		locks.RLock("a")()
		mu.Lock()
		acquired = true
		mu.Unlock()
		close(waiting)
	}()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.False(t, acquired)
	mu.Unlock()

	unlock()
	<-waiting
	assert.True(t, acquired)
}
