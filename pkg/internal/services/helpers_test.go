package services

import (
	"sync"
	"time"

	"git.solsynth.dev/hypernet/telemed/pkg/internal/config"
)

var referenceTime = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

type fakeClock struct {
	mu      sync.Mutex
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: referenceTime}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

func testSettings() config.Settings {
	return config.Settings{
		Provider:       config.ProviderJitsi,
		Domain:         "meet.example.com",
		Secret:         "s3cret",
		AppID:          "telemed",
		TokenTTL:       config.DefaultTokenTTL,
		AccessWindow:   config.DefaultAccessWindow,
		RoomPrefix:     "room",
		StorageTimeout: time.Second,
	}
}
