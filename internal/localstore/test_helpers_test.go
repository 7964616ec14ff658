package localstore

import (
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(Config{
		KV: NewMemoryKV(),
		Clock: func() time.Time {
			return time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return store
}

// tickingClock hands out strictly increasing timestamps so notification
// ids minted in a tight loop stay distinct.
type tickingClock struct {
	current time.Time
}

func (c *tickingClock) now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

func newTickingStore(t *testing.T) *Store {
	t.Helper()
	clock := &tickingClock{current: time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)}
	store, err := New(Config{KV: NewMemoryKV(), Clock: clock.now})
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return store
}

type failingKV struct {
	getErr error
	setErr error
}

func (f *failingKV) Get(string) (string, bool, error) { return "", false, f.getErr }
func (f *failingKV) Set(string, string) error         { return f.setErr }
func (f *failingKV) Delete(string) error              { return nil }

var errBackendDown = errors.New("backend down")
