package session

import (
	"sync"
	"testing"
	"time"
)

func TestLockerSerializesSameID(t *testing.T) {
	l := NewLocker()
	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("same")
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Fatalf("want at most one holder, saw %d", maxSeen)
	}
	if l.Active() != 0 {
		t.Fatalf("lock entries leaked: %d", l.Active())
	}
}

func TestLockerIndependentIDs(t *testing.T) {
	l := NewLocker()
	unlockA := l.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := l.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("lock on b blocked by a")
	}
}

func TestLockerUnlockIsIdempotent(t *testing.T) {
	l := NewLocker()
	unlock := l.Lock("a")
	unlock()
	unlock()
	if l.Active() != 0 {
		t.Fatalf("want no entries, got %d", l.Active())
	}
	// must be acquirable again
	l.Lock("a")()
}
