package memory

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestIncrementWindowCountsAndResets(t *testing.T) {
	store := NewStore()
	windowStart := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	expiresAt := windowStart.Add(2 * time.Minute)

	for want := int64(1); want <= 3; want++ {
		count, err := store.IncrementWindow(context.Background(), "key-1", windowStart, expiresAt)
		if err != nil {
			t.Fatalf("increment failed: %v", err)
		}
		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}
	}

	nextWindow := windowStart.Add(time.Minute)
	count, err := store.IncrementWindow(context.Background(), "key-1", nextWindow, nextWindow.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("rollover increment failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("rolled-over count = %d, want 1", count)
	}
}

func TestIncrementWindowConcurrentCallersNeverShareACount(t *testing.T) {
	store := NewStore()
	windowStart := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	expiresAt := windowStart.Add(2 * time.Minute)

	const callers = 50
	counts := make(chan int64, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			count, err := store.IncrementWindow(context.Background(), "key-1", windowStart, expiresAt)
			if err != nil {
				t.Errorf("increment failed: %v", err)
				return
			}
			counts <- count
		}()
	}
	wg.Wait()
	close(counts)

	seen := make(map[int64]bool, callers)
	for count := range counts {
		if seen[count] {
			t.Fatalf("count %d handed out twice", count)
		}
		seen[count] = true
	}
	if len(seen) != callers {
		t.Fatalf("expected %d distinct counts, got %d", callers, len(seen))
	}
}

func TestDeleteExpiredRemovesOnlyExpiredWindows(t *testing.T) {
	store := NewStore()
	old := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	fresh := old.Add(10 * time.Minute)

	if _, err := store.IncrementWindow(context.Background(), "stale", old, old.Add(2*time.Minute)); err != nil {
		t.Fatalf("seed stale window: %v", err)
	}
	if _, err := store.IncrementWindow(context.Background(), "live", fresh, fresh.Add(2*time.Minute)); err != nil {
		t.Fatalf("seed live window: %v", err)
	}

	removed, err := store.DeleteExpired(context.Background(), old.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	count, err := store.IncrementWindow(context.Background(), "live", fresh, fresh.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("increment live window: %v", err)
	}
	if count != 2 {
		t.Fatalf("live window count = %d, want 2 (survived sweep)", count)
	}
}
