package memory

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestTouchVersionsAreStrictlyIncreasing(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	for want := uint64(1); want <= 3; want++ {
		signal, err := store.Touch(context.Background(), "tenant-a", "TASKS_CHANGED", nil, now)
		if err != nil {
			t.Fatalf("touch failed: %v", err)
		}
		if signal.Version != want {
			t.Fatalf("version = %d, want %d", signal.Version, want)
		}
	}
}

func TestTouchConcurrentCallersProduceGaplessVersions(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	const touches = 100
	versions := make(chan uint64, touches)
	var wg sync.WaitGroup
	for i := 0; i < touches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			signal, err := store.Touch(context.Background(), "tenant-a", "TASKS_CHANGED", nil, now)
			if err != nil {
				t.Errorf("touch failed: %v", err)
				return
			}
			versions <- signal.Version
		}()
	}
	wg.Wait()
	close(versions)

	seen := make(map[uint64]bool, touches)
	for version := range versions {
		if seen[version] {
			t.Fatalf("version %d assigned twice", version)
		}
		seen[version] = true
	}
	for want := uint64(1); want <= touches; want++ {
		if !seen[want] {
			t.Fatalf("version %d missing from the sequence", want)
		}
	}
}

func TestTouchKeepsVersionsIndependentPerPair(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	if _, err := store.Touch(context.Background(), "tenant-a", "TASKS_CHANGED", nil, now); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	signal, err := store.Touch(context.Background(), "tenant-a", "CASES_CHANGED", nil, now)
	if err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	if signal.Version != 1 {
		t.Fatalf("other kind version = %d, want its own counter starting at 1", signal.Version)
	}

	signal, err = store.Touch(context.Background(), "tenant-b", "TASKS_CHANGED", nil, now)
	if err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	if signal.Version != 1 {
		t.Fatalf("other tenant version = %d, want its own counter starting at 1", signal.Version)
	}
}

func TestTouchNilPayloadLeavesStoredPayload(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	payload := json.RawMessage(`{"taskId":"t-1"}`)
	if _, err := store.Touch(context.Background(), "tenant-a", "TASKS_CHANGED", payload, now); err != nil {
		t.Fatalf("touch with payload failed: %v", err)
	}
	signal, err := store.Touch(context.Background(), "tenant-a", "TASKS_CHANGED", nil, now.Add(time.Second))
	if err != nil {
		t.Fatalf("touch without payload failed: %v", err)
	}
	if string(signal.Payload) != `{"taskId":"t-1"}` {
		t.Fatalf("payload = %s, want previous payload retained", signal.Payload)
	}
}

func TestReadSinceFiltersTenantKindAndTime(t *testing.T) {
	store := NewStore()
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

	mustTouch := func(tenantID, kind string, at time.Time) {
		t.Helper()
		if _, err := store.Touch(context.Background(), tenantID, kind, nil, at); err != nil {
			t.Fatalf("touch %s/%s failed: %v", tenantID, kind, err)
		}
	}
	mustTouch("tenant-a", "TASKS_CHANGED", base)
	mustTouch("tenant-a", "CASES_CHANGED", base.Add(2*time.Minute))
	mustTouch("tenant-a", "UPLOADS_CHANGED", base.Add(3*time.Minute))
	mustTouch("tenant-b", "TASKS_CHANGED", base.Add(4*time.Minute))

	rows, err := store.ReadSince(context.Background(), "tenant-a", "", base.Add(time.Minute))
	if err != nil {
		t.Fatalf("read since failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Kind != "CASES_CHANGED" || rows[1].Kind != "UPLOADS_CHANGED" {
		t.Fatalf("rows out of order: %s then %s", rows[0].Kind, rows[1].Kind)
	}
	for _, row := range rows {
		if row.TenantID != "tenant-a" {
			t.Fatalf("foreign tenant row leaked: %+v", row)
		}
	}

	rows, err = store.ReadSince(context.Background(), "tenant-a", "CASES_CHANGED", time.Time{})
	if err != nil {
		t.Fatalf("kind-filtered read failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Kind != "CASES_CHANGED" {
		t.Fatalf("kind filter returned %+v", rows)
	}
}
