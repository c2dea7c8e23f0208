package messaging

import (
	"context"
	"sync"
	"testing"
	"time"

	"lawdesk/internal/shared/events"
)

func TestBusPublishReachesOnlyMatchingChannel(t *testing.T) {
	bus := NewBus(nil)

	tenantA := make(chan events.SignalEnvelope, 8)
	unsubscribeA, err := bus.Subscribe("tenant-a", "TASKS_CHANGED", func(ev events.SignalEnvelope) {
		tenantA <- ev
	})
	if err != nil {
		t.Fatalf("subscribe tenant-a failed: %v", err)
	}
	defer unsubscribeA()

	tenantB := make(chan events.SignalEnvelope, 8)
	unsubscribeB, err := bus.Subscribe("tenant-b", "TASKS_CHANGED", func(ev events.SignalEnvelope) {
		tenantB <- ev
	})
	if err != nil {
		t.Fatalf("subscribe tenant-b failed: %v", err)
	}
	defer unsubscribeB()

	if err := bus.Publish(context.Background(), envelope("tenant-a", "TASKS_CHANGED", 1)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case ev := <-tenantA:
		if ev.TenantID != "tenant-a" || ev.Version != 1 {
			t.Fatalf("unexpected event delivered: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("tenant-a subscriber never received its event")
	}

	select {
	case ev := <-tenantB:
		t.Fatalf("tenant-b received a tenant-a event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusKindFilterIsExact(t *testing.T) {
	bus := NewBus(nil)

	got := make(chan events.SignalEnvelope, 8)
	unsubscribe, err := bus.Subscribe("tenant-a", "CASES_CHANGED", func(ev events.SignalEnvelope) {
		got <- ev
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer unsubscribe()

	if err := bus.Publish(context.Background(), envelope("tenant-a", "TASKS_CHANGED", 1)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case ev := <-got:
		t.Fatalf("CASES_CHANGED subscriber received %s", ev.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusFanOutDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus(nil)

	const subscribers = 3
	channels := make([]chan events.SignalEnvelope, subscribers)
	for i := range channels {
		channels[i] = make(chan events.SignalEnvelope, 8)
		ch := channels[i]
		unsubscribe, err := bus.Subscribe("tenant-a", "TASKS_CHANGED", func(ev events.SignalEnvelope) {
			ch <- ev
		})
		if err != nil {
			t.Fatalf("subscribe %d failed: %v", i, err)
		}
		defer unsubscribe()
	}

	if err := bus.Publish(context.Background(), envelope("tenant-a", "TASKS_CHANGED", 7)); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	for i, ch := range channels {
		select {
		case ev := <-ch:
			if ev.Version != 7 {
				t.Fatalf("subscriber %d got version %d, want 7", i, ev.Version)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d never received the event", i)
		}
	}
}

func TestBusSubscribersObserveSameOrder(t *testing.T) {
	bus := NewBus(nil)

	const total = 60
	collect := func() (<-chan uint64, func()) {
		out := make(chan uint64, total)
		unsubscribe, err := bus.Subscribe("tenant-a", "TASKS_CHANGED", func(ev events.SignalEnvelope) {
			out <- ev.Version
		})
		if err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}
		return out, unsubscribe
	}

	first, stopFirst := collect()
	second, stopSecond := collect()
	defer stopFirst()
	defer stopSecond()

	var wg sync.WaitGroup
	for g := 0; g < 3; g++ {
		wg.Add(1)
		go func(base uint64) {
			defer wg.Done()
			for i := uint64(0); i < total/3; i++ {
				_ = bus.Publish(context.Background(), envelope("tenant-a", "TASKS_CHANGED", base+i))
			}
		}(uint64(g) * 100)
	}
	wg.Wait()

	drain := func(ch <-chan uint64) []uint64 {
		versions := make([]uint64, 0, total)
		for len(versions) < total {
			select {
			case v := <-ch:
				versions = append(versions, v)
			case <-time.After(time.Second):
				t.Fatalf("drained only %d of %d events", len(versions), total)
			}
		}
		return versions
	}

	firstSeen := drain(first)
	secondSeen := drain(second)
	for i := range firstSeen {
		if firstSeen[i] != secondSeen[i] {
			t.Fatalf("subscribers diverged at index %d: %d vs %d", i, firstSeen[i], secondSeen[i])
		}
	}
}

func TestBusUnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	bus := NewBus(nil)

	got := make(chan events.SignalEnvelope, 8)
	unsubscribe, err := bus.Subscribe("tenant-a", "TASKS_CHANGED", func(ev events.SignalEnvelope) {
		got <- ev
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	unsubscribe()
	unsubscribe()

	if err := bus.Publish(context.Background(), envelope("tenant-a", "TASKS_CHANGED", 1)); err != nil {
		t.Fatalf("publish after unsubscribe failed: %v", err)
	}

	select {
	case ev := <-got:
		t.Fatalf("received event after unsubscribe: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusDiagnosticsCountsLiveSubscribers(t *testing.T) {
	bus := NewBus(nil)

	stopOne, _ := bus.Subscribe("tenant-a", "TASKS_CHANGED", func(events.SignalEnvelope) {})
	stopTwo, _ := bus.Subscribe("tenant-a", "TASKS_CHANGED", func(events.SignalEnvelope) {})
	defer stopTwo()

	reports := bus.Diagnostics()
	if len(reports) != 1 {
		t.Fatalf("expected 1 live channel, got %d", len(reports))
	}
	if reports[0].Subscribers != 2 {
		t.Fatalf("expected 2 subscribers, got %d", reports[0].Subscribers)
	}

	stopOne()
	reports = bus.Diagnostics()
	if len(reports) != 1 || reports[0].Subscribers != 1 {
		t.Fatalf("expected 1 subscriber after unsubscribe, got %+v", reports)
	}
}

func envelope(tenantID, kind string, version uint64) events.SignalEnvelope {
	return events.SignalEnvelope{
		EventID:   "evt-test",
		TenantID:  tenantID,
		Kind:      kind,
		Version:   version,
		UpdatedAt: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}
