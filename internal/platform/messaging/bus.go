package messaging

import (
	"context"
	"log/slog"
	"sync"

	"lawdesk/contexts/realtime-signals/signal-service/ports"
	"lawdesk/internal/platform/metrics"
	"lawdesk/internal/shared/events"

	"github.com/google/uuid"
)

// Bus is the in-process signal fan-out. One instance is constructed at
// process start and injected into handlers; it is never reset at runtime.
//
// Channels are keyed by the exact (tenant, kind) pair, so a publish can only
// reach subscribers registered for that pair; that is the tenant isolation
// boundary. The bus holds no history; the durable signal store supplies the
// catch-up path, which is also why a slow subscriber's overflow is dropped
// rather than buffered without bound.
type Bus struct {
	mu       sync.RWMutex
	channels map[string]*channel
	logger   *slog.Logger
}

type channel struct {
	tenantID string
	kind     string

	// publishMu serializes publishes on this channel so every subscriber
	// observes the same relative event order. Scoped per channel: tenant A
	// never contends with tenant B.
	publishMu sync.Mutex

	mu   sync.Mutex
	subs map[string]*subscriber
}

type subscriber struct {
	id      string
	events  chan events.SignalEnvelope
	done    chan struct{}
	onEvent func(events.SignalEnvelope)
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		channels: make(map[string]*channel),
		logger:   logger,
	}
}

// channelKey must never be satisfiable by substring or prefix matches across
// tenants; the separator byte cannot appear in ids or kinds.
func channelKey(tenantID, kind string) string {
	return tenantID + "\x1f" + kind
}

// Publish delivers event to every subscriber registered for the exact
// (tenant, kind) pair at publish time. Never blocks on a slow subscriber.
func (b *Bus) Publish(ctx context.Context, event events.SignalEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	ch := b.channels[channelKey(event.TenantID, event.Kind)]
	b.mu.RUnlock()

	metrics.SignalsPublished.WithLabelValues(event.Kind).Inc()
	if ch == nil {
		return nil
	}

	ch.publishMu.Lock()
	defer ch.publishMu.Unlock()

	ch.mu.Lock()
	subs := make([]*subscriber, 0, len(ch.subs))
	for _, sub := range ch.subs {
		subs = append(subs, sub)
	}
	ch.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.events <- event:
			metrics.SignalsDelivered.WithLabelValues(event.Kind).Inc()
		case <-sub.done:
		default:
			metrics.SignalsDropped.WithLabelValues(event.Kind).Inc()
			b.logger.Warn("dropping signal for slow subscriber",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"tenant_id", event.TenantID,
				"kind", event.Kind,
				"version", event.Version,
				"subscriber_id", sub.id,
			)
		}
	}
	return nil
}

// Subscribe registers onEvent for the exact pair and returns an idempotent
// unsubscribe function. Delivery runs on a dedicated goroutine per subscriber
// so one subscriber's handler can never stall another's.
func (b *Bus) Subscribe(tenantID, kind string, onEvent func(events.SignalEnvelope)) (func(), error) {
	key := channelKey(tenantID, kind)

	b.mu.Lock()
	ch, ok := b.channels[key]
	if !ok {
		ch = &channel{
			tenantID: tenantID,
			kind:     kind,
			subs:     make(map[string]*subscriber),
		}
		b.channels[key] = ch
	}
	b.mu.Unlock()

	sub := &subscriber{
		id:      uuid.NewString(),
		events:  make(chan events.SignalEnvelope, 128),
		done:    make(chan struct{}),
		onEvent: onEvent,
	}

	ch.mu.Lock()
	ch.subs[sub.id] = sub
	ch.mu.Unlock()

	go sub.deliver()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			ch.mu.Lock()
			delete(ch.subs, sub.id)
			ch.mu.Unlock()
			close(sub.done)
		})
	}
	return unsubscribe, nil
}

func (s *subscriber) deliver() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.onEvent(event)
		}
	}
}

// Diagnostics reports live channels with at least one subscriber.
func (b *Bus) Diagnostics() []ports.ChannelDiagnostics {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []ports.ChannelDiagnostics
	for _, ch := range b.channels {
		ch.mu.Lock()
		count := len(ch.subs)
		ch.mu.Unlock()
		if count == 0 {
			continue
		}
		out = append(out, ports.ChannelDiagnostics{
			TenantID:    ch.tenantID,
			Kind:        ch.kind,
			Subscribers: count,
		})
	}
	return out
}
