package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"lawdesk/contexts/realtime-signals/signal-service/domain/entities"
)

// Store is an in-memory signal repository for tests and local development.
// The store lock makes Touch a single critical section, matching the atomic
// upsert the Postgres adapter gets from ON CONFLICT.
type Store struct {
	mu      sync.Mutex
	signals map[string]entities.TenantSignal
}

func NewStore() *Store {
	return &Store{signals: make(map[string]entities.TenantSignal)}
}

func signalKey(tenantID, kind string) string {
	return tenantID + "\x1f" + kind
}

func (s *Store) Touch(_ context.Context, tenantID, kind string, payload json.RawMessage, now time.Time) (entities.TenantSignal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := signalKey(tenantID, kind)
	signal, ok := s.signals[key]
	if !ok {
		signal = entities.TenantSignal{TenantID: tenantID, Kind: kind}
	}
	signal.Version++
	if now.After(signal.UpdatedAt) {
		signal.UpdatedAt = now
	}
	if payload != nil {
		signal.Payload = append(json.RawMessage(nil), payload...)
	}
	s.signals[key] = signal
	return signal, nil
}

func (s *Store) ReadSince(_ context.Context, tenantID, kind string, since time.Time) ([]entities.TenantSignal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []entities.TenantSignal
	for _, signal := range s.signals {
		if signal.TenantID != tenantID {
			continue
		}
		if kind != "" && signal.Kind != kind {
			continue
		}
		if !signal.UpdatedAt.After(since) {
			continue
		}
		rows = append(rows, signal)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].UpdatedAt.Equal(rows[j].UpdatedAt) {
			return rows[i].UpdatedAt.Before(rows[j].UpdatedAt)
		}
		return rows[i].Kind < rows[j].Kind
	})
	return rows, nil
}

func (s *Store) Get(_ context.Context, tenantID, kind string) (entities.TenantSignal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	signal, ok := s.signals[signalKey(tenantID, kind)]
	return signal, ok, nil
}
