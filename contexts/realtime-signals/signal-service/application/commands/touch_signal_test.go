package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lawdesk/contexts/realtime-signals/signal-service/adapters/memory"
	"lawdesk/contexts/realtime-signals/signal-service/domain/entities"
	domainerrors "lawdesk/contexts/realtime-signals/signal-service/domain/errors"
	"lawdesk/internal/shared/events"
)

func TestTouchSignalBumpsVersionAndPublishes(t *testing.T) {
	bus := &recordingBus{}
	useCase := TouchSignalUseCase{
		Repo:  memory.NewStore(),
		Bus:   bus,
		Clock: fixedClock{now: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)},
	}

	first, err := useCase.Execute(context.Background(), TouchSignalInput{
		TenantID: "tenant-a",
		Kind:     entities.KindTasksChanged,
		Payload:  json.RawMessage(`{"taskId":"t-1"}`),
	})
	if err != nil {
		t.Fatalf("first touch failed: %v", err)
	}
	if first.Version != 1 {
		t.Fatalf("first version = %d, want 1", first.Version)
	}

	second, err := useCase.Execute(context.Background(), TouchSignalInput{
		TenantID: "tenant-a",
		Kind:     entities.KindTasksChanged,
	})
	if err != nil {
		t.Fatalf("second touch failed: %v", err)
	}
	if second.Version != 2 {
		t.Fatalf("second version = %d, want 2", second.Version)
	}

	if len(bus.published) != 2 {
		t.Fatalf("published %d envelopes, want 2", len(bus.published))
	}
	envelope := bus.published[1]
	if envelope.TenantID != "tenant-a" || envelope.Kind != entities.KindTasksChanged || envelope.Version != 2 {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
	if envelope.EventID == "" {
		t.Fatal("envelope missing event id")
	}
}

func TestTouchSignalValidatesInput(t *testing.T) {
	useCase := TouchSignalUseCase{Repo: memory.NewStore()}

	if _, err := useCase.Execute(context.Background(), TouchSignalInput{TenantID: " ", Kind: entities.KindTasksChanged}); !errors.Is(err, domainerrors.ErrInvalidTenantID) {
		t.Fatalf("blank tenant err = %v", err)
	}
	if _, err := useCase.Execute(context.Background(), TouchSignalInput{TenantID: "tenant-a", Kind: "NOT_A_KIND"}); !errors.Is(err, domainerrors.ErrInvalidKind) {
		t.Fatalf("bad kind err = %v", err)
	}
}

func TestTouchSignalReturnsRepositoryFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	bus := &recordingBus{}
	useCase := TouchSignalUseCase{
		Repo: failingRepo{err: storeErr},
		Bus:  bus,
	}

	_, err := useCase.Execute(context.Background(), TouchSignalInput{
		TenantID: "tenant-a",
		Kind:     entities.KindTasksChanged,
	})
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want repository failure", err)
	}
	if len(bus.published) != 0 {
		t.Fatal("published despite failed durable touch")
	}
}

func TestTouchSignalSwallowsPublishFailure(t *testing.T) {
	useCase := TouchSignalUseCase{
		Repo: memory.NewStore(),
		Bus:  &recordingBus{publishErr: errors.New("bus closed")},
	}

	signal, err := useCase.Execute(context.Background(), TouchSignalInput{
		TenantID: "tenant-a",
		Kind:     entities.KindTasksChanged,
	})
	if err != nil {
		t.Fatalf("touch failed on publish error: %v", err)
	}
	if signal.Version != 1 {
		t.Fatalf("version = %d, want 1", signal.Version)
	}
}

type recordingBus struct {
	published  []events.SignalEnvelope
	publishErr error
}

func (b *recordingBus) Publish(_ context.Context, event events.SignalEnvelope) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, string, func(events.SignalEnvelope)) (func(), error) {
	return func() {}, nil
}

type failingRepo struct {
	err error
}

func (f failingRepo) Touch(context.Context, string, string, json.RawMessage, time.Time) (entities.TenantSignal, error) {
	return entities.TenantSignal{}, f.err
}

func (f failingRepo) ReadSince(context.Context, string, string, time.Time) ([]entities.TenantSignal, error) {
	return nil, f.err
}

func (f failingRepo) Get(context.Context, string, string) (entities.TenantSignal, bool, error) {
	return entities.TenantSignal{}, false, f.err
}

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time { return f.now }
