package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gtm_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
}

func (testEvent) EventName() string { return "test.event" }

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	errA := errors.New("a failed")

	calls := 0
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		calls++
		return errA
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		calls++
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, errA) {
		t.Fatalf("expected joined error to contain errA, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected both handlers to run, got %d", calls)
	}
}

func TestPublishRunsAfterRequestContextCancelled(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var seenCancelled atomic.Bool
	var ran atomic.Int32

	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, _ Event) error {
		time.Sleep(5 * time.Millisecond)
		if ctx.Err() != nil {
			seenCancelled.Store(true)
		}
		ran.Add(1)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, testEvent{BaseEvent: NewBaseEvent()})
	cancel()
	bus.Wait()

	if ran.Load() != 1 {
		t.Fatalf("expected handler to run once, got %d", ran.Load())
	}
	if seenCancelled.Load() {
		t.Fatal("handler context should be detached from the request")
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()
	if err := bus.PublishSync(context.Background(), testEvent{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestHandlerPanicBecomesError(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var after atomic.Int32
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		panic("boom")
	}))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error {
		after.Add(1)
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatal("expected panic to surface as an error")
	}
	if after.Load() != 1 {
		t.Fatal("expected later handlers to still run")
	}

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()
	if after.Load() != 2 {
		t.Fatalf("expected async handler to run despite sibling panic, got %d", after.Load())
	}
}

func TestJourneyEventsCarryNames(t *testing.T) {
	cases := []struct {
		event Event
		want  string
	}{
		{LeadCreated{}, "leads.lead.created"},
		{LeadJourneyChanged{}, "leads.journey.changed"},
		{IntegrationConnectionChanged{}, "integrations.connection.changed"},
	}
	for _, tc := range cases {
		if got := tc.event.EventName(); got != tc.want {
			t.Errorf("EventName() = %q, want %q", got, tc.want)
		}
	}
}
