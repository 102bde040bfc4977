package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcher_PublishReachesSubscribers(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventUserRegistered, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})
	d.Subscribe(EventUserSignedIn, func(_ context.Context, event Event) error {
		t.Fatalf("unexpected handler invocation for %s", event.Type)
		return nil
	})

	event := Event{ID: "e1", Type: EventUserRegistered, UserID: "u1"}
	if err := d.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	if len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("handler not invoked as expected: %+v", got)
	}
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()

	second := false
	d.Subscribe(EventTodoCreated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTodoCreated, func(context.Context, Event) error {
		second = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTodoCreated}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if !second {
		t.Fatalf("second handler skipped after first handler error")
	}
}
