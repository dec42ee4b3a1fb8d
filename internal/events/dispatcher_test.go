package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 8)

	var mu sync.Mutex
	var got []Event
	done := make(chan struct{})
	d.Subscribe(EventTicketCreated, func(_ context.Context, ev Event) error {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		close(done)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.(Runner).Run(ctx)

	require.NoError(t, d.Publish(ctx, Event{Type: EventTicketCreated, TicketID: "t1"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("event never delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].TicketID)
	assert.NotEmpty(t, got[0].ID)
}

func TestHandlerErrorIsSwallowed(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 8)

	delivered := make(chan EventType, 2)
	d.Subscribe(EventTicketAssigned, func(_ context.Context, ev Event) error {
		delivered <- ev.Type
		return errors.New("smtp down")
	})
	d.Subscribe(EventTicketAssigned, func(_ context.Context, ev Event) error {
		delivered <- ev.Type
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.(Runner).Run(ctx)

	require.NoError(t, d.Publish(ctx, Event{Type: EventTicketAssigned, TicketID: "t1"}))

	// both handlers run despite the first one failing
	for i := 0; i < 2; i++ {
		select {
		case <-delivered:
		case <-time.After(2 * time.Second):
			t.Fatal("handler not invoked")
		}
	}
}

func TestPublishNeverBlocksWhenQueueFull(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 1)

	// no Run loop draining; second publish hits a full queue and must return
	ctx := context.Background()
	require.NoError(t, d.Publish(ctx, Event{Type: EventTicketCreated, TicketID: "a"}))

	finished := make(chan struct{})
	go func() {
		_ = d.Publish(ctx, Event{Type: EventTicketCreated, TicketID: "b"})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}
