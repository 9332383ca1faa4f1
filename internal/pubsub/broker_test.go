package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type change struct {
	Kind string
	Name string
}

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
	return Event[T]{}
}

func TestBroker_DeliversToEverySubscriber(t *testing.T) {
	broker := NewBroker[change]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subs := []<-chan Event[change]{broker.Subscribe(ctx), broker.Subscribe(ctx)}
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(CreatedEvent, change{Kind: "field", Name: "Step Field"})

	for _, ch := range subs {
		event := receive(t, ch)
		require.Equal(t, CreatedEvent, event.Type)
		require.Equal(t, "Step Field", event.Payload.Name)
		require.False(t, event.Timestamp.IsZero())
	}
}

func TestBroker_CancelClosesSubscription(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-ch
	require.False(t, ok)

	// Publishing with no subscribers is fine.
	broker.Publish(LogEvent, "ignored")
}

func TestBroker_FullBufferDrops(t *testing.T) {
	broker := NewBrokerWithBuffer[int](2)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	for i := range 5 {
		broker.Publish(UpdatedEvent, i)
	}
	require.Equal(t, uint64(3), broker.Dropped())

	require.Equal(t, 0, receive(t, ch).Payload)
	require.Equal(t, 1, receive(t, ch).Payload)
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Zero(t, broker.SubscriberCount())

	late := broker.Subscribe(context.Background())
	_, ok = <-late
	require.False(t, ok, "subscribing after close yields a closed channel")

	broker.Publish(DeletedEvent, "after close")
}

func TestBroker_CancelAfterClose(t *testing.T) {
	broker := NewBroker[string]()
	ctx, cancel := context.WithCancel(context.Background())
	broker.Subscribe(ctx)
	broker.Close()
	cancel() // must not close the channel twice
	time.Sleep(10 * time.Millisecond)
}

func TestListenCmd(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)

	broker.Publish(LogEvent, "line")
	msg := ListenCmd(ctx, ch)()
	event, ok := msg.(Event[string])
	require.True(t, ok)
	require.Equal(t, "line", event.Payload)

	cancel()
	require.Nil(t, ListenCmd(ctx, ch)())
}

func TestContinuousListener_Listen(t *testing.T) {
	broker := NewBroker[change]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	listener := NewContinuousListener[change](ctx, broker)

	broker.Publish(CreatedEvent, change{Name: "a"})
	broker.Publish(DeletedEvent, change{Name: "a"})

	first, ok := listener.Listen()().(Event[change])
	require.True(t, ok)
	require.Equal(t, CreatedEvent, first.Type)

	second, ok := listener.Listen()().(Event[change])
	require.True(t, ok)
	require.Equal(t, DeletedEvent, second.Type)

	broker.Close()
	require.Nil(t, listener.Listen()())
}
