package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd waits for the next event on ch and returns it as a tea.Msg.
// The command yields nil once ctx is done or ch is closed.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// ContinuousListener keeps one subscription alive across Update calls.
// Re-issue Listen after handling each event.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewContinuousListener subscribes to sub for the lifetime of ctx.
func NewContinuousListener[T any](ctx context.Context, sub Subscriber[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{ctx: ctx, ch: sub.Subscribe(ctx)}
}

// Listen returns a command for the next event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	return ListenCmd(l.ctx, l.ch)
}
