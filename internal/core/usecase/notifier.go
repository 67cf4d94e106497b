package usecase

import (
	"context"
	"fmt"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gigmates/gigmates/internal/core/ports"
)

// NewNotifier builds a new notifier.
func NewNotifier(sender ports.Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Notifier adapts internal connection events to the public notification feed.
// It forwards real state transitions and drops events that carry no change.
type Notifier struct {
	sender ports.Sender
}

// Handle filters and forwards one connection event.
func (n *Notifier) Handle(ctx context.Context, event model.ConnectionEvent) error {
	// idempotent re-requests and replays produce events without a transition
	if eventIsNoop(event) {
		return nil
	}

	if err := n.sender.Send(ctx, event); err != nil {
		return fmt.Errorf("error sending connection event ID [%s]: %w", event.ID, err)
	}

	return nil
}

func eventIsNoop(event model.ConnectionEvent) bool {
	if event.After == nil {
		return true
	}
	if event.Before == nil {
		// creation is always a transition
		return false
	}
	return event.Before.Status == event.After.Status
}
