package ports

import (
	"context"

	"github.com/gigmates/gigmates/internal/core/model"
)

// Sender is the port for publishing outbound connection events.
type Sender interface {
	// Send sends connection-event data.
	Send(ctx context.Context, event model.ConnectionEvent) error
}
