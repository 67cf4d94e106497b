package ports

import (
	"context"

	"github.com/gigmates/gigmates/internal/core/model"
)

// ConnectionEventHandler handles incoming ConnectionEvents.
type ConnectionEventHandler interface {
	// Handle will receive an incoming connection event and handle it.
	Handle(ctx context.Context, event model.ConnectionEvent) error
}
