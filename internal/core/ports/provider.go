package ports

import (
	"context"

	"github.com/gigmates/gigmates/internal/core/model"
)

// TasteProvider fetches a taste profile from an external listening-history
// provider. Scraping, retry and parsing details live behind this port.
type TasteProvider interface {
	// FetchTaste returns the taste profile for a provider username. A failure
	// of the provider surfaces as an error; the core does not retry.
	FetchTaste(ctx context.Context, username string) (*model.TasteProfile, error)
}

// EventProvider fetches raw upcoming-event records for a search query.
// Cleaning and music filtering happen in the consuming use-case.
type EventProvider interface {
	// FetchUpcomingEvents returns at most maxResults raw event records.
	FetchUpcomingEvents(ctx context.Context, query string, maxResults int) ([]model.RawEvent, error)
}
