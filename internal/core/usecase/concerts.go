package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gigmates/gigmates/internal/core/ports"
)

// DefaultConcertQuery is the search issued when the caller provides none.
const DefaultConcertQuery = "Concerts in Austin"

// defaultMaxConcerts caps the cleaned listing when the caller provides no cap.
const defaultMaxConcerts = 20

// fallbackImageURL replaces event thumbnails that are missing or unusable.
const fallbackImageURL = "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=800"

// musicKeywords suggest a music/concert event.
var musicKeywords = []string{
	"concert", "live music", "tour", "band", "singer", "artist", "music",
	"acoustic", "rock", "pop", "country", "jazz", "indie", "folk", "r&b",
	"hip-hop", "hip hop", "electronic", "edm", "blues", "metal", "punk",
	"nightclub", "venue", "tickets", "song",
}

// nonMusicKeywords suggest an event that only looks like a concert.
var nonMusicKeywords = []string{
	"comedy", "murder mystery", "dinner show", "theatre", "theater",
	"ballet", "nutcracker", "market at", "festival",
}

// ConcertServiceArgs contains the mandatory arguments for the ConcertService.
type ConcertServiceArgs struct {
	// Events is the event-listing provider port.
	Events ports.EventProvider
}

// NewConcertService creates a new ConcertService.
func NewConcertService(args ConcertServiceArgs) *ConcertService {
	return &ConcertService{events: args.Events}
}

// ConcertService turns raw provider events into a cleaned concert listing:
// music events only, normalized images, extracted prices. This is glue around
// the core, not part of the scored model.
type ConcertService struct {
	events ports.EventProvider
}

// Upcoming fetches and cleans the upcoming events for the query.
func (s *ConcertService) Upcoming(ctx context.Context, args model.UpcomingConcertsArgs) (*model.UpcomingConcertsResponse, error) {
	query := args.Query
	if query == "" {
		query = DefaultConcertQuery
	}
	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxConcerts
	}

	// fetch a wider window than requested since the music filter discards
	// some results
	raws, err := s.events.FetchUpcomingEvents(ctx, query, maxResults*2)
	if err != nil {
		return nil, fmt.Errorf("fetching events for %q: %w", query, errors.Join(model.ErrUpstream, err))
	}

	concerts := make([]model.Concert, 0, maxResults)
	for _, raw := range raws {
		if !isMusicEvent(raw) {
			continue
		}
		concerts = append(concerts, cleanEvent(raw))
		if len(concerts) == maxResults {
			break
		}
	}

	return &model.UpcomingConcertsResponse{Concerts: concerts}, nil
}

// isMusicEvent applies the keyword filter: any non-music keyword excludes the
// event, otherwise any music keyword includes it.
func isMusicEvent(raw model.RawEvent) bool {
	text := strings.ToLower(raw.Title + " " + raw.Description)
	for _, bad := range nonMusicKeywords {
		if strings.Contains(text, bad) {
			return false
		}
	}
	for _, good := range musicKeywords {
		if strings.Contains(text, good) {
			return true
		}
	}
	return false
}

// cleanEvent turns one raw provider record into a concert-like object.
func cleanEvent(raw model.RawEvent) model.Concert {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		title = "Concert"
	}

	image := normalizeImageURL(raw.Thumbnail)
	if image == "" {
		image = normalizeImageURL(raw.Image)
	}
	if image == "" {
		image = fallbackImageURL
	}

	venue := strings.TrimSpace(raw.Venue.Name)
	if venue == "" {
		venue = "Austin, TX"
	}

	return model.Concert{
		ID:          raw.EventID,
		Name:        title,
		Artist:      title,
		Venue:       venue,
		Date:        raw.Date.StartDate,
		ImageURL:    image,
		Genre:       "Concert",
		PriceRange:  extractPrice(raw),
		Link:        strings.TrimSpace(raw.Link),
		Description: strings.TrimSpace(raw.Description),
	}
}

// normalizeImageURL returns the value when it is a plausible http(s) image
// URL, empty otherwise. Data URIs and absurdly long values are rejected.
func normalizeImageURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > 2000 {
		return ""
	}
	if strings.HasPrefix(value, "data:") || strings.HasPrefix(value, "base64") {
		return ""
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return ""
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ""
	}
	return value
}

// extractPrice grabs the first ticket price found.
func extractPrice(raw model.RawEvent) string {
	if len(raw.TicketInfo) == 0 {
		return "See tickets"
	}
	if price := strings.TrimSpace(raw.TicketInfo[0].Price); price != "" {
		return price
	}
	return "Check Link"
}
