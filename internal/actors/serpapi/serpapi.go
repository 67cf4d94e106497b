package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
)

// DefaultBaseURL is the SerpAPI search endpoint.
const DefaultBaseURL = "https://serpapi.com/search.json"

// ClientArgs are the mandatory arguments for building a Client.
type ClientArgs struct {
	// APIKey is the SerpAPI key.
	APIKey string
}

// ClientOptArgs are the optional arguments for building a Client.
type ClientOptArgs = func(*Client)

// WithBaseURL overrides the search endpoint. Useful for testing.
func WithBaseURL(baseURL string) ClientOptArgs {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying http client.
func WithHTTPClient(httpClient *http.Client) ClientOptArgs {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new SerpAPI client.
func NewClient(args ClientArgs, optArgs ...ClientOptArgs) (*Client, error) {
	if args.APIKey == "" {
		return nil, errors.New("serpapi api key is required")
	}
	c := &Client{
		apiKey:     args.APIKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range optArgs {
		opt(c)
	}
	return c, nil
}

// Client is the event-listing provider backed by SerpAPI's google_events
// engine. It returns raw records; cleaning and filtering happen in the core.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// FetchUpcomingEvents returns up to maxResults raw events for the query.
func (c *Client) FetchUpcomingEvents(ctx context.Context, query string, maxResults int) ([]model.RawEvent, error) {
	params := url.Values{
		"engine":  {"google_events"},
		"q":       {query},
		"api_key": {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling serpapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi returned status %d", resp.StatusCode)
	}

	var payload eventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding serpapi response: %w", err)
	}

	events := make([]model.RawEvent, 0, len(payload.EventsResults))
	for i, raw := range payload.EventsResults {
		if maxResults > 0 && len(events) == maxResults {
			break
		}
		eventID := raw.Link
		if eventID == "" {
			eventID = fmt.Sprintf("%s-%d", query, i)
		}
		tickets := make([]model.RawTicketInfo, 0, len(raw.TicketInfo))
		for _, ticket := range raw.TicketInfo {
			tickets = append(tickets, model.RawTicketInfo{Price: ticket.Price, Link: ticket.Link})
		}
		events = append(events, model.RawEvent{
			EventID:     eventID,
			Title:       raw.Title,
			Description: raw.Description,
			Date: model.RawEventDate{
				StartDate: raw.Date.StartDate,
				When:      raw.Date.When,
			},
			Venue:      model.RawEventVenue{Name: raw.Venue.Name},
			Thumbnail:  raw.Thumbnail,
			Image:      raw.Image,
			TicketInfo: tickets,
			Link:       raw.Link,
		})
	}
	return events, nil
}

type eventsResponse struct {
	EventsResults []eventResult `json:"events_results"`
}

type eventResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        struct {
		StartDate string `json:"start_date"`
		When      string `json:"when"`
	} `json:"date"`
	Venue struct {
		Name string `json:"name"`
	} `json:"venue"`
	Thumbnail  string `json:"thumbnail"`
	Image      string `json:"image"`
	TicketInfo []struct {
		Price string `json:"price"`
		Link  string `json:"link"`
	} `json:"ticket_info"`
	Link string `json:"link"`
}
