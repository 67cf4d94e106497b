package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
)

// DefaultBaseURL is the Last.fm API root.
const DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

const (
	// topArtistsLimit is how many artists a taste sync pulls.
	topArtistsLimit = 30

	// topTagsLimit is how many tags a taste sync pulls. Tags double as genres.
	topTagsLimit = 15

	// artistPeriod is the listening window for the top-artists call.
	artistPeriod = "12month"
)

// ClientArgs are the mandatory arguments for building a Client.
type ClientArgs struct {
	// APIKey is the Last.fm API key.
	APIKey string
}

// ClientOptArgs are the optional arguments for building a Client.
type ClientOptArgs = func(*Client)

// WithBaseURL overrides the API root. Useful for testing.
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

// NewClient creates a new Last.fm client.
func NewClient(args ClientArgs, optArgs ...ClientOptArgs) (*Client, error) {
	if args.APIKey == "" {
		return nil, errors.New("lastfm api key is required")
	}
	c := &Client{
		apiKey:     args.APIKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range optArgs {
		opt(c)
	}
	return c, nil
}

// Client is the Last.fm taste provider. It pulls a user's top artists and top
// tags and flattens them into a taste profile.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// FetchTaste returns the taste profile for a Last.fm username.
func (c *Client) FetchTaste(ctx context.Context, username string) (*model.TasteProfile, error) {
	artists, err := c.fetchTopArtists(ctx, username)
	if err != nil {
		return nil, err
	}
	genres, err := c.fetchTopTags(ctx, username)
	if err != nil {
		return nil, err
	}
	return &model.TasteProfile{Artists: artists, Genres: genres}, nil
}

func (c *Client) fetchTopArtists(ctx context.Context, username string) ([]string, error) {
	var payload topArtistsResponse
	params := url.Values{
		"method": {"user.gettopartists"},
		"period": {artistPeriod},
		"limit":  {fmt.Sprint(topArtistsLimit)},
	}
	if err := c.call(ctx, username, params, &payload); err != nil {
		return nil, fmt.Errorf("fetching top artists for %q: %w", username, err)
	}

	artists := make([]string, 0, len(payload.TopArtists.Artist))
	for _, artist := range payload.TopArtists.Artist {
		if name := strings.TrimSpace(artist.Name); name != "" {
			artists = append(artists, name)
		}
	}
	return artists, nil
}

func (c *Client) fetchTopTags(ctx context.Context, username string) ([]string, error) {
	var payload topTagsResponse
	params := url.Values{
		"method": {"user.gettoptags"},
		"limit":  {fmt.Sprint(topTagsLimit)},
	}
	if err := c.call(ctx, username, params, &payload); err != nil {
		return nil, fmt.Errorf("fetching top tags for %q: %w", username, err)
	}

	genres := make([]string, 0, len(payload.TopTags.Tag))
	for _, tag := range payload.TopTags.Tag {
		if name := strings.TrimSpace(tag.Name); name != "" {
			// tags come back lowercase; titled they read as genres
			genres = append(genres, titleCase(name))
		}
	}
	return genres, nil
}

func (c *Client) call(ctx context.Context, username string, params url.Values, out any) error {
	params.Set("user", username)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lastfm returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding lastfm response: %w", err)
	}
	return nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

type topArtistsResponse struct {
	TopArtists struct {
		Artist []struct {
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"topartists"`
}

type topTagsResponse struct {
	TopTags struct {
		Tag []struct {
			Name string `json:"name"`
		} `json:"tag"`
	} `json:"toptags"`
}
