package model

import (
	"time"
)

// Budget is the enumerated ticket-budget preference of a user. Values outside
// the known set are kept verbatim and degrade to the weakest non-zero
// alignment during scoring.
type Budget string

const (
	// BudgetUnder40 means tickets under 40 dollars.
	BudgetUnder40 Budget = "under40"

	// Budget40To80 means tickets between 40 and 80 dollars.
	Budget40To80 Budget = "40to80"

	// BudgetFlexible means any price is fine. It is also the neutral default
	// when a profile carries no budget at all.
	BudgetFlexible Budget = "flexible"
)

// MusicPreferences is the taste slice of a profile consumed by scoring.
// A taste-sync overwrites it wholesale; manual entries do not survive a sync.
type MusicPreferences struct {
	// Artists the user listens to, most-listened first.
	Artists []string `json:"artists"`

	// Genres the user listens to.
	Genres []string `json:"genres"`
}

// UserProfile is a user document. The email is the stable identifier,
// case-normalized to lowercase and trimmed.
type UserProfile struct {
	// Email identifies the user.
	Email string `json:"email"`

	// Name is the display name.
	Name string `json:"name"`

	// Verified is derived from the email domain suffix. It is recomputed on
	// every write, never taken from the caller.
	Verified bool `json:"verified"`

	// MusicPreferences is the synced or manually entered taste.
	MusicPreferences MusicPreferences `json:"music_preferences"`

	// Budget is the ticket-budget preference.
	Budget Budget `json:"budget"`

	// ConcertVibes are free-text tags describing how the user likes to attend.
	ConcertVibes []string `json:"concert_vibes"`

	// ProfileImage is an avatar URL, possibly empty.
	ProfileImage string `json:"profile_image"`

	// JoinedConcerts are the concert ids whose rooms the user joined.
	JoinedConcerts []string `json:"joined_concerts,omitempty"`

	// CreatedAt is when the profile document was first written.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the profile document was last merged into.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// TasteProfile is what a listening-history provider returns for a username.
type TasteProfile struct {
	// Artists are the provider's top artists for the user.
	Artists []string `json:"artists"`

	// Genres are the provider's top tags, treated as genres.
	Genres []string `json:"genres"`
}

// Room is the membership ledger of one concert.
type Room struct {
	// ConcertID identifies the concert the room belongs to.
	ConcertID string `json:"concert_id"`

	// ConcertName is the display name recorded on first join.
	ConcertName string `json:"concert_name"`

	// Members is the set of attendee emails. Joins are set-unions, so the
	// slice carries no duplicates.
	Members []string `json:"members"`

	// LastActivity is bumped on every join and message.
	LastActivity time.Time `json:"last_activity"`
}

// RoomMessage is one chat message in a concert room. Messages are append-only
// and ordered by CreatedAt ascending.
type RoomMessage struct {
	// ID is a server-assigned message id.
	ID string `json:"id"`

	// ConcertID scopes the message to one room.
	ConcertID string `json:"concert_id"`

	// SenderEmail identifies the sender.
	SenderEmail string `json:"sender_email"`

	// SenderName is the sender's display name snapshotted at send time.
	SenderName string `json:"sender_name"`

	// SenderImage is the sender's avatar snapshotted at send time.
	SenderImage string `json:"sender_image,omitempty"`

	// Text is the message content.
	Text string `json:"text"`

	// CreatedAt is the server-assigned timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// ConnectionStatus is the lifecycle state of a pairwise connection.
type ConnectionStatus string

const (
	// ConnectionStatusNone means no record exists for the pair.
	ConnectionStatusNone ConnectionStatus = "none"

	// ConnectionStatusPending means one side requested and the other has not
	// accepted yet.
	ConnectionStatusPending ConnectionStatus = "pending"

	// ConnectionStatusAccepted is terminal.
	ConnectionStatusAccepted ConnectionStatus = "accepted"
)

// Connection is the single symmetric record for an unordered pair of users in
// one concert context. Its ID is canonical: the same record is reached
// regardless of which side initiated.
type Connection struct {
	// ID is the canonical pair id: concertID + "_" + min(a,b) + "_" + max(a,b).
	ID string `json:"id"`

	// ConcertID is the concert context of the connection.
	ConcertID string `json:"concert_id"`

	// Requester is the side that initiated. Retained for audit after acceptance.
	Requester string `json:"requester"`

	// Recipient is the side that was asked.
	Recipient string `json:"recipient"`

	// Participants are both emails, sorted lexicographically.
	Participants []string `json:"participants"`

	// Status is the lifecycle state.
	Status ConnectionStatus `json:"status"`

	// CreatedAt is when the request was first made.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the record last changed state.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Match is one ranked candidate in a match listing, with the denormalized
// display fields the roster UI needs.
type Match struct {
	// Email identifies the candidate.
	Email string `json:"email"`

	// Name is the candidate display name.
	Name string `json:"name"`

	// ProfileImage is the candidate avatar URL.
	ProfileImage string `json:"profile_image,omitempty"`

	// Verified mirrors the candidate's verification flag.
	Verified bool `json:"verified"`

	// Score is the compatibility score against the requester, in [0,100].
	Score int `json:"score"`

	// SharedArtists are the case-insensitively intersected artists, in the
	// requester's casing and order.
	SharedArtists []string `json:"shared_artists"`
}

// Concert is a cleaned upcoming event from the listing provider.
type Concert struct {
	// ID is the provider event id.
	ID string `json:"id"`

	// Name is the event title.
	Name string `json:"name"`

	// Artist duplicates the title; the listing provider has no artist field.
	Artist string `json:"artist"`

	// Venue is the venue display name.
	Venue string `json:"venue"`

	// Date is the provider's start date, verbatim.
	Date string `json:"date"`

	// ImageURL is a normalized thumbnail, falling back to a stock image.
	ImageURL string `json:"image_url"`

	// Genre is a coarse label; the provider has no real genre taxonomy.
	Genre string `json:"genre"`

	// PriceRange is the first ticket price found, or a placeholder.
	PriceRange string `json:"price_range"`

	// Link is the ticket link.
	Link string `json:"link"`

	// Description is the provider description.
	Description string `json:"description"`
}

// RawEvent is an uncleaned event record as the listing provider returns it.
type RawEvent struct {
	// EventID is the provider id.
	EventID string `json:"event_id"`

	// Title is the raw title.
	Title string `json:"title"`

	// Description is the raw description.
	Description string `json:"description"`

	// Date holds the provider date block.
	Date RawEventDate `json:"date"`

	// Venue holds the provider venue block.
	Venue RawEventVenue `json:"venue"`

	// Thumbnail is the raw thumbnail value.
	Thumbnail string `json:"thumbnail"`

	// Image is a secondary raw image value.
	Image string `json:"image"`

	// TicketInfo are the provider ticket entries.
	TicketInfo []RawTicketInfo `json:"ticket_info"`

	// Link is the raw outbound link.
	Link string `json:"link"`
}

// RawEventDate is the provider date block.
type RawEventDate struct {
	// StartDate is a human-formatted start date like "Dec 12".
	StartDate string `json:"start_date"`

	// When is the provider's full when-string.
	When string `json:"when"`
}

// RawEventVenue is the provider venue block.
type RawEventVenue struct {
	// Name is the venue name.
	Name string `json:"name"`
}

// RawTicketInfo is one provider ticket entry.
type RawTicketInfo struct {
	// Price is a display price like "$45".
	Price string `json:"price"`

	// Link is the ticket link.
	Link string `json:"link"`
}

// ConnectionEvent collects a connection change. Before is nil for the creating
// request; an event is only emitted when the stored state actually changed.
type ConnectionEvent struct {
	// ID is the event id.
	ID string `json:"id"`

	// Before is the record state before the change. Nil on creation.
	Before *Connection `json:"before"`

	// After is the record state after the change.
	After *Connection `json:"after"`
}
