package ports

import (
	"context"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
)

// ProfileStore is the persistence port for user profile documents.
type ProfileStore interface {
	// GetProfile returns the profile for the given (normalized) email.
	// It returns model.ErrNotFound when no document exists.
	GetProfile(ctx context.Context, email string) (*model.UserProfile, error)

	// UpsertProfile merges the non-zero fields of the profile into the stored
	// document, creating it when absent. MusicPreferences are only written
	// when non-empty; CreatedAt is only set on first insert.
	UpsertProfile(ctx context.Context, profile *model.UserProfile) error

	// SetMusicPreferences overwrites the stored preferences wholesale. This is
	// the taste-sync write: manual entries are superseded.
	SetMusicPreferences(ctx context.Context, email string, prefs model.MusicPreferences) error

	// AddJoinedConcert set-unions the concert id into the user's joined list,
	// creating the user document when it does not exist yet.
	AddJoinedConcert(ctx context.Context, email, concertID string) error

	// ListProfiles returns every known profile, unordered.
	ListProfiles(ctx context.Context) ([]model.UserProfile, error)
}

// RoomStore is the persistence port for room membership and chat.
type RoomStore interface {
	// GetRoom returns the room document for a concert id. It returns
	// model.ErrNotFound when the concert has no room yet.
	GetRoom(ctx context.Context, concertID string) (*model.Room, error)

	// AddMember set-unions the email into the room's member set, creating the
	// room when absent and recording the display name and last activity.
	// Re-adding an existing member must leave the set unchanged.
	AddMember(ctx context.Context, concertID, concertName, email string, at time.Time) error

	// AppendMessage appends one message to the room's chat.
	AppendMessage(ctx context.Context, msg *model.RoomMessage) error

	// ListMessages returns the room's messages ordered by time ascending.
	// An unknown room yields an empty list.
	ListMessages(ctx context.Context, concertID string) ([]model.RoomMessage, error)
}

// ConnectionStore is the persistence port for pairwise connection records.
type ConnectionStore interface {
	// GetConnection returns the record for a canonical id, or
	// model.ErrNotFound when absent.
	GetConnection(ctx context.Context, id string) (*model.Connection, error)

	// PutConnection stores a new connection record.
	PutConnection(ctx context.Context, conn *model.Connection) error

	// UpdateConnectionStatus sets the status of an existing record and returns
	// the updated record. It returns model.ErrNotFound when the id is unknown.
	UpdateConnectionStatus(ctx context.Context, id string, status model.ConnectionStatus, at time.Time) (*model.Connection, error)

	// ListConnections returns every record in which the email participates.
	ListConnections(ctx context.Context, email string) ([]model.Connection, error)
}
