package usecase

import (
	"context"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
)

// fakeProfileStore is a function-field implementation of ports.ProfileStore.
type fakeProfileStore struct {
	getProfile          func(ctx context.Context, email string) (*model.UserProfile, error)
	upsertProfile       func(ctx context.Context, profile *model.UserProfile) error
	setMusicPreferences func(ctx context.Context, email string, prefs model.MusicPreferences) error
	addJoinedConcert    func(ctx context.Context, email, concertID string) error
	listProfiles        func(ctx context.Context) ([]model.UserProfile, error)
}

func (f *fakeProfileStore) GetProfile(ctx context.Context, email string) (*model.UserProfile, error) {
	if f.getProfile == nil {
		return nil, model.ErrNotFound
	}
	return f.getProfile(ctx, email)
}

func (f *fakeProfileStore) UpsertProfile(ctx context.Context, profile *model.UserProfile) error {
	if f.upsertProfile == nil {
		return nil
	}
	return f.upsertProfile(ctx, profile)
}

func (f *fakeProfileStore) SetMusicPreferences(ctx context.Context, email string, prefs model.MusicPreferences) error {
	if f.setMusicPreferences == nil {
		return nil
	}
	return f.setMusicPreferences(ctx, email, prefs)
}

func (f *fakeProfileStore) AddJoinedConcert(ctx context.Context, email, concertID string) error {
	if f.addJoinedConcert == nil {
		return nil
	}
	return f.addJoinedConcert(ctx, email, concertID)
}

func (f *fakeProfileStore) ListProfiles(ctx context.Context) ([]model.UserProfile, error) {
	if f.listProfiles == nil {
		return nil, nil
	}
	return f.listProfiles(ctx)
}

// fakeRoomStore is a function-field implementation of ports.RoomStore.
type fakeRoomStore struct {
	getRoom       func(ctx context.Context, concertID string) (*model.Room, error)
	addMember     func(ctx context.Context, concertID, concertName, email string, at time.Time) error
	appendMessage func(ctx context.Context, msg *model.RoomMessage) error
	listMessages  func(ctx context.Context, concertID string) ([]model.RoomMessage, error)
}

func (f *fakeRoomStore) GetRoom(ctx context.Context, concertID string) (*model.Room, error) {
	if f.getRoom == nil {
		return nil, model.ErrNotFound
	}
	return f.getRoom(ctx, concertID)
}

func (f *fakeRoomStore) AddMember(ctx context.Context, concertID, concertName, email string, at time.Time) error {
	if f.addMember == nil {
		return nil
	}
	return f.addMember(ctx, concertID, concertName, email, at)
}

func (f *fakeRoomStore) AppendMessage(ctx context.Context, msg *model.RoomMessage) error {
	if f.appendMessage == nil {
		return nil
	}
	return f.appendMessage(ctx, msg)
}

func (f *fakeRoomStore) ListMessages(ctx context.Context, concertID string) ([]model.RoomMessage, error) {
	if f.listMessages == nil {
		return nil, nil
	}
	return f.listMessages(ctx, concertID)
}

// fakeConnectionStore is a function-field implementation of
// ports.ConnectionStore.
type fakeConnectionStore struct {
	getConnection          func(ctx context.Context, id string) (*model.Connection, error)
	putConnection          func(ctx context.Context, conn *model.Connection) error
	updateConnectionStatus func(ctx context.Context, id string, status model.ConnectionStatus, at time.Time) (*model.Connection, error)
	listConnections        func(ctx context.Context, email string) ([]model.Connection, error)
}

func (f *fakeConnectionStore) GetConnection(ctx context.Context, id string) (*model.Connection, error) {
	if f.getConnection == nil {
		return nil, model.ErrNotFound
	}
	return f.getConnection(ctx, id)
}

func (f *fakeConnectionStore) PutConnection(ctx context.Context, conn *model.Connection) error {
	if f.putConnection == nil {
		return nil
	}
	return f.putConnection(ctx, conn)
}

func (f *fakeConnectionStore) UpdateConnectionStatus(ctx context.Context, id string, status model.ConnectionStatus, at time.Time) (*model.Connection, error) {
	if f.updateConnectionStatus == nil {
		return nil, model.ErrNotFound
	}
	return f.updateConnectionStatus(ctx, id, status, at)
}

func (f *fakeConnectionStore) ListConnections(ctx context.Context, email string) ([]model.Connection, error) {
	if f.listConnections == nil {
		return nil, nil
	}
	return f.listConnections(ctx, email)
}

// fakeTasteProvider is a function-field implementation of ports.TasteProvider.
type fakeTasteProvider struct {
	fetchTaste func(ctx context.Context, username string) (*model.TasteProfile, error)
}

func (f *fakeTasteProvider) FetchTaste(ctx context.Context, username string) (*model.TasteProfile, error) {
	if f.fetchTaste == nil {
		return nil, model.ErrUpstream
	}
	return f.fetchTaste(ctx, username)
}

// fakeEventProvider is a function-field implementation of ports.EventProvider.
type fakeEventProvider struct {
	fetchUpcomingEvents func(ctx context.Context, query string, maxResults int) ([]model.RawEvent, error)
}

func (f *fakeEventProvider) FetchUpcomingEvents(ctx context.Context, query string, maxResults int) ([]model.RawEvent, error) {
	if f.fetchUpcomingEvents == nil {
		return nil, nil
	}
	return f.fetchUpcomingEvents(ctx, query, maxResults)
}

// fakeSender records sent events, optionally failing.
type fakeSender struct {
	events    []model.ConnectionEvent
	sendError error
}

func (f *fakeSender) Send(ctx context.Context, event model.ConnectionEvent) error {
	if f.sendError != nil {
		return f.sendError
	}
	f.events = append(f.events, event)
	return nil
}
