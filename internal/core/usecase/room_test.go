package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomJoin(t *testing.T) {
	t.Run("join unions both the room and the user's list", func(t *testing.T) {
		var addedMember struct {
			concertID, concertName, email string
			at                            time.Time
		}
		var joinedConcert struct{ email, concertID string }

		rooms := &fakeRoomStore{
			addMember: func(ctx context.Context, concertID, concertName, email string, at time.Time) error {
				addedMember.concertID = concertID
				addedMember.concertName = concertName
				addedMember.email = email
				addedMember.at = at
				return nil
			},
		}
		profiles := &fakeProfileStore{
			addJoinedConcert: func(ctx context.Context, email, concertID string) error {
				joinedConcert.email = email
				joinedConcert.concertID = concertID
				return nil
			},
		}
		svc := NewRoomService(RoomServiceArgs{Rooms: rooms, Profiles: profiles}, WithRoomNowFunc(fixedNowFunc))

		err := svc.Join(context.Background(), model.JoinRoomArgs{
			Email:       " Alice@UTexas.EDU ",
			ConcertID:   "c1",
			ConcertName: "Mitski at Moody",
		})
		require.NoError(t, err)

		assert.Equal(t, "c1", addedMember.concertID)
		assert.Equal(t, "Mitski at Moody", addedMember.concertName)
		assert.Equal(t, "alice@utexas.edu", addedMember.email)
		assert.Equal(t, fixedNow, addedMember.at)
		assert.Equal(t, "alice@utexas.edu", joinedConcert.email)
		assert.Equal(t, "c1", joinedConcert.concertID)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := NewRoomService(RoomServiceArgs{Rooms: &fakeRoomStore{}, Profiles: &fakeProfileStore{}})

		err := svc.Join(context.Background(), model.JoinRoomArgs{ConcertID: "c1"})
		assert.ErrorIs(t, err, model.ErrValidation)

		err = svc.Join(context.Background(), model.JoinRoomArgs{Email: "a@utexas.edu"})
		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestRoomIsMember(t *testing.T) {
	rooms := &fakeRoomStore{
		getRoom: func(ctx context.Context, concertID string) (*model.Room, error) {
			if concertID != "c1" {
				return nil, model.ErrNotFound
			}
			return &model.Room{ConcertID: "c1", Members: []string{"alice@utexas.edu"}}, nil
		},
	}
	svc := NewRoomService(RoomServiceArgs{Rooms: rooms, Profiles: &fakeProfileStore{}})

	joined, err := svc.IsMember(context.Background(), "Alice@utexas.edu", "c1")
	require.NoError(t, err)
	assert.True(t, joined)

	joined, err = svc.IsMember(context.Background(), "bob@utexas.edu", "c1")
	require.NoError(t, err)
	assert.False(t, joined)

	joined, err = svc.IsMember(context.Background(), "alice@utexas.edu", "unknown-concert")
	require.NoError(t, err, "an unknown concert is not an error")
	assert.False(t, joined)
}

func TestRoomMembers(t *testing.T) {
	rooms := &fakeRoomStore{
		getRoom: func(ctx context.Context, concertID string) (*model.Room, error) {
			if concertID != "c1" {
				return nil, model.ErrNotFound
			}
			return &model.Room{ConcertID: "c1", Members: []string{"a@utexas.edu", "b@utexas.edu"}}, nil
		},
	}
	svc := NewRoomService(RoomServiceArgs{Rooms: rooms, Profiles: &fakeProfileStore{}})

	members, err := svc.Members(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@utexas.edu", "b@utexas.edu"}, members)

	members, err = svc.Members(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestRoomPostMessage(t *testing.T) {
	t.Run("message carries a sender snapshot and server-assigned fields", func(t *testing.T) {
		var appended *model.RoomMessage
		rooms := &fakeRoomStore{
			appendMessage: func(ctx context.Context, msg *model.RoomMessage) error {
				appended = msg
				return nil
			},
		}
		profiles := &fakeProfileStore{
			getProfile: func(ctx context.Context, email string) (*model.UserProfile, error) {
				return &model.UserProfile{
					Email:        email,
					Name:         "Alice",
					ProfileImage: "https://img.example/alice.png",
				}, nil
			},
		}
		svc := NewRoomService(
			RoomServiceArgs{Rooms: rooms, Profiles: profiles},
			WithRoomNowFunc(fixedNowFunc),
			WithRoomIDFunc(func() string { return "msg-1" }),
		)

		resp, err := svc.PostMessage(context.Background(), model.PostMessageArgs{
			ConcertID:   "c1",
			SenderEmail: "alice@utexas.edu",
			Text:        "  anyone up front? ",
		})
		require.NoError(t, err)
		require.NotNil(t, appended)

		assert.Equal(t, "msg-1", resp.Message.ID)
		assert.Equal(t, "c1", resp.Message.ConcertID)
		assert.Equal(t, "alice@utexas.edu", resp.Message.SenderEmail)
		assert.Equal(t, "Alice", resp.Message.SenderName)
		assert.Equal(t, "https://img.example/alice.png", resp.Message.SenderImage)
		assert.Equal(t, "anyone up front?", resp.Message.Text)
		assert.Equal(t, fixedNow, resp.Message.CreatedAt)
	})

	t.Run("sender without a profile falls back to the email", func(t *testing.T) {
		var appended *model.RoomMessage
		rooms := &fakeRoomStore{
			appendMessage: func(ctx context.Context, msg *model.RoomMessage) error {
				appended = msg
				return nil
			},
		}
		svc := NewRoomService(RoomServiceArgs{Rooms: rooms, Profiles: &fakeProfileStore{}})

		resp, err := svc.PostMessage(context.Background(), model.PostMessageArgs{
			ConcertID:   "c1",
			SenderEmail: "ghost@utexas.edu",
			Text:        "hello",
		})
		require.NoError(t, err)
		require.NotNil(t, appended)
		assert.Equal(t, "ghost@utexas.edu", resp.Message.SenderName)
		assert.Empty(t, resp.Message.SenderImage)
	})

	t.Run("empty text fails validation", func(t *testing.T) {
		svc := NewRoomService(RoomServiceArgs{Rooms: &fakeRoomStore{}, Profiles: &fakeProfileStore{}})

		_, err := svc.PostMessage(context.Background(), model.PostMessageArgs{
			ConcertID:   "c1",
			SenderEmail: "a@utexas.edu",
			Text:        "   ",
		})
		require.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestRoomMessages(t *testing.T) {
	ordered := []model.RoomMessage{
		{ID: "1", CreatedAt: fixedNow.Add(-time.Minute)},
		{ID: "2", CreatedAt: fixedNow},
	}
	rooms := &fakeRoomStore{
		listMessages: func(ctx context.Context, concertID string) ([]model.RoomMessage, error) {
			return ordered, nil
		},
	}
	svc := NewRoomService(RoomServiceArgs{Rooms: rooms, Profiles: &fakeProfileStore{}})

	msgs, err := svc.Messages(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, ordered, msgs)
}
