package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gigmates/gigmates/internal/core/ports"
	"github.com/google/uuid"
)

// RoomServiceArgs contains the mandatory arguments for the RoomService.
type RoomServiceArgs struct {
	// Rooms is the room persistence port.
	Rooms ports.RoomStore

	// Profiles is the profile persistence port, used for the user's own
	// joined-concerts list and for denormalizing sender snapshots.
	Profiles ports.ProfileStore
}

// RoomServiceOptArgs are the optional arguments for building a RoomService.
type RoomServiceOptArgs = func(*RoomService)

// WithRoomNowFunc can be used to override the nowFunc. Useful for testing.
func WithRoomNowFunc(nowFunc func() time.Time) RoomServiceOptArgs {
	return func(s *RoomService) {
		s.nowFunc = nowFunc
	}
}

// WithRoomIDFunc can be used to override message id generation. Useful for
// testing.
func WithRoomIDFunc(idFunc func() string) RoomServiceOptArgs {
	return func(s *RoomService) {
		s.idFunc = idFunc
	}
}

// NewRoomService creates a new RoomService.
func NewRoomService(args RoomServiceArgs, optArgs ...RoomServiceOptArgs) *RoomService {
	s := &RoomService{
		rooms:    args.Rooms,
		profiles: args.Profiles,
		nowFunc:  func() time.Time { return time.Now().UTC() },
		idFunc:   uuid.NewString,
	}
	for _, opt := range optArgs {
		opt(s)
	}
	return s
}

// RoomService is the idempotent membership ledger per concert plus the room
// chat built on top of it.
type RoomService struct {
	rooms    ports.RoomStore
	profiles ports.ProfileStore
	nowFunc  func() time.Time
	idFunc   func() string
}

// Join adds the user to the concert's member set and the concert to the
// user's own joined list. Both writes are set-unions: re-joining is a no-op
// on set contents. The user document is created when it does not exist yet.
func (s *RoomService) Join(ctx context.Context, args model.JoinRoomArgs) error {
	email, err := normalizeEmail(args.Email)
	if err != nil {
		return err
	}
	if args.ConcertID == "" {
		return fmt.Errorf("concert id is required: %w", model.ErrValidation)
	}

	if err := s.rooms.AddMember(ctx, args.ConcertID, args.ConcertName, email, s.nowFunc()); err != nil {
		return fmt.Errorf("error adding %q to room %q: %w", email, args.ConcertID, err)
	}
	if err := s.profiles.AddJoinedConcert(ctx, email, args.ConcertID); err != nil {
		return fmt.Errorf("error recording joined concert for %q: %w", email, err)
	}
	return nil
}

// IsMember reports whether the user is in the concert's member set. An
// unknown concert is simply not joined, never an error.
func (s *RoomService) IsMember(ctx context.Context, email, concertID string) (bool, error) {
	normalizedEmail, err := normalizeEmail(email)
	if err != nil {
		return false, err
	}

	room, err := s.rooms.GetRoom(ctx, concertID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error reading room %q: %w", concertID, err)
	}

	for _, member := range room.Members {
		if member == normalizedEmail {
			return true, nil
		}
	}
	return false, nil
}

// Members returns the concert's member set; an unknown concert yields an
// empty set.
func (s *RoomService) Members(ctx context.Context, concertID string) ([]string, error) {
	room, err := s.rooms.GetRoom(ctx, concertID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("error reading room %q: %w", concertID, err)
	}
	return room.Members, nil
}

// PostMessage appends a chat message with a server-assigned id and timestamp
// and a snapshot of the sender's display fields at send time. A sender
// without a profile falls back to the bare email.
func (s *RoomService) PostMessage(ctx context.Context, args model.PostMessageArgs) (*model.PostMessageResponse, error) {
	email, err := normalizeEmail(args.SenderEmail)
	if err != nil {
		return nil, err
	}
	if args.ConcertID == "" {
		return nil, fmt.Errorf("concert id is required: %w", model.ErrValidation)
	}
	if strings.TrimSpace(args.Text) == "" {
		return nil, fmt.Errorf("message text is required: %w", model.ErrValidation)
	}

	senderName := email
	senderImage := ""
	profile, err := s.profiles.GetProfile(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("error reading sender profile: %w", err)
	}
	if profile != nil {
		if profile.Name != "" {
			senderName = profile.Name
		}
		senderImage = profile.ProfileImage
	}

	msg := &model.RoomMessage{
		ID:          s.idFunc(),
		ConcertID:   args.ConcertID,
		SenderEmail: email,
		SenderName:  senderName,
		SenderImage: senderImage,
		Text:        strings.TrimSpace(args.Text),
		CreatedAt:   s.nowFunc(),
	}
	if err := s.rooms.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("error appending message to room %q: %w", args.ConcertID, err)
	}

	return &model.PostMessageResponse{Message: *msg}, nil
}

// Messages returns the room's chat ordered by time ascending.
func (s *RoomService) Messages(ctx context.Context, concertID string) ([]model.RoomMessage, error) {
	if concertID == "" {
		return nil, fmt.Errorf("concert id is required: %w", model.ErrValidation)
	}
	msgs, err := s.rooms.ListMessages(ctx, concertID)
	if err != nil {
		return nil, fmt.Errorf("error listing messages for room %q: %w", concertID, err)
	}
	return msgs, nil
}
