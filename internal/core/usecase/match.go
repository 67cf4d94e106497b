package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/gigmates/gigmates/internal/core/compat"
	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gigmates/gigmates/internal/core/ports"
)

// MaxMatches caps every match listing.
const MaxMatches = 20

// MatchServiceArgs contains the mandatory arguments for the MatchService.
type MatchServiceArgs struct {
	// Profiles is the profile persistence port.
	Profiles ports.ProfileStore

	// Rooms is the room persistence port.
	Rooms ports.RoomStore
}

// NewMatchService creates a new MatchService.
func NewMatchService(args MatchServiceArgs) *MatchService {
	return &MatchService{profiles: args.Profiles, rooms: args.Rooms}
}

// MatchService ranks candidate profiles against a requesting user with the
// compatibility engine.
type MatchService struct {
	profiles ports.ProfileStore
	rooms    ports.RoomStore
}

// ListMatches ranks the whole known population against the requester.
func (s *MatchService) ListMatches(ctx context.Context, args model.ListMatchesArgs) (*model.ListMatchesResponse, error) {
	requester, err := s.requesterProfile(ctx, args.RequesterEmail)
	if err != nil {
		return nil, err
	}

	candidates, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing candidate profiles: %w", err)
	}

	return &model.ListMatchesResponse{Matches: rank(*requester, candidates)}, nil
}

// ListRoomMatches ranks the members of one concert room against the requester.
// An unknown room yields an empty list, not an error; members whose profile
// is missing are silently skipped.
func (s *MatchService) ListRoomMatches(ctx context.Context, args model.ListRoomMatchesArgs) (*model.ListMatchesResponse, error) {
	if args.ConcertID == "" {
		return nil, fmt.Errorf("concert id is required: %w", model.ErrValidation)
	}
	requester, err := s.requesterProfile(ctx, args.RequesterEmail)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetRoom(ctx, args.ConcertID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return &model.ListMatchesResponse{Matches: []model.Match{}}, nil
		}
		return nil, fmt.Errorf("error reading room %q: %w", args.ConcertID, err)
	}

	candidates := make([]model.UserProfile, 0, len(room.Members))
	for _, member := range room.Members {
		profile, err := s.profiles.GetProfile(ctx, member)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				// dangling membership, skip
				continue
			}
			return nil, fmt.Errorf("error reading member profile %q: %w", member, err)
		}
		candidates = append(candidates, *profile)
	}

	return &model.ListMatchesResponse{Matches: rank(*requester, candidates)}, nil
}

func (s *MatchService) requesterProfile(ctx context.Context, email string) (*model.UserProfile, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetProfile(ctx, normalized)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("requester profile %q: %w", normalized, model.ErrNotFound)
		}
		return nil, fmt.Errorf("error reading requester profile: %w", err)
	}
	return profile, nil
}

// rank scores every candidate against the requester, excluding the requester
// itself, and returns the top MaxMatches ordered by score descending with a
// lexicographic email tie-break so the ordering is fully deterministic.
func rank(requester model.UserProfile, candidates []model.UserProfile) []model.Match {
	matches := make([]model.Match, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Email == requester.Email {
			continue
		}
		matches = append(matches, model.Match{
			Email:         candidate.Email,
			Name:          candidate.Name,
			ProfileImage:  candidate.ProfileImage,
			Verified:      candidate.Verified,
			Score:         compat.Score(requester, candidate),
			SharedArtists: compat.SharedArtists(requester.MusicPreferences.Artists, candidate.MusicPreferences.Artists),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Email < matches[j].Email
	})

	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}
	return matches
}
