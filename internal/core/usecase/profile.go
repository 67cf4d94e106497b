package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"context"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/gigmates/gigmates/internal/core/ports"
)

// DefaultVerifiedDomain is the email suffix that marks a profile as verified.
const DefaultVerifiedDomain = "@utexas.edu"

// ProfileServiceArgs contains the mandatory arguments for the ProfileService.
type ProfileServiceArgs struct {
	// Store is the profile persistence port.
	Store ports.ProfileStore

	// Taste is the listening-history provider port.
	Taste ports.TasteProvider
}

// ProfileServiceOptArgs are the optional arguments for building a ProfileService.
type ProfileServiceOptArgs = func(*ProfileService)

// WithVerifiedDomain overrides the email suffix used for the verification flag.
func WithVerifiedDomain(domain string) ProfileServiceOptArgs {
	return func(s *ProfileService) {
		s.verifiedDomain = strings.ToLower(domain)
	}
}

// WithProfileNowFunc can be used to override the nowFunc. Useful for testing.
func WithProfileNowFunc(nowFunc func() time.Time) ProfileServiceOptArgs {
	return func(s *ProfileService) {
		s.nowFunc = nowFunc
	}
}

// NewProfileService creates a new ProfileService.
func NewProfileService(args ProfileServiceArgs, optArgs ...ProfileServiceOptArgs) *ProfileService {
	s := &ProfileService{
		store:          args.Store,
		taste:          args.Taste,
		verifiedDomain: DefaultVerifiedDomain,
		nowFunc:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range optArgs {
		opt(s)
	}
	return s
}

// ProfileService gathers the functionality around the profile lifecycle:
// registration, merge-updates and taste syncing.
type ProfileService struct {
	store          ports.ProfileStore
	taste          ports.TasteProvider
	verifiedDomain string
	nowFunc        func() time.Time
}

// SaveProfile merges the given fields into the user's profile document,
// creating it when absent. The verification flag is always recomputed from the
// email suffix, never taken from the caller.
func (s *ProfileService) SaveProfile(ctx context.Context, args model.SaveProfileArgs) (*model.SaveProfileResponse, error) {
	email, err := normalizeEmail(args.Email)
	if err != nil {
		return nil, err
	}

	profile := &model.UserProfile{
		Email:        email,
		Name:         args.Name,
		Verified:     strings.HasSuffix(email, s.verifiedDomain),
		Budget:       args.Budget,
		ConcertVibes: args.ConcertVibes,
		ProfileImage: args.ProfileImage,
		UpdatedAt:    s.nowFunc(),
	}
	if args.MusicPreferences != nil {
		profile.MusicPreferences = *args.MusicPreferences
	}

	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("error saving profile in store: %w", err)
	}

	stored, err := s.store.GetProfile(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error reading back profile: %w", err)
	}
	return &model.SaveProfileResponse{Profile: *stored}, nil
}

// GetProfile returns the stored profile for the email. It returns
// model.ErrNotFound when no profile exists.
func (s *ProfileService) GetProfile(ctx context.Context, email string) (*model.UserProfile, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetProfile(ctx, normalized)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error reading profile: %w", err)
	}
	return profile, nil
}

// SyncTaste fetches the user's taste profile from the listening-history
// provider and overwrites the stored music preferences wholesale. Manual
// entries do not survive a sync. A provider failure leaves the profile
// untouched.
func (s *ProfileService) SyncTaste(ctx context.Context, args model.SyncTasteArgs) (*model.SyncTasteResponse, error) {
	email, err := normalizeEmail(args.Email)
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(args.Username)
	if username == "" {
		return nil, fmt.Errorf("provider username is required: %w", model.ErrValidation)
	}

	taste, err := s.taste.FetchTaste(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("fetching taste for %q: %w", username, errors.Join(model.ErrUpstream, err))
	}
	if taste == nil {
		return nil, fmt.Errorf("provider returned no taste for %q: %w", username, model.ErrUpstream)
	}

	prefs := model.MusicPreferences{Artists: taste.Artists, Genres: taste.Genres}
	if err := s.store.SetMusicPreferences(ctx, email, prefs); err != nil {
		return nil, fmt.Errorf("error storing synced preferences: %w", err)
	}

	return &model.SyncTasteResponse{Preferences: prefs}, nil
}

// normalizeEmail lowercases and trims the identifier and rejects values that
// cannot possibly be an email.
func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || !strings.Contains(normalized, "@") {
		return "", fmt.Errorf("email %q is not a valid identifier: %w", email, model.ErrValidation)
	}
	return normalized, nil
}
