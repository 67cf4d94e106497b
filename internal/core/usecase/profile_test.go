package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedNowFunc() time.Time { return fixedNow }

func TestProfileServiceSaveProfile(t *testing.T) {
	tests := []struct {
		name             string
		args             model.SaveProfileArgs
		expectedEmail    string
		expectedVerified bool
		expectedErr      error
	}{
		{
			name:             "email is trimmed and lowercased",
			args:             model.SaveProfileArgs{Email: "  Alice@UTexas.EDU ", Name: "Alice"},
			expectedEmail:    "alice@utexas.edu",
			expectedVerified: true,
		},
		{
			name:             "off-campus email is not verified",
			args:             model.SaveProfileArgs{Email: "bob@gmail.com", Name: "Bob"},
			expectedEmail:    "bob@gmail.com",
			expectedVerified: false,
		},
		{
			name:        "missing email fails validation",
			args:        model.SaveProfileArgs{Name: "Nobody"},
			expectedErr: model.ErrValidation,
		},
		{
			name:        "email without at-sign fails validation",
			args:        model.SaveProfileArgs{Email: "not-an-email"},
			expectedErr: model.ErrValidation,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var upserted *model.UserProfile
			store := &fakeProfileStore{
				upsertProfile: func(ctx context.Context, profile *model.UserProfile) error {
					upserted = profile
					return nil
				},
				getProfile: func(ctx context.Context, email string) (*model.UserProfile, error) {
					return upserted, nil
				},
			}
			svc := NewProfileService(ProfileServiceArgs{Store: store, Taste: &fakeTasteProvider{}}, WithProfileNowFunc(fixedNowFunc))

			resp, err := svc.SaveProfile(context.Background(), test.args)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				require.Nil(t, upserted, "nothing may be written on validation failure")
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expectedEmail, resp.Profile.Email)
			require.Equal(t, test.expectedVerified, resp.Profile.Verified)
			require.Equal(t, fixedNow, upserted.UpdatedAt)
		})
	}
}

func TestProfileServiceSaveProfileCustomDomain(t *testing.T) {
	var upserted *model.UserProfile
	store := &fakeProfileStore{
		upsertProfile: func(ctx context.Context, profile *model.UserProfile) error {
			upserted = profile
			return nil
		},
		getProfile: func(ctx context.Context, email string) (*model.UserProfile, error) {
			return upserted, nil
		},
	}
	svc := NewProfileService(
		ProfileServiceArgs{Store: store, Taste: &fakeTasteProvider{}},
		WithVerifiedDomain("@Example.Org"),
	)

	resp, err := svc.SaveProfile(context.Background(), model.SaveProfileArgs{Email: "carol@example.org"})
	require.NoError(t, err)
	require.True(t, resp.Profile.Verified)
}

func TestProfileServiceSyncTaste(t *testing.T) {
	providerError := errors.New("lastfm is down")
	taste := &model.TasteProfile{
		Artists: []string{"Taylor Swift", "SZA"},
		Genres:  []string{"Pop", "R&B"},
	}

	tests := []struct {
		name          string
		args          model.SyncTasteArgs
		fetchTaste    func(ctx context.Context, username string) (*model.TasteProfile, error)
		expectedErr   error
		expectedPrefs *model.MusicPreferences
	}{
		{
			name: "successful sync overwrites preferences wholesale",
			args: model.SyncTasteArgs{Email: "alice@utexas.edu", Username: "alice_fm"},
			fetchTaste: func(ctx context.Context, username string) (*model.TasteProfile, error) {
				return taste, nil
			},
			expectedPrefs: &model.MusicPreferences{
				Artists: []string{"Taylor Swift", "SZA"},
				Genres:  []string{"Pop", "R&B"},
			},
		},
		{
			name: "provider failure surfaces as upstream error",
			args: model.SyncTasteArgs{Email: "alice@utexas.edu", Username: "alice_fm"},
			fetchTaste: func(ctx context.Context, username string) (*model.TasteProfile, error) {
				return nil, providerError
			},
			expectedErr: model.ErrUpstream,
		},
		{
			name: "provider returning nothing surfaces as upstream error",
			args: model.SyncTasteArgs{Email: "alice@utexas.edu", Username: "alice_fm"},
			fetchTaste: func(ctx context.Context, username string) (*model.TasteProfile, error) {
				return nil, nil
			},
			expectedErr: model.ErrUpstream,
		},
		{
			name:        "missing username fails validation",
			args:        model.SyncTasteArgs{Email: "alice@utexas.edu"},
			expectedErr: model.ErrValidation,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var storedEmail string
			var storedPrefs *model.MusicPreferences
			store := &fakeProfileStore{
				setMusicPreferences: func(ctx context.Context, email string, prefs model.MusicPreferences) error {
					storedEmail = email
					storedPrefs = &prefs
					return nil
				},
			}
			svc := NewProfileService(ProfileServiceArgs{
				Store: store,
				Taste: &fakeTasteProvider{fetchTaste: test.fetchTaste},
			})

			resp, err := svc.SyncTaste(context.Background(), test.args)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				require.Nil(t, storedPrefs, "a failed sync must leave the profile untouched")
				return
			}
			require.NoError(t, err)
			require.Equal(t, "alice@utexas.edu", storedEmail)
			require.Equal(t, *test.expectedPrefs, resp.Preferences)
			require.Equal(t, *test.expectedPrefs, *storedPrefs)
		})
	}
}
