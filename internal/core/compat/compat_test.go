package compat

import (
	"testing"

	"github.com/gigmates/gigmates/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		expected float64
	}{
		{
			name:     "identical sets",
			a:        []string{"Pop", "Rock"},
			b:        []string{"Pop", "Rock"},
			expected: 1.0,
		},
		{
			name:     "case folded before comparing",
			a:        []string{"POP", "rock"},
			b:        []string{"pop", "Rock"},
			expected: 1.0,
		},
		{
			name:     "partial overlap is jaccard",
			a:        []string{"Pop", "Rock"},
			b:        []string{"pop", "Jazz"},
			expected: 1.0 / 3.0,
		},
		{
			name:     "disjoint non-empty sets score zero",
			a:        []string{"Pop"},
			b:        []string{"Jazz"},
			expected: 0.0,
		},
		{
			name:     "empty first side is neutral",
			a:        nil,
			b:        []string{"Pop"},
			expected: 0.5,
		},
		{
			name:     "empty second side is neutral",
			a:        []string{"Pop"},
			b:        []string{},
			expected: 0.5,
		},
		{
			name:     "both empty is neutral",
			a:        nil,
			b:        nil,
			expected: 0.5,
		},
		{
			name:     "duplicates collapse into the set",
			a:        []string{"Pop", "pop", "POP"},
			b:        []string{"Pop"},
			expected: 1.0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.InDelta(t, test.expected, Overlap(test.a, test.b), 1e-9)
			// the metric is symmetric by construction
			require.InDelta(t, test.expected, Overlap(test.b, test.a), 1e-9)
		})
	}
}

func TestBudgetAlignment(t *testing.T) {
	tests := []struct {
		name     string
		a        model.Budget
		b        model.Budget
		expected float64
	}{
		{name: "exact match", a: model.BudgetUnder40, b: model.BudgetUnder40, expected: 1.0},
		{name: "flexible matches anything", a: model.BudgetFlexible, b: model.BudgetUnder40, expected: 0.8},
		{name: "flexible on either side", a: model.Budget40To80, b: model.BudgetFlexible, expected: 0.8},
		{name: "adjacent on the scale", a: model.BudgetUnder40, b: model.Budget40To80, expected: 0.5},
		{name: "unknown label degrades", a: model.BudgetUnder40, b: model.Budget("unknown_value"), expected: 0.2},
		{name: "both unknown but equal is exact", a: model.Budget("vip"), b: model.Budget("vip"), expected: 1.0},
		{name: "two distinct unknowns", a: model.Budget("vip"), b: model.Budget("lawn"), expected: 0.2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.InDelta(t, test.expected, BudgetAlignment(test.a, test.b), 1e-9)
			require.InDelta(t, test.expected, BudgetAlignment(test.b, test.a), 1e-9)
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		a        model.UserProfile
		b        model.UserProfile
		expected int
	}{
		{
			name: "documented end to end scenario",
			a: model.UserProfile{
				Email:            "a@utexas.edu",
				MusicPreferences: model.MusicPreferences{Genres: []string{"Pop", "Rock"}, Artists: []string{"X"}},
				Budget:           model.BudgetUnder40,
				ConcertVibes:     []string{"Chill"},
			},
			b: model.UserProfile{
				Email:            "b@utexas.edu",
				MusicPreferences: model.MusicPreferences{Genres: []string{"pop", "Jazz"}},
				Budget:           model.Budget40To80,
				ConcertVibes:     []string{"Chill"},
			},
			// genres 1/3*30=10, artists neutral 12.5, budget 0.5*20=10,
			// vibes 25 -> 57.5 truncated to 57
			expected: 57,
		},
		{
			name: "identical non-empty profiles reach the upper bound",
			a: model.UserProfile{
				MusicPreferences: model.MusicPreferences{Genres: []string{"Indie"}, Artists: []string{"Mitski"}},
				Budget:           model.Budget40To80,
				ConcertVibes:     []string{"Front Row"},
			},
			b: model.UserProfile{
				MusicPreferences: model.MusicPreferences{Genres: []string{"indie"}, Artists: []string{"mitski"}},
				Budget:           model.Budget40To80,
				ConcertVibes:     []string{"front row"},
			},
			expected: 100,
		},
		{
			name: "fractional totals truncate toward zero",
			a: model.UserProfile{
				MusicPreferences: model.MusicPreferences{Genres: []string{"Pop"}, Artists: nil},
				Budget:           model.BudgetUnder40,
				ConcertVibes:     []string{"Chill"},
			},
			b: model.UserProfile{
				MusicPreferences: model.MusicPreferences{Genres: []string{"Pop"}, Artists: []string{"SZA"}},
				Budget:           model.BudgetUnder40,
				ConcertVibes:     []string{"Chill"},
			},
			// 30 + 12.5 + 20 + 25 = 87.5 truncated to 87, never rounded to 88
			expected: 87,
		},
		{
			name: "missing artists contribute the floored neutral 12",
			a: model.UserProfile{
				MusicPreferences: model.MusicPreferences{Genres: []string{"Rock"}},
				Budget:           model.Budget("vip"),
				ConcertVibes:     []string{"Chill"},
			},
			b: model.UserProfile{
				MusicPreferences: model.MusicPreferences{Genres: []string{"Jazz"}, Artists: []string{"Drake"}},
				Budget:           model.Budget("lawn"),
				ConcertVibes:     []string{"Rave"},
			},
			// genres 0, artists 12.5, budget 0.2*20=4, vibes 0 -> 16.5 -> 16
			expected: 16,
		},
		{
			name: "empty profiles stay neutral everywhere",
			a:    model.UserProfile{},
			b:    model.UserProfile{},
			// three neutral overlaps (15+12.5+12.5) + flexible default budget 20
			expected: 60,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			score := Score(test.a, test.b)
			require.Equal(t, test.expected, score)

			// invariants that hold for every pair
			assert.Equal(t, score, Score(test.b, test.a), "score must be symmetric")
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		})
	}
}

func TestScoreDisjointGenresContributeZero(t *testing.T) {
	base := model.UserProfile{
		MusicPreferences: model.MusicPreferences{Artists: []string{"SZA"}},
		Budget:           model.BudgetUnder40,
		ConcertVibes:     []string{"Chill"},
	}
	same := base
	same.MusicPreferences.Genres = []string{"Pop"}
	other := base
	other.MusicPreferences.Genres = []string{"Metal"}

	matching := same
	matching.MusicPreferences.Genres = []string{"pop"}

	// identical except for the genre dimension: the disjoint pair must score
	// exactly the 30 points of the genre weight below the matching pair
	require.Equal(t, Score(same, matching)-30, Score(same, other))
}

func TestSharedArtists(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		expected []string
	}{
		{
			name:     "keeps first list casing and order",
			a:        []string{"Taylor Swift", "SZA", "Mitski"},
			b:        []string{"mitski", "taylor swift"},
			expected: []string{"Taylor Swift", "Mitski"},
		},
		{
			name:     "no overlap yields empty",
			a:        []string{"SZA"},
			b:        []string{"Lorde"},
			expected: []string{},
		},
		{
			name:     "duplicates collapse",
			a:        []string{"SZA", "sza"},
			b:        []string{"SZA"},
			expected: []string{"SZA"},
		},
		{
			name:     "empty inputs yield empty",
			a:        nil,
			b:        []string{"SZA"},
			expected: []string{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, SharedArtists(test.a, test.b))
		})
	}
}
