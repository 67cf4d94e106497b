// Package compat implements the compatibility scoring engine: the pure
// functions that reduce two user profiles to a single bounded score.
package compat

import (
	"strings"

	"github.com/gigmates/gigmates/internal/core/model"
)

// Dimension weights. They sum to 100 so the weighted sum of metrics in [0,1]
// lands in [0,100] directly.
const (
	weightGenres  = 30
	weightArtists = 25
	weightBudget  = 20
	weightVibes   = 25
)

// budgetScale is the ordered scale used for the adjacency rule.
var budgetScale = []model.Budget{model.BudgetUnder40, model.Budget40To80, model.BudgetFlexible}

// Overlap returns the Jaccard index of two label sequences after case-folding,
// in [0,1]. An empty input sequence means the caller provided no data, not "no
// overlap": that case returns a neutral 0.5 instead of penalizing. Two
// genuinely disjoint non-empty sets return exactly 0.
func Overlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.5
	}

	setA := fold(a)
	setB := fold(b)

	intersection := 0
	for label := range setA {
		if _, ok := setB[label]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// BudgetAlignment returns how well two budget labels align, one of
// 1.0, 0.8, 0.5 or 0.2. Flexible is maximally compatible with anything;
// unrecognized labels degrade to the weakest non-zero alignment.
func BudgetAlignment(a, b model.Budget) float64 {
	if a == b {
		return 1.0
	}
	if a == model.BudgetFlexible || b == model.BudgetFlexible {
		return 0.8
	}

	idxA := scaleIndex(a)
	idxB := scaleIndex(b)
	if idxA < 0 || idxB < 0 {
		return 0.2
	}
	if abs(idxA-idxB) == 1 {
		return 0.5
	}
	return 0.2
}

// Score computes the compatibility between two profiles as an integer in
// [0,100]. It is deterministic, symmetric and total: missing attributes
// default to empty sequences and a flexible budget, so it never fails.
// The weighted sum is truncated toward zero, not rounded: 79.9 reports as 79.
func Score(a, b model.UserProfile) int {
	raw := Overlap(a.MusicPreferences.Genres, b.MusicPreferences.Genres) * weightGenres
	raw += Overlap(a.MusicPreferences.Artists, b.MusicPreferences.Artists) * weightArtists
	raw += BudgetAlignment(defaultBudget(a.Budget), defaultBudget(b.Budget)) * weightBudget
	raw += Overlap(a.ConcertVibes, b.ConcertVibes) * weightVibes

	return int(raw)
}

// SharedArtists returns the case-insensitive intersection of two artist lists,
// keeping the first list's casing and order. Duplicates within the first list
// collapse to one entry.
func SharedArtists(a, b []string) []string {
	setB := fold(b)

	shared := make([]string, 0, len(a))
	seen := make(map[string]struct{}, len(a))
	for _, artist := range a {
		key := strings.ToLower(artist)
		if _, ok := setB[key]; !ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		shared = append(shared, artist)
	}
	return shared
}

func fold(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[strings.ToLower(label)] = struct{}{}
	}
	return set
}

func defaultBudget(b model.Budget) model.Budget {
	if b == "" {
		return model.BudgetFlexible
	}
	return b
}

func scaleIndex(b model.Budget) int {
	for i, known := range budgetScale {
		if known == b {
			return i
		}
	}
	return -1
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
