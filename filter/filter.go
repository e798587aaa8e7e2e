// Copyright 2026 sorrel Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package filter narrows recommendation candidates by user preferences.
// Every step is best-effort: a constraint that would starve the candidate
// pool below the minimum size is skipped instead of applied.
package filter

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"

	"github.com/sorrel-io/sorrel/dataset"
)

// Preferences are the optional constraints of a recommendation request.
// Empty fields impose no constraint.
type Preferences struct {
	Mood  string
	Genre string
	Era   string
}

// moodGenres maps each supported mood to the genre it implies.
var moodGenres = map[string]string{
	"happy":   "Comedy",
	"sad":     "Drama",
	"excited": "Action",
	"relaxed": "Romance",
	"curious": "Mystery",
}

// eraRange is an inclusive release year range.
type eraRange struct {
	min, max int
}

var eraRanges = map[string]eraRange{
	"1900-1950": {1900, 1950},
	"1951-2000": {1951, 2000},
	"2001-2025": {2001, 2025},
}

// MoodGenre returns the genre implied by a mood, case-insensitively.
func MoodGenre(mood string) (string, bool) {
	genre, ok := moodGenres[strings.ToLower(strings.TrimSpace(mood))]
	return genre, ok
}

// EraRange returns the inclusive year range named by an era label.
func EraRange(era string) (minYear, maxYear int, ok bool) {
	r, ok := eraRanges[strings.TrimSpace(era)]
	return r.min, r.max, ok
}

// targetGenres unions the explicit genre and the mood's implied genre into
// one lowercase target set. An empty set means no genre constraint.
func targetGenres(preferences Preferences) mapset.Set[string] {
	targets := mapset.NewThreadUnsafeSet[string]()
	if genre := strings.TrimSpace(preferences.Genre); genre != "" {
		targets.Add(strings.ToLower(genre))
	}
	if genre, ok := MoodGenre(preferences.Mood); ok {
		targets.Add(strings.ToLower(genre))
	}
	return targets
}

// Apply narrows items by the given preferences: first by genre, where the
// explicit genre and the mood's implied genre form a target set matched
// against each item's genres, then by release era. A step that would leave
// fewer than minSize items is skipped, so filters only narrow, never starve,
// the candidate pool. Unknown mood and era labels impose no constraint.
func Apply(items []dataset.Item, preferences Preferences, minSize int) []dataset.Item {
	steps := make([]func(dataset.Item) bool, 0, 2)
	if targets := targetGenres(preferences); targets.Cardinality() > 0 {
		steps = append(steps, func(item dataset.Item) bool {
			return lo.SomeBy(item.Genres, func(genre string) bool {
				return targets.Contains(strings.ToLower(genre))
			})
		})
	}
	if minYear, maxYear, ok := EraRange(preferences.Era); ok {
		steps = append(steps, func(item dataset.Item) bool {
			return item.Year >= minYear && item.Year <= maxYear
		})
	}
	for _, step := range steps {
		narrowed := lo.Filter(items, func(item dataset.Item, _ int) bool {
			return step(item)
		})
		if len(narrowed) >= minSize {
			items = narrowed
		}
	}
	return items
}
