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

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sorrel-io/sorrel/dataset"
)

var testItems = []dataset.Item{
	{ID: "a", Genres: []string{"Comedy", "Romance"}, Year: 1994},
	{ID: "b", Genres: []string{"Drama"}, Year: 1948},
	{ID: "c", Genres: []string{"Action", "Thriller"}, Year: 2010},
	{ID: "d", Genres: []string{"Comedy"}, Year: 2015},
	{ID: "e", Genres: []string{"Mystery", "Drama"}, Year: 1975},
}

func ids(items []dataset.Item) []string {
	ret := make([]string, len(items))
	for i, item := range items {
		ret[i] = item.ID
	}
	return ret
}

func TestMoodGenre(t *testing.T) {
	genre, ok := MoodGenre("Happy")
	assert.True(t, ok)
	assert.Equal(t, "Comedy", genre)
	genre, ok = MoodGenre(" curious ")
	assert.True(t, ok)
	assert.Equal(t, "Mystery", genre)
	_, ok = MoodGenre("grumpy")
	assert.False(t, ok)
}

func TestEraRange(t *testing.T) {
	minYear, maxYear, ok := EraRange("1951-2000")
	assert.True(t, ok)
	assert.Equal(t, 1951, minYear)
	assert.Equal(t, 2000, maxYear)
	_, _, ok = EraRange("1800-1900")
	assert.False(t, ok)
}

func TestApply(t *testing.T) {
	// single constraints
	assert.Equal(t, []string{"a", "d"}, ids(Apply(testItems, Preferences{Genre: "comedy"}, 1)))
	assert.Equal(t, []string{"c"}, ids(Apply(testItems, Preferences{Mood: "Excited"}, 1)))
	assert.Equal(t, []string{"a", "e"}, ids(Apply(testItems, Preferences{Era: "1951-2000"}, 1)))
	// explicit genre and mood genre form a union target set
	assert.Equal(t, []string{"a", "c", "d"},
		ids(Apply(testItems, Preferences{Genre: "Action", Mood: "Happy"}, 1)))
	// genre and era constraints compose
	assert.Equal(t, []string{"d"},
		ids(Apply(testItems, Preferences{Mood: "Happy", Era: "2001-2025"}, 1)))
	// no preferences leave the slice untouched
	assert.Equal(t, ids(testItems), ids(Apply(testItems, Preferences{}, 1)))
	// unknown labels impose no constraint
	assert.Equal(t, ids(testItems), ids(Apply(testItems, Preferences{Mood: "grumpy", Era: "someday"}, 1)))
}

func TestApply_NeverStarves(t *testing.T) {
	// no drama was released 2001-2025, so the era step is skipped
	result := Apply(testItems, Preferences{Mood: "Sad", Era: "2001-2025"}, 1)
	assert.Equal(t, []string{"b", "e"}, ids(result))
	// a genre nothing matches leaves the pool whole
	result = Apply(testItems, Preferences{Genre: "Western"}, 1)
	assert.Equal(t, ids(testItems), ids(result))
	// the output is never smaller than minSize when the input reaches it
	result = Apply(testItems, Preferences{Mood: "Excited"}, 3)
	assert.Equal(t, ids(testItems), ids(result))
}
