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

package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDomain(t *testing.T) {
	for _, domain := range Domains {
		parsed, err := ParseDomain(domain.String())
		assert.NoError(t, err)
		assert.Equal(t, domain, parsed)
	}
	_, err := ParseDomain("music")
	assert.Error(t, err)
}

func TestDomainScales(t *testing.T) {
	min, max := Movies.RatingScale()
	assert.Equal(t, float32(1), min)
	assert.Equal(t, float32(5), max)
	min, max = Anime.RatingScale()
	assert.Equal(t, float32(1), min)
	assert.Equal(t, float32(10), max)
	assert.Equal(t, float32(4.5), Books.LikedRating())
	assert.Equal(t, float32(8.0), Anime.LikedRating())
	assert.Equal(t, float32(7.0), Anime.RelevanceThreshold())
}

func TestDict(t *testing.T) {
	dict := NewDict()
	assert.Equal(t, int32(0), dict.Id("a"))
	assert.Equal(t, int32(1), dict.Id("b"))
	assert.Equal(t, int32(0), dict.Id("a"))
	assert.Equal(t, int32(1), dict.Lookup("b"))
	assert.Equal(t, int32(-1), dict.Lookup("c"))
	s, ok := dict.String(1)
	assert.True(t, ok)
	assert.Equal(t, "b", s)
	_, ok = dict.String(2)
	assert.False(t, ok)
	assert.Equal(t, int32(2), dict.Count())
}

const movieCSV = `movie_id,title,genre,year,avg_rating,type
m1,The Quiet Harbor,"Drama,Romance",1994,4.8,movie
m2,Steel Horizon,"Action,Thriller",2008,4.6,movie
m2,Steel Horizon Duplicate,"Action",2008,4.6,movie
m3,Laughing Matters,Comedy,2015,4.4,movie
t1,Harbor Nights,"Drama",2019,4.7,tv_show
,Missing Identifier,Mystery,1951,4.2,movie
m5,Broken Rating,Drama,1999,not-a-number,movie
m6,The Long Walk,"Drama,Mystery",1948,4.9,movie
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeCSV(t, movieCSV)
	catalog, err := LoadCatalog(path, CatalogOptions{TypeFilter: "movie", MaxSize: 3})
	assert.NoError(t, err)
	// m5 has an unparsable rating, t1 is a TV show, m2 is duplicated, and
	// the catalog is capped at the top 3 by rating.
	assert.Equal(t, 3, catalog.Len())
	assert.Equal(t, "m6", catalog.Get(0).ID)
	assert.Equal(t, "m1", catalog.Get(1).ID)
	assert.Equal(t, "m2", catalog.Get(2).ID)
	assert.Equal(t, []string{"Drama", "Mystery"}, catalog.Get(0).Genres)
	assert.Equal(t, 1948, catalog.Get(0).Year)
	// rows with an empty identifier or broken rating are dropped even
	// without the cap
	catalog, err = LoadCatalog(path, CatalogOptions{TypeFilter: "movie"})
	assert.NoError(t, err)
	assert.Empty(t, catalog.Search("missing identifier", 10))
	assert.False(t, catalog.Contains("m5"))
}

func TestLoadCatalog_Missing(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.csv"), CatalogOptions{})
	assert.Error(t, err)
}

func TestLoadBookCatalog_Fallback(t *testing.T) {
	catalog := LoadBookCatalog(filepath.Join(t.TempDir(), "nope.csv"), CatalogOptions{})
	assert.Greater(t, catalog.Len(), 0)
	for _, item := range catalog.Items() {
		assert.NotEmpty(t, item.ID)
		assert.NotEmpty(t, item.Title)
		assert.Greater(t, item.AvgRating, float32(0))
	}
}

func TestCatalogSearch(t *testing.T) {
	path := writeCSV(t, movieCSV)
	catalog, err := LoadCatalog(path, CatalogOptions{})
	assert.NoError(t, err)
	results := catalog.Search("harbor", 10)
	assert.Len(t, results, 2)
	assert.Empty(t, catalog.Search("", 10))
	assert.Empty(t, catalog.Search("zzz", 10))
	assert.Len(t, catalog.Search("harbor", 1), 1)
}

func TestCatalogMostVoted(t *testing.T) {
	catalog := NewCatalog([]Item{
		{ID: "a", NumVotes: 10},
		{ID: "b", NumVotes: 30},
		{ID: "c", NumVotes: 20},
	})
	top := catalog.MostVoted(2)
	assert.Len(t, top, 2)
	assert.Equal(t, "b", top[0].ID)
	assert.Equal(t, "c", top[1].ID)
}

func TestSplitGenres(t *testing.T) {
	assert.Equal(t, []string{"Drama", "Romance"}, SplitGenres("Drama, Romance"))
	assert.Equal(t, []string{"Action", "Sci-Fi"}, SplitGenres("Action|Sci-Fi"))
	assert.Empty(t, SplitGenres(""))
}

func TestSyntheticInteractions(t *testing.T) {
	items := make([]Item, 20)
	for i := range items {
		items[i] = Item{ID: string(rune('a' + i)), AvgRating: 4}
	}
	catalog := NewCatalog(items)
	opts := SyntheticOptions{NumUsers: 10, RatingMean: 3.9, RatingStd: 0.3, Seed: 42}
	interactions := SyntheticInteractions(catalog, Movies, opts)
	assert.Greater(t, interactions.Len(), 0)
	for i := 0; i < interactions.Len(); i++ {
		_, _, rating := interactions.Get(i)
		assert.GreaterOrEqual(t, rating, float32(1))
		assert.LessOrEqual(t, rating, float32(5))
	}
	// reproducible for a fixed seed
	again := SyntheticInteractions(catalog, Movies, opts)
	assert.Equal(t, interactions.Ratings, again.Ratings)
	// anime ratings land on the wider scale
	anime := SyntheticInteractions(catalog, Anime, opts)
	mean := anime.Mean()
	assert.Greater(t, mean, float32(6))
	assert.LessOrEqual(t, mean, float32(10))
}

func TestSplitRatio(t *testing.T) {
	interactions := NewDataset()
	for i := 0; i < 100; i++ {
		interactions.Add("u", string(rune(i)), float32(i%5+1))
	}
	train, test := interactions.SplitRatio(0.2, 0)
	assert.Equal(t, 80, train.Len())
	assert.Equal(t, 20, test.Len())
	assert.Equal(t, interactions.UserIndex, train.UserIndex)
	assert.Equal(t, interactions.ItemIndex, test.ItemIndex)
}

func TestLoadRatings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	assert.NoError(t, os.WriteFile(path, []byte(`user_id,anime_id,user_rating
u1,a1,8
u1,a2,6.5
u2,a1,bad
,a2,7
u3,a3,9
`), 0o644))
	interactions, err := LoadRatings(path)
	assert.NoError(t, err)
	assert.Equal(t, 3, interactions.Len())
	assert.Equal(t, float32(8), interactions.Ratings[0])
}
