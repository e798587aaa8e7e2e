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

package logics

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/sorrel-io/sorrel/base/log"
	"github.com/sorrel-io/sorrel/content"
	"github.com/sorrel-io/sorrel/dataset"
	"github.com/sorrel-io/sorrel/filter"
)

// PlaceholderImage substitutes a missing cover image.
const PlaceholderImage = "/api/placeholder/300/450"

// reducedRank is the number of singular components kept for neighbor search.
const reducedRank = 50

// BookRecommendation is one result of the content-based path.
type BookRecommendation struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Year   int     `json:"year"`
	Rating float32 `json:"rating"`
	Image  string  `json:"image"`
}

func toBookRecommendation(item dataset.Item) BookRecommendation {
	image := item.ImageURL
	if image == "" {
		image = PlaceholderImage
	}
	return BookRecommendation{
		ID:     item.ID,
		Title:  item.Title,
		Author: item.Author,
		Year:   item.Year,
		Rating: item.AvgRating,
		Image:  image,
	}
}

// RecommendBooks ranks books near the given favorite titles via the content
// path. The catalog is preference-filtered first, then embedded into a
// feature space searched by cosine similarity around the centroid of the
// matched favorites. Titles that match nothing are logged and skipped; when
// no title matches at all, the most voted books of the full catalog are
// returned instead.
func (r *Recommender) RecommendBooks(titles []string, preferences filter.Preferences) ([]BookRecommendation, error) {
	if len(titles) == 0 {
		return nil, errors.BadRequestf("book titles must not be empty")
	}
	catalog, err := r.Catalog(dataset.Books)
	if err != nil {
		return nil, errors.Trace(err)
	}
	candidates := filter.Apply(catalog.Items(), preferences, r.opts.MinFilterSize)
	space := content.BuildFeatureSpace(candidates)
	space.Reduce(reducedRank)
	matched := make([]int, 0, len(titles))
	matchedSet := mapset.NewThreadUnsafeSet[int]()
	for _, title := range titles {
		query := strings.ToLower(strings.TrimSpace(title))
		if query == "" {
			continue
		}
		row := -1
		for i := 0; i < space.Len(); i++ {
			if strings.Contains(strings.ToLower(space.Item(i).Title), query) {
				row = i
				break
			}
		}
		if row < 0 {
			log.Logger().Info("favorite title matched no book", zap.String("title", title))
			continue
		}
		if matchedSet.Add(row) {
			matched = append(matched, row)
		}
	}
	if len(matched) == 0 {
		popular := catalog.MostVoted(r.opts.TopN)
		recommendations := make([]BookRecommendation, 0, len(popular))
		for _, item := range popular {
			recommendations = append(recommendations, toBookRecommendation(item))
		}
		return recommendations, nil
	}
	index := content.NewIndex(space)
	rows, _ := index.Search(space.Centroid(matched), r.opts.TopN+len(matched))
	recommendations := make([]BookRecommendation, 0, r.opts.TopN)
	for _, row := range rows {
		if matchedSet.Contains(row) {
			continue
		}
		recommendations = append(recommendations, toBookRecommendation(space.Item(row)))
		if len(recommendations) >= r.opts.TopN {
			break
		}
	}
	return recommendations, nil
}
