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

// Package logics orchestrates recommendations: the collaborative path folds
// a request's favorites into a trained factorization model, the content path
// searches a feature space built from book metadata. Both paths read only
// immutable startup state, so requests are safe to serve concurrently.
package logics

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"

	"github.com/sorrel-io/sorrel/base/heap"
	"github.com/sorrel-io/sorrel/dataset"
	"github.com/sorrel-io/sorrel/filter"
	"github.com/sorrel-io/sorrel/model"
)

// Options bound the size of recommendation requests and results.
type Options struct {
	// MaxFavorites caps the favorites accepted per request.
	MaxFavorites int
	// TopN is the number of recommendations returned.
	TopN int
	// PoolSize is the size of the scored working pool that preference
	// filters narrow down.
	PoolSize int
	// MinFilterSize is the smallest pool a filter step may leave behind.
	MinFilterSize int
}

// Recommendation is one ranked result of the collaborative path.
type Recommendation struct {
	Title           string  `json:"title"`
	Year            int     `json:"year"`
	PredictedRating float32 `json:"predicted_rating"`
}

// Recommender serves recommendations from per-domain catalogs and models
// trained at startup.
type Recommender struct {
	opts     Options
	catalogs map[dataset.Domain]*dataset.Catalog
	models   map[dataset.Domain]*model.SVD
}

// NewRecommender creates an empty recommender. Domains are attached with
// Register before serving.
func NewRecommender(opts Options) *Recommender {
	return &Recommender{
		opts:     opts,
		catalogs: make(map[dataset.Domain]*dataset.Catalog),
		models:   make(map[dataset.Domain]*model.SVD),
	}
}

// Register attaches a domain's catalog and trained model.
func (r *Recommender) Register(domain dataset.Domain, catalog *dataset.Catalog, svd *model.SVD) {
	r.catalogs[domain] = catalog
	r.models[domain] = svd
}

// Catalog returns the catalog registered for a domain.
func (r *Recommender) Catalog(domain dataset.Domain) (*dataset.Catalog, error) {
	catalog, exist := r.catalogs[domain]
	if !exist {
		return nil, errors.NotFoundf("catalog for domain %v", domain)
	}
	return catalog, nil
}

// Recommend ranks catalog items for a favorites set via the collaborative
// path: favorites are folded into a transient user embedding, every other
// catalog item is scored against it, and the top scored pool is narrowed by
// the request preferences. The pool never empties below TopN results as long
// as the catalog holds enough items.
func (r *Recommender) Recommend(domain dataset.Domain, favorites []string, preferences filter.Preferences) ([]Recommendation, error) {
	if len(favorites) == 0 {
		return nil, errors.BadRequestf("favorites must not be empty")
	}
	if len(favorites) > r.opts.MaxFavorites {
		return nil, errors.BadRequestf("favorites must not exceed %d items", r.opts.MaxFavorites)
	}
	catalog, err := r.Catalog(domain)
	if err != nil {
		return nil, errors.Trace(err)
	}
	svd := r.models[domain]
	embedding := svd.FoldIn(favorites, domain.LikedRating())
	favoriteSet := mapset.NewThreadUnsafeSet(favorites...)
	pool := heap.NewTopKFilter[dataset.Item, float32](r.opts.PoolSize)
	for _, item := range catalog.Items() {
		if favoriteSet.Contains(item.ID) {
			continue
		}
		itemIndex := svd.ItemIndexOf(item.ID)
		if itemIndex < 0 {
			continue
		}
		pool.Push(item, svd.PredictFolded(embedding, itemIndex))
	}
	items, scores := pool.PopAll()
	ratings := make(map[string]float32, len(items))
	for i, item := range items {
		ratings[item.ID] = scores[i]
	}
	// narrowing preserves the descending score order of the pool
	narrowed := filter.Apply(items, preferences, r.opts.MinFilterSize)
	if len(narrowed) == 0 {
		narrowed = items
	}
	if len(narrowed) > r.opts.TopN {
		narrowed = narrowed[:r.opts.TopN]
	}
	recommendations := make([]Recommendation, 0, len(narrowed))
	for _, item := range narrowed {
		recommendations = append(recommendations, Recommendation{
			Title:           item.Title,
			Year:            item.Year,
			PredictedRating: ratings[item.ID],
		})
	}
	return recommendations, nil
}
