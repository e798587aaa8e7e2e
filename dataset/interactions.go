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
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Dataset is an interaction log of (user, item, rating) triples stored as
// parallel arrays over dense indices. It is immutable once training starts:
// new users are folded in per request instead of being appended here.
type Dataset struct {
	UserIndex *Dict
	ItemIndex *Dict
	Users     []int32
	Items     []int32
	Ratings   []float32
}

// NewDataset creates an empty interaction log.
func NewDataset() *Dataset {
	return &Dataset{
		UserIndex: NewDict(),
		ItemIndex: NewDict(),
	}
}

// Add appends an interaction, assigning dense indices as needed.
func (d *Dataset) Add(userId, itemId string, rating float32) {
	d.Users = append(d.Users, d.UserIndex.Id(userId))
	d.Items = append(d.Items, d.ItemIndex.Id(itemId))
	d.Ratings = append(d.Ratings, rating)
}

func (d *Dataset) Len() int {
	return len(d.Ratings)
}

// Get returns the i-th interaction as dense indices.
func (d *Dataset) Get(i int) (userIndex, itemIndex int32, rating float32) {
	return d.Users[i], d.Items[i], d.Ratings[i]
}

// Mean returns the global mean rating.
func (d *Dataset) Mean() float32 {
	if d.Len() == 0 {
		return 0
	}
	sum := float32(0)
	for _, rating := range d.Ratings {
		sum += rating
	}
	return sum / float32(d.Len())
}

// SplitRatio splits interactions into a train set and a held-out test set.
// Both shares the same index dictionaries so dense indices stay comparable.
func (d *Dataset) SplitRatio(testRatio float64, seed int64) (train, test *Dataset) {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(d.Len())
	testSize := int(float64(d.Len()) * testRatio)
	train = &Dataset{UserIndex: d.UserIndex, ItemIndex: d.ItemIndex}
	test = &Dataset{UserIndex: d.UserIndex, ItemIndex: d.ItemIndex}
	for position, i := range perm {
		target := train
		if position < testSize {
			target = test
		}
		target.Users = append(target.Users, d.Users[i])
		target.Items = append(target.Items, d.Items[i])
		target.Ratings = append(target.Ratings, d.Ratings[i])
	}
	return train, test
}

// SyntheticOptions controls synthetic interaction generation.
type SyntheticOptions struct {
	NumUsers   int
	RatingMean float64
	RatingStd  float64
	Seed       int64
}

// SyntheticInteractions simulates a rating log over a catalog: each of
// NumUsers rates between 10% and 30% of the catalog, with ratings drawn from
// a normal distribution clipped to the domain scale. The mean is expressed
// on the 1-5 scale and rescaled for wider domains. Each domain passes its
// own seed so generation is reproducible regardless of execution order.
func SyntheticInteractions(catalog *Catalog, domain Domain, opts SyntheticOptions) *Dataset {
	rng := rand.New(rand.NewSource(opts.Seed))
	minRating, maxRating := domain.RatingScale()
	mean := opts.RatingMean * float64(maxRating) / 5
	std := opts.RatingStd * float64(maxRating) / 5
	interactions := NewDataset()
	numItems := catalog.Len()
	low, high := numItems/10, 3*numItems/10
	if low < 1 {
		low = 1
	}
	if high <= low {
		high = low + 1
	}
	for user := 1; user <= opts.NumUsers; user++ {
		userId := fmt.Sprintf("user%d", user)
		numRatings := low + rng.Intn(high-low)
		for _, itemIndex := range rng.Perm(numItems)[:numRatings] {
			rating := float32(rng.NormFloat64()*std + mean)
			if rating < minRating {
				rating = minRating
			} else if rating > maxRating {
				rating = maxRating
			}
			interactions.Add(userId, catalog.Get(itemIndex).ID, rating)
		}
	}
	return interactions
}

// LoadRatings loads an interaction log from a CSV file with a header row
// containing user, item and rating columns.
func LoadRatings(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Trace(err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	userColumn, exist := findColumn(columns, "user_id", "user")
	if !exist {
		return nil, errors.New("no user column found")
	}
	itemColumn, exist := findColumn(columns, "anime_id", "movie_id", "item_id", "item")
	if !exist {
		return nil, errors.New("no item column found")
	}
	ratingColumn, exist := findColumn(columns, "user_rating", "rating")
	if !exist {
		return nil, errors.New("no rating column found")
	}
	interactions := NewDataset()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(field(record, ratingColumn)), 32)
		if err != nil {
			continue
		}
		userId := strings.TrimSpace(field(record, userColumn))
		itemId := strings.TrimSpace(field(record, itemColumn))
		if userId == "" || itemId == "" {
			continue
		}
		interactions.Add(userId, itemId, float32(rating))
	}
	return interactions, nil
}
