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

package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sorrel-io/sorrel/dataset"
)

func testBooks() []dataset.Item {
	return []dataset.Item{
		{ID: "b0", Title: "Shadow Road", Genres: []string{"Fantasy", "Adventure"}, AvgRating: 4.5, NumVotes: 1200},
		{ID: "b1", Title: "Shadow Gate", Genres: []string{"Fantasy", "Adventure"}, AvgRating: 4.4, NumVotes: 1100},
		{ID: "b2", Title: "Quiet Letters", Genres: []string{"Romance"}, AvgRating: 4.2, NumVotes: 900},
		{ID: "b3", Title: "Iron Ledger", Genres: []string{"Thriller", "Mystery"}, AvgRating: 4.0, NumVotes: 2500},
		{ID: "b4", Title: "Soft Rain", Genres: []string{"Romance", "Drama"}, AvgRating: 4.3, NumVotes: 800},
	}
}

func TestBuildFeatureSpace(t *testing.T) {
	space := BuildFeatureSpace(testBooks())
	assert.Equal(t, 5, space.Len())
	assert.Equal(t, "b0", space.Item(0).ID)
	// 6 distinct genres plus rating and votes columns
	assert.Len(t, space.Vector(0), 8)
	// genre columns follow the sorted vocabulary: Adventure first
	assert.Equal(t, float32(1), space.Vector(0)[0])
	assert.Equal(t, float32(0), space.Vector(2)[0])
	// standardized columns have zero mean
	ratingSum, voteSum := float32(0), float32(0)
	for i := 0; i < space.Len(); i++ {
		ratingSum += space.Vector(i)[6]
		voteSum += space.Vector(i)[7]
	}
	assert.InDelta(t, 0, ratingSum, 1e-4)
	assert.InDelta(t, 0, voteSum, 1e-4)
}

func TestFeatureSpace_Reduce(t *testing.T) {
	space := BuildFeatureSpace(testBooks())
	space.Reduce(3)
	assert.Len(t, space.Vector(0), 3)
	// row alignment survives the projection
	assert.Equal(t, 5, space.Len())
	assert.Equal(t, "b3", space.Item(3).ID)
	// reduction wider than the space is a no-op on the row count
	tiny := BuildFeatureSpace(testBooks()[:2])
	tiny.Reduce(50)
	assert.Equal(t, 2, tiny.Len())
	assert.LessOrEqual(t, len(tiny.Vector(0)), 2)
}

func TestIndex_Search(t *testing.T) {
	space := BuildFeatureSpace(testBooks())
	index := NewIndex(space)
	// the twin fantasy adventure is the nearest neighbor of b0
	rows, similarities := index.Search(space.Vector(0), 2)
	assert.Equal(t, []int{0, 1}, rows)
	assert.InDelta(t, 1, similarities[0], 1e-4)
	// k is clamped to the index size
	rows, _ = index.Search(space.Vector(0), 100)
	assert.Len(t, rows, 5)
	// degenerate queries return nothing
	rows, _ = index.Search(nil, 3)
	assert.Nil(t, rows)
	rows, _ = index.Search(make([]float32, 8), 3)
	assert.Nil(t, rows)
}

func TestCentroid(t *testing.T) {
	space := BuildFeatureSpace(testBooks())
	assert.Nil(t, space.Centroid(nil))
	centroid := space.Centroid([]int{0, 1})
	assert.Len(t, centroid, 8)
	// both rows share the adventure and fantasy columns
	assert.Equal(t, float32(1), centroid[0])
	assert.Equal(t, float32(1), centroid[2])
	index := NewIndex(space)
	rows, _ := index.Search(centroid, 3)
	// the centroid of the two fantasy books stays in their neighborhood
	assert.Contains(t, rows, 0)
	assert.Contains(t, rows, 1)
}
