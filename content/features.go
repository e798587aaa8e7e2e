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

// Package content implements content-based similarity: catalog items are
// embedded into a genre and popularity feature space, reduced by truncated
// SVD and searched by cosine similarity.
package content

import (
	"sort"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/mat"

	"github.com/sorrel-io/sorrel/dataset"
)

// FeatureSpace holds one feature vector per catalog item. Row i always
// describes Item(i); every transformation preserves this alignment.
type FeatureSpace struct {
	items   []dataset.Item
	vectors [][]float32
}

// BuildFeatureSpace embeds items into a feature space with one binary column
// per genre plus standardized average rating and vote count columns.
func BuildFeatureSpace(items []dataset.Item) *FeatureSpace {
	genres := make(map[string]int)
	for _, item := range items {
		for _, genre := range item.Genres {
			genres[genre] = 0
		}
	}
	vocabulary := make([]string, 0, len(genres))
	for genre := range genres {
		vocabulary = append(vocabulary, genre)
	}
	sort.Strings(vocabulary)
	for i, genre := range vocabulary {
		genres[genre] = i
	}
	columns := len(vocabulary) + 2
	vectors := make([][]float32, len(items))
	for i, item := range items {
		vectors[i] = make([]float32, columns)
		for _, genre := range item.Genres {
			vectors[i][genres[genre]] = 1
		}
		vectors[i][columns-2] = item.AvgRating
		vectors[i][columns-1] = float32(item.NumVotes)
	}
	space := &FeatureSpace{items: items, vectors: vectors}
	space.standardize(columns - 2)
	space.standardize(columns - 1)
	return space
}

// standardize scales a column to zero mean and unit variance. A constant
// column is zeroed out so it cannot dominate the cosine.
func (space *FeatureSpace) standardize(column int) {
	if len(space.vectors) == 0 {
		return
	}
	mean := float32(0)
	for _, vector := range space.vectors {
		mean += vector[column]
	}
	mean /= float32(len(space.vectors))
	variance := float32(0)
	for _, vector := range space.vectors {
		diff := vector[column] - mean
		variance += diff * diff
	}
	std := math32.Sqrt(variance / float32(len(space.vectors)))
	for _, vector := range space.vectors {
		if std > 0 {
			vector[column] = (vector[column] - mean) / std
		} else {
			vector[column] = 0
		}
	}
}

// Reduce projects the feature space onto its top k singular components,
// replacing each row with U * Sigma truncated to k columns. The projection
// is skipped when the space is already narrower than k.
func (space *FeatureSpace) Reduce(k int) {
	rows := len(space.vectors)
	if rows == 0 {
		return
	}
	columns := len(space.vectors[0])
	if k > columns-1 {
		k = columns - 1
	}
	if k > rows {
		k = rows
	}
	if k <= 0 {
		return
	}
	data := make([]float64, rows*columns)
	for i, vector := range space.vectors {
		for j, value := range vector {
			data[i*columns+j] = float64(value)
		}
	}
	var svd mat.SVD
	if !svd.Factorize(mat.NewDense(rows, columns, data), mat.SVDThin) {
		return
	}
	var u mat.Dense
	svd.UTo(&u)
	values := svd.Values(nil)
	for i := range space.vectors {
		reduced := make([]float32, k)
		for j := 0; j < k; j++ {
			reduced[j] = float32(u.At(i, j) * values[j])
		}
		space.vectors[i] = reduced
	}
}

// Len returns the number of rows.
func (space *FeatureSpace) Len() int {
	return len(space.vectors)
}

// Item returns the catalog item described by row i.
func (space *FeatureSpace) Item(i int) dataset.Item {
	return space.items[i]
}

// Vector returns the feature vector of row i.
func (space *FeatureSpace) Vector(i int) []float32 {
	return space.vectors[i]
}

// Centroid returns the mean vector of the given rows, or nil if empty.
func (space *FeatureSpace) Centroid(rows []int) []float32 {
	if len(rows) == 0 {
		return nil
	}
	centroid := make([]float32, len(space.vectors[rows[0]]))
	for _, row := range rows {
		for j, value := range space.vectors[row] {
			centroid[j] += value
		}
	}
	for j := range centroid {
		centroid[j] /= float32(len(rows))
	}
	return centroid
}
