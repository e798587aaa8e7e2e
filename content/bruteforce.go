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
	"github.com/sorrel-io/sorrel/base/floats"
	"github.com/sorrel-io/sorrel/base/heap"
)

// Index is a brute-force nearest neighbor index over a feature space. The
// catalogs it serves are small enough that a linear scan beats maintaining
// an approximate structure.
type Index struct {
	space *FeatureSpace
	norms []float32
}

// NewIndex builds an index over a feature space. Row norms are precomputed
// so each query costs one dot product per row.
func NewIndex(space *FeatureSpace) *Index {
	norms := make([]float32, space.Len())
	for i := range norms {
		norms[i] = floats.Norm(space.Vector(i))
	}
	return &Index{space: space, norms: norms}
}

// Search returns the rows most similar to the query by cosine similarity,
// in decreasing order. k is clamped to the index size.
func (index *Index) Search(query []float32, k int) ([]int, []float32) {
	if k > index.space.Len() {
		k = index.space.Len()
	}
	if k <= 0 || len(query) == 0 {
		return nil, nil
	}
	queryNorm := floats.Norm(query)
	if queryNorm == 0 {
		return nil, nil
	}
	pq := heap.NewPriorityQueue(false)
	for i := 0; i < index.space.Len(); i++ {
		similarity := float32(0)
		if index.norms[i] > 0 {
			similarity = floats.Dot(query, index.space.Vector(i)) / (queryNorm * index.norms[i])
		}
		pq.Push(int32(i), similarity)
		if pq.Len() > k {
			pq.Pop()
		}
	}
	pq = pq.Reverse()
	rows := make([]int, 0, k)
	similarities := make([]float32, 0, k)
	for pq.Len() > 0 {
		row, similarity := pq.Pop()
		rows = append(rows, int(row))
		similarities = append(similarities, similarity)
	}
	return rows, similarities
}
