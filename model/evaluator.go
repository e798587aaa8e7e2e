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

package model

import (
	"github.com/chewxy/math32"

	"github.com/sorrel-io/sorrel/base/heap"
	"github.com/sorrel-io/sorrel/dataset"
)

// RMSE computes the root mean squared error over a held-out test set.
func RMSE(svd *SVD, test *dataset.Dataset) float32 {
	if test.Len() == 0 {
		return 0
	}
	sum := float32(0)
	for i := 0; i < test.Len(); i++ {
		userIndex, itemIndex, rating := test.Get(i)
		diff := svd.PredictByIndex(userIndex, itemIndex) - rating
		sum += diff * diff
	}
	return math32.Sqrt(sum / float32(test.Len()))
}

// MAE computes the mean absolute error over a held-out test set.
func MAE(svd *SVD, test *dataset.Dataset) float32 {
	if test.Len() == 0 {
		return 0
	}
	sum := float32(0)
	for i := 0; i < test.Len(); i++ {
		userIndex, itemIndex, rating := test.Get(i)
		sum += math32.Abs(svd.PredictByIndex(userIndex, itemIndex) - rating)
	}
	return sum / float32(test.Len())
}

// PrecisionAtK computes the fraction of each user's top k estimated test
// items whose true rating reaches the relevance threshold, averaged over
// users with test interactions.
func PrecisionAtK(svd *SVD, test *dataset.Dataset, k int, threshold float32) float32 {
	if test.Len() == 0 || k <= 0 {
		return 0
	}
	filters := make(map[int32]*heap.TopKFilter[float32, float32])
	for i := 0; i < test.Len(); i++ {
		userIndex, itemIndex, rating := test.Get(i)
		filter, exist := filters[userIndex]
		if !exist {
			filter = heap.NewTopKFilter[float32, float32](k)
			filters[userIndex] = filter
		}
		filter.Push(rating, svd.PredictByIndex(userIndex, itemIndex))
	}
	sum := float32(0)
	for _, filter := range filters {
		ratings, _ := filter.PopAll()
		relevant := 0
		for _, rating := range ratings {
			if rating >= threshold {
				relevant++
			}
		}
		sum += float32(relevant) / float32(k)
	}
	return sum / float32(len(filters))
}
