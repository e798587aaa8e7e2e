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

// Package model implements collaborative filtering by biased matrix
// factorization trained with stochastic gradient descent.
package model

import (
	"time"

	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/sorrel-io/sorrel/base/floats"
	"github.com/sorrel-io/sorrel/base/log"
	"github.com/sorrel-io/sorrel/dataset"
)

// Params are the hyper-parameters of the factorization model.
type Params struct {
	NFactors    int
	NEpochs     int
	Lr          float32
	Reg         float32
	InitMean    float32
	InitStdDev  float32
	RandomState int64
	// MinRating and MaxRating bound predictions to the domain rating scale.
	MinRating float32
	MaxRating float32
}

// UserEmbedding is a transient user representation produced by folding a
// request's favorites into a trained model. It lives for one request and is
// never written back into the model.
type UserEmbedding struct {
	Factor []float32
	Bias   float32
}

// SVD is a biased matrix factorization model. A rating is estimated as the
// global mean plus user and item biases plus the dot product of the latent
// factors. Once fitted the model is read-only and safe for concurrent use.
type SVD struct {
	Params
	UserFactor [][]float32
	ItemFactor [][]float32
	UserBias   []float32
	ItemBias   []float32
	GlobalMean float32

	userIndex *dataset.Dict
	itemIndex *dataset.Dict
}

// NewSVD creates an unfitted model with the given hyper-parameters.
func NewSVD(params Params) *SVD {
	return &SVD{Params: params}
}

// Fit trains the model on an interaction log by stochastic gradient descent.
func (svd *SVD) Fit(train *dataset.Dataset) {
	start := time.Now()
	svd.userIndex = train.UserIndex
	svd.itemIndex = train.ItemIndex
	numUsers := int(train.UserIndex.Count())
	numItems := int(train.ItemIndex.Count())
	rng := NewRandomGenerator(svd.RandomState)
	svd.UserFactor = rng.NormalMatrix32(numUsers, svd.NFactors, svd.InitMean, svd.InitStdDev)
	svd.ItemFactor = rng.NormalMatrix32(numItems, svd.NFactors, svd.InitMean, svd.InitStdDev)
	svd.UserBias = make([]float32, numUsers)
	svd.ItemBias = make([]float32, numItems)
	svd.GlobalMean = train.Mean()
	bar := progressbar.Default(int64(svd.NEpochs), "fit svd")
	buf := make([]float32, svd.NFactors)
	for epoch := 0; epoch < svd.NEpochs; epoch++ {
		cost := float32(0)
		for i := 0; i < train.Len(); i++ {
			userIndex, itemIndex, rating := train.Get(i)
			userFactor := svd.UserFactor[userIndex]
			itemFactor := svd.ItemFactor[itemIndex]
			diff := svd.internalPredict(userIndex, itemIndex) - rating
			cost += diff * diff
			svd.UserBias[userIndex] -= svd.Lr * (diff + svd.Reg*svd.UserBias[userIndex])
			svd.ItemBias[itemIndex] -= svd.Lr * (diff + svd.Reg*svd.ItemBias[itemIndex])
			// The item gradient uses the user factor from before this step.
			copy(buf, userFactor)
			floats.MulConst(userFactor, 1-svd.Lr*svd.Reg)
			floats.MulConstAddTo(itemFactor, -svd.Lr*diff, userFactor)
			floats.MulConst(itemFactor, 1-svd.Lr*svd.Reg)
			floats.MulConstAddTo(buf, -svd.Lr*diff, itemFactor)
		}
		_ = bar.Add(1)
		if epoch == svd.NEpochs-1 {
			log.Logger().Info("fit svd complete",
				zap.Int("num_users", numUsers),
				zap.Int("num_items", numItems),
				zap.Int("num_interactions", train.Len()),
				zap.Float32("cost", cost/float32(train.Len())),
				zap.Duration("elapsed", time.Since(start)))
		}
	}
}

// internalPredict estimates an unclamped rating from dense indices. Negative
// indices fall back to the available bias terms.
func (svd *SVD) internalPredict(userIndex, itemIndex int32) float32 {
	ret := svd.GlobalMean
	if userIndex >= 0 {
		ret += svd.UserBias[userIndex]
	}
	if itemIndex >= 0 {
		ret += svd.ItemBias[itemIndex]
	}
	if userIndex >= 0 && itemIndex >= 0 {
		ret += floats.Dot(svd.UserFactor[userIndex], svd.ItemFactor[itemIndex])
	}
	return ret
}

// Predict estimates the rating a user would give an item, clamped to the
// rating scale. An unknown item is an error since it has no factor row; an
// unknown user degrades to the bias-only estimate.
func (svd *SVD) Predict(userId, itemId string) (float32, error) {
	itemIndex := svd.itemIndex.Lookup(itemId)
	if itemIndex < 0 {
		return 0, errors.NotFoundf("item %q", itemId)
	}
	return svd.clamp(svd.internalPredict(svd.userIndex.Lookup(userId), itemIndex)), nil
}

// PredictByIndex estimates a clamped rating from dense indices.
func (svd *SVD) PredictByIndex(userIndex, itemIndex int32) float32 {
	return svd.clamp(svd.internalPredict(userIndex, itemIndex))
}

// ItemIndexOf returns the dense index of an item, or -1 if the item never
// appeared in the training set.
func (svd *SVD) ItemIndexOf(itemId string) int32 {
	return svd.itemIndex.Lookup(itemId)
}

// FoldIn learns a transient embedding for an unseen user who rated the given
// items at the given value. Item factors stay frozen; only the new user's
// vector and bias are updated, so concurrent requests never interfere. The
// zero initialization makes the result deterministic for a fixed model.
func (svd *SVD) FoldIn(itemIds []string, rating float32) UserEmbedding {
	embedding := UserEmbedding{Factor: make([]float32, svd.NFactors)}
	indices := make([]int32, 0, len(itemIds))
	for _, itemId := range itemIds {
		if itemIndex := svd.itemIndex.Lookup(itemId); itemIndex >= 0 {
			indices = append(indices, itemIndex)
		}
	}
	for epoch := 0; epoch < svd.NEpochs; epoch++ {
		for _, itemIndex := range indices {
			itemFactor := svd.ItemFactor[itemIndex]
			diff := svd.GlobalMean + embedding.Bias + svd.ItemBias[itemIndex] +
				floats.Dot(embedding.Factor, itemFactor) - rating
			embedding.Bias -= svd.Lr * (diff + svd.Reg*embedding.Bias)
			floats.MulConst(embedding.Factor, 1-svd.Lr*svd.Reg)
			floats.MulConstAddTo(itemFactor, -svd.Lr*diff, embedding.Factor)
		}
	}
	return embedding
}

// PredictFolded estimates the clamped rating a folded-in user would give an
// item identified by its dense index.
func (svd *SVD) PredictFolded(embedding UserEmbedding, itemIndex int32) float32 {
	return svd.clamp(svd.GlobalMean + embedding.Bias + svd.ItemBias[itemIndex] +
		floats.Dot(embedding.Factor, svd.ItemFactor[itemIndex]))
}

func (svd *SVD) clamp(rating float32) float32 {
	if rating < svd.MinRating {
		return svd.MinRating
	}
	if rating > svd.MaxRating {
		return svd.MaxRating
	}
	return rating
}
