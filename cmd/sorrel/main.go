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

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sorrel-io/sorrel/base/log"
	"github.com/sorrel-io/sorrel/config"
	"github.com/sorrel-io/sorrel/dataset"
	"github.com/sorrel-io/sorrel/logics"
	"github.com/sorrel-io/sorrel/model"
	"github.com/sorrel-io/sorrel/server"
)

var sorrelCommand = &cobra.Command{
	Use:   "sorrel",
	Short: "A hybrid media recommender service.",
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)
		configPath, _ := cmd.PersistentFlags().GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.String("path", configPath), zap.Error(err))
		}
		recommender := buildRecommender(conf)
		restServer := server.NewRestServer(recommender,
			conf.Server.HTTPHost, conf.Server.HTTPPort, conf.Recommend.MaxSearchResults)
		restServer.StartHttpServer()
	},
}

func init() {
	sorrelCommand.PersistentFlags().StringP("config", "c", "config.toml", "configuration file path")
	sorrelCommand.PersistentFlags().BoolP("debug", "d", false, "use debug log mode")
	log.AddFlags(sorrelCommand.PersistentFlags())
}

// buildRecommender loads catalogs and trains one collaborative model per
// domain. Training blocks startup, the service accepts traffic only with all
// models in place. A missing movie or anime catalog is fatal while the book
// catalog degrades to the embedded sample.
func buildRecommender(conf *config.Config) *logics.Recommender {
	recommender := logics.NewRecommender(logics.Options{
		MaxFavorites:  conf.Recommend.MaxFavorites,
		TopN:          conf.Recommend.TopN,
		PoolSize:      conf.Recommend.PoolSize,
		MinFilterSize: conf.Recommend.MinFilterSize,
	})
	opts := dataset.CatalogOptions{MaxSize: conf.Data.CatalogSize}
	for _, domain := range dataset.Domains {
		var (
			catalog *dataset.Catalog
			err     error
		)
		switch domain {
		case dataset.Movies:
			catalog, err = dataset.LoadCatalog(conf.Data.MoviePath,
				dataset.CatalogOptions{TypeFilter: "movie", MaxSize: conf.Data.CatalogSize})
		case dataset.TVShows:
			catalog, err = dataset.LoadCatalog(conf.Data.MoviePath,
				dataset.CatalogOptions{TypeFilter: "tv_show", MaxSize: conf.Data.CatalogSize})
		case dataset.Anime:
			catalog, err = dataset.LoadCatalog(conf.Data.AnimePath, opts)
		case dataset.Books:
			catalog = dataset.LoadBookCatalog(conf.Data.BookPath, opts)
		}
		if err != nil {
			log.Logger().Fatal("failed to load catalog",
				zap.Stringer("domain", domain), zap.Error(err))
		}
		interactions := loadInteractions(conf, domain, catalog)
		recommender.Register(domain, catalog, trainModel(conf, domain, interactions))
	}
	return recommender
}

// loadInteractions returns the training interactions of a domain: real
// ratings for anime when the ratings file is readable, synthetic ratings
// everywhere else. Each domain seeds its own generator so datasets stay
// reproducible regardless of load order.
func loadInteractions(conf *config.Config, domain dataset.Domain, catalog *dataset.Catalog) *dataset.Dataset {
	if domain == dataset.Anime {
		interactions, err := dataset.LoadRatings(conf.Data.AnimeRatingsPath)
		if err == nil {
			log.Logger().Info("loaded anime ratings",
				zap.String("path", conf.Data.AnimeRatingsPath),
				zap.Int("num_interactions", interactions.Len()))
			return interactions
		}
		log.Logger().Warn("failed to load anime ratings, generating synthetic interactions",
			zap.String("path", conf.Data.AnimeRatingsPath), zap.Error(err))
	}
	return dataset.SyntheticInteractions(catalog, domain, dataset.SyntheticOptions{
		NumUsers:   conf.Data.NumUsers,
		RatingMean: conf.Data.RatingMean,
		RatingStd:  conf.Data.RatingStdDev,
		Seed:       conf.CF.RandomState + int64(domain),
	})
}

// trainModel fits a factorization model on the train split of a domain's
// interactions and logs held-out evaluation metrics as startup diagnostics.
func trainModel(conf *config.Config, domain dataset.Domain, interactions *dataset.Dataset) *model.SVD {
	minRating, maxRating := domain.RatingScale()
	svd := model.NewSVD(model.Params{
		NFactors:    conf.CF.NFactors,
		NEpochs:     conf.CF.NEpochs,
		Lr:          float32(conf.CF.Lr),
		Reg:         float32(conf.CF.Reg),
		InitMean:    float32(conf.CF.InitMean),
		InitStdDev:  float32(conf.CF.InitStdDev),
		RandomState: conf.CF.RandomState,
		MinRating:   minRating,
		MaxRating:   maxRating,
	})
	train, test := interactions.SplitRatio(conf.CF.TestRatio, conf.CF.RandomState)
	log.Logger().Info("fit collaborative filtering model", zap.Stringer("domain", domain))
	svd.Fit(train)
	log.Logger().Info("evaluate collaborative filtering model",
		zap.Stringer("domain", domain),
		zap.Float32("rmse", model.RMSE(svd, test)),
		zap.Float32("mae", model.MAE(svd, test)),
		zap.Float32("precision_at_k", model.PrecisionAtK(svd, test, conf.CF.TopK, domain.RelevanceThreshold())))
	return svd
}

func main() {
	if err := sorrelCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
