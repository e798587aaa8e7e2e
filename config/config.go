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

package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the sorrel service.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	CF        CFConfig        `mapstructure:"cf"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// ServerConfig is the configuration for the HTTP server.
type ServerConfig struct {
	HTTPHost string `mapstructure:"http_host"`
	HTTPPort int    `mapstructure:"http_port" validate:"gte=0"`
}

// DataConfig locates source catalogs and controls synthetic interaction
// generation.
type DataConfig struct {
	MoviePath        string  `mapstructure:"movie_path"`
	AnimePath        string  `mapstructure:"anime_path"`
	AnimeRatingsPath string  `mapstructure:"anime_ratings_path"`
	BookPath         string  `mapstructure:"book_path"`
	CatalogSize      int     `mapstructure:"catalog_size" validate:"gt=0"`
	NumUsers         int     `mapstructure:"num_users" validate:"gt=0"`
	RatingMean       float64 `mapstructure:"rating_mean"`
	RatingStdDev     float64 `mapstructure:"rating_std" validate:"gte=0"`
}

// CFConfig holds hyper-parameters for collaborative filtering models. These
// are tuned offline and fixed at startup, never re-derived per request.
type CFConfig struct {
	NFactors    int     `mapstructure:"n_factors" validate:"gt=0"`
	NEpochs     int     `mapstructure:"n_epochs" validate:"gt=0"`
	Lr          float64 `mapstructure:"lr" validate:"gt=0"`
	Reg         float64 `mapstructure:"reg" validate:"gte=0"`
	InitMean    float64 `mapstructure:"init_mean"`
	InitStdDev  float64 `mapstructure:"init_std" validate:"gte=0"`
	RandomState int64   `mapstructure:"random_state"`
	TestRatio   float64 `mapstructure:"test_ratio" validate:"gt=0,lt=1"`
	TopK        int     `mapstructure:"top_k" validate:"gt=0"`
}

// RecommendConfig controls the request path of the recommender.
type RecommendConfig struct {
	MaxFavorites     int `mapstructure:"max_favorites" validate:"gt=0"`
	TopN             int `mapstructure:"top_n" validate:"gt=0"`
	PoolSize         int `mapstructure:"pool_size" validate:"gt=0"`
	MinFilterSize    int `mapstructure:"min_filter_size" validate:"gte=1"`
	MaxSearchResults int `mapstructure:"max_search_results" validate:"gt=0"`
}

func setDefault(v *viper.Viper) {
	// server
	v.SetDefault("server.http_host", "0.0.0.0")
	v.SetDefault("server.http_port", 5000)
	// data
	v.SetDefault("data.movie_path", "data/merged_movie_data.csv")
	v.SetDefault("data.anime_path", "data/anime_processed.csv")
	v.SetDefault("data.anime_ratings_path", "data/ratings_processed_sample.csv")
	v.SetDefault("data.book_path", "data/book_processed.csv")
	v.SetDefault("data.catalog_size", 10000)
	v.SetDefault("data.num_users", 1000)
	v.SetDefault("data.rating_mean", 3.9)
	v.SetDefault("data.rating_std", 0.3)
	// cf
	v.SetDefault("cf.n_factors", 150)
	v.SetDefault("cf.n_epochs", 50)
	v.SetDefault("cf.lr", 0.001)
	v.SetDefault("cf.reg", 0.1)
	v.SetDefault("cf.init_mean", 0)
	v.SetDefault("cf.init_std", 0.1)
	v.SetDefault("cf.random_state", 42)
	v.SetDefault("cf.test_ratio", 0.2)
	v.SetDefault("cf.top_k", 5)
	// recommend
	v.SetDefault("recommend.max_favorites", 5)
	v.SetDefault("recommend.top_n", 5)
	v.SetDefault("recommend.pool_size", 10)
	v.SetDefault("recommend.min_filter_size", 1)
	v.SetDefault("recommend.max_search_results", 10)
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	v := viper.New()
	setDefault(v)
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		panic(err)
	}
	return &conf
}

// LoadConfig loads the configuration from a file. A missing file falls back
// to defaults so the service can run from environment variables alone.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("sorrel")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := errors.Cause(err).(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks the configuration against struct tags.
func (conf *Config) Validate() error {
	return validator.New().Struct(conf)
}
