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
	"strings"

	"github.com/juju/errors"
)

// Domain is a recommendation domain. Each domain carries its own catalog,
// interaction log and rating scale.
type Domain int

const (
	Movies Domain = iota
	TVShows
	Anime
	Books
)

// Domains lists all recognized domains.
var Domains = []Domain{Movies, TVShows, Anime, Books}

// ParseDomain parses a domain from a request string.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(s) {
	case "movies":
		return Movies, nil
	case "tvshows":
		return TVShows, nil
	case "anime":
		return Anime, nil
	case "books":
		return Books, nil
	default:
		return 0, errors.NotValidf("type %q, use 'movies', 'tvshows', 'anime' or 'books'", s)
	}
}

func (d Domain) String() string {
	switch d {
	case Movies:
		return "movies"
	case TVShows:
		return "tvshows"
	case Anime:
		return "anime"
	case Books:
		return "books"
	default:
		return "unknown"
	}
}

// RatingScale returns the inclusive rating bounds of the domain.
func (d Domain) RatingScale() (min, max float32) {
	if d == Anime {
		return 1, 10
	}
	return 1, 5
}

// LikedRating is the rating assigned to a favorite when folding a new user
// into the model.
func (d Domain) LikedRating() float32 {
	if d == Anime {
		return 8.0
	}
	return 4.5
}

// RelevanceThreshold is the held-out rating above which an item counts as
// relevant for Precision@K.
func (d Domain) RelevanceThreshold() float32 {
	if d == Anime {
		return 7.0
	}
	return 3.5
}
