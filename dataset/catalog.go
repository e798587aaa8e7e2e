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
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/sorrel-io/sorrel/base/log"
)

//go:embed sample_books.csv
var sampleBooks []byte

// Item is an immutable catalog record.
type Item struct {
	ID        string
	Title     string
	Genres    []string
	Year      int
	AvgRating float32
	Author    string
	NumVotes  int
	ImageURL  string
}

// Catalog is an ordered, deduplicated collection of items. The position of
// an item inside the catalog is stable after construction, downstream code
// relies on it to align feature matrices with items.
type Catalog struct {
	items  []Item
	lookup map[string]int
}

// NewCatalog builds a catalog from items, dropping duplicated identifiers
// (first occurrence wins).
func NewCatalog(items []Item) *Catalog {
	c := &Catalog{lookup: make(map[string]int, len(items))}
	for _, item := range items {
		if _, exist := c.lookup[item.ID]; exist {
			continue
		}
		c.lookup[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.items)
}

func (c *Catalog) Items() []Item {
	return c.items
}

func (c *Catalog) Get(i int) Item {
	return c.items[i]
}

// Find returns the item with the given identifier.
func (c *Catalog) Find(id string) (Item, bool) {
	if i, exist := c.lookup[id]; exist {
		return c.items[i], true
	}
	return Item{}, false
}

// Contains reports whether an identifier exists in the catalog.
func (c *Catalog) Contains(id string) bool {
	_, exist := c.lookup[id]
	return exist
}

// Search returns up to n items whose title contains the query,
// case-insensitively. A blank query matches nothing.
func (c *Catalog) Search(query string, n int) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	results := make([]Item, 0, n)
	if query == "" {
		return results
	}
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.Title), query) {
			results = append(results, item)
			if len(results) >= n {
				break
			}
		}
	}
	return results
}

// MostVoted returns the n items with the largest vote counts. Used as the
// popularity fallback of the content-based path.
func (c *Catalog) MostVoted(n int) []Item {
	sorted := make([]Item, len(c.items))
	copy(sorted, c.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NumVotes > sorted[j].NumVotes
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// CatalogOptions controls catalog loading.
type CatalogOptions struct {
	// TypeFilter keeps only rows whose "type" column matches (e.g. "movie"
	// vs "tv_show" in the merged movie dataset). Empty keeps every row.
	TypeFilter string
	// MaxSize caps the catalog at the top MaxSize items by average rating,
	// bounding downstream matrix sizes.
	MaxSize int
}

// LoadCatalog loads a catalog from a CSV file with a header row. Rows with a
// missing identifier or an unparsable rating are dropped. Items are ordered
// by average rating, descending.
func LoadCatalog(path string, opts CatalogOptions) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	catalog, err := readCatalog(file, opts)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to load catalog from %s", path)
	}
	return catalog, nil
}

// LoadBookCatalog loads the book catalog, falling back to a small embedded
// sample on any error so the content-based service stays available.
func LoadBookCatalog(path string, opts CatalogOptions) *Catalog {
	catalog, err := LoadCatalog(path, opts)
	if err != nil {
		log.Logger().Warn("failed to load book catalog, falling back to embedded sample",
			zap.String("path", path), zap.Error(err))
		catalog, err = readCatalog(bytes.NewReader(sampleBooks), CatalogOptions{MaxSize: opts.MaxSize})
		if err != nil {
			// The embedded sample is validated by tests, parsing it never fails.
			panic(err)
		}
	}
	return catalog
}

func readCatalog(r io.Reader, opts CatalogOptions) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Trace(err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idColumn, exist := findColumn(columns, "movie_id", "anime_id", "item_id", "id")
	if !exist {
		return nil, errors.New("no identifier column found")
	}
	items := make([]Item, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		item := Item{ID: strings.TrimSpace(field(record, idColumn))}
		if item.ID == "" {
			continue
		}
		rating, err := strconv.ParseFloat(fieldNamed(record, columns, "avg_rating", "rating"), 32)
		if err != nil {
			continue
		}
		item.AvgRating = float32(rating)
		item.Title = fieldNamed(record, columns, "title", "name")
		item.Genres = SplitGenres(fieldNamed(record, columns, "genre", "genres"))
		item.Author = fieldNamed(record, columns, "author")
		item.ImageURL = fieldNamed(record, columns, "image_url", "image")
		if year, err := strconv.Atoi(fieldNamed(record, columns, "year")); err == nil {
			item.Year = year
		}
		if votes, err := strconv.Atoi(fieldNamed(record, columns, "num_votes", "votes")); err == nil {
			item.NumVotes = votes
		}
		if opts.TypeFilter != "" && fieldNamed(record, columns, "type") != opts.TypeFilter {
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AvgRating > items[j].AvgRating
	})
	if opts.MaxSize > 0 && len(items) > opts.MaxSize {
		items = items[:opts.MaxSize]
	}
	return NewCatalog(items), nil
}

// SplitGenres splits a comma or pipe joined genre string into trimmed tags.
func SplitGenres(s string) []string {
	tags := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|'
	})
	return lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		tag = strings.TrimSpace(tag)
		return tag, tag != ""
	})
}

func findColumn(columns map[string]int, names ...string) (int, bool) {
	for _, name := range names {
		if i, exist := columns[name]; exist {
			return i, true
		}
	}
	return 0, false
}

func fieldNamed(record []string, columns map[string]int, names ...string) string {
	if i, exist := findColumn(columns, names...); exist {
		return strings.TrimSpace(field(record, i))
	}
	return ""
}

func field(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}
