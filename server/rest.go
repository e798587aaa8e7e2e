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

// Package server exposes the recommender over a REST-ful API.
package server

import (
	"fmt"
	"net/http"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sorrel-io/sorrel/base/log"
	"github.com/sorrel-io/sorrel/dataset"
	"github.com/sorrel-io/sorrel/filter"
	"github.com/sorrel-io/sorrel/logics"
)

// RestServer implements the REST-ful API server.
type RestServer struct {
	Recommender      *logics.Recommender
	HttpHost         string
	HttpPort         int
	MaxSearchResults int
	WebService       *restful.WebService
}

// NewRestServer creates a REST-ful API server over a recommender.
func NewRestServer(recommender *logics.Recommender, host string, port, maxSearchResults int) *RestServer {
	return &RestServer{
		Recommender:      recommender,
		HttpHost:         host,
		HttpPort:         port,
		MaxSearchResults: maxSearchResults,
		WebService:       new(restful.WebService),
	}
}

// StartHttpServer starts the REST-ful API server.
func (s *RestServer) StartHttpServer() {
	s.CreateWebService()
	restful.DefaultContainer.Add(s.WebService)
	restful.DefaultContainer.Filter(restful.OPTIONSFilter())
	http.Handle("/metrics", promhttp.Handler())
	log.Logger().Info("start http server",
		zap.String("url", fmt.Sprintf("http://%s:%d", s.HttpHost, s.HttpPort)))
	log.Logger().Fatal("failed to start http server",
		zap.Error(http.ListenAndServe(fmt.Sprintf("%s:%d", s.HttpHost, s.HttpPort), nil)))
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	chain.ProcessFilter(req, resp)
	log.Logger().Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.Int("status_code", resp.StatusCode()))
}

// SearchResult is one row of a catalog title search.
type SearchResult struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Year   int    `json:"year"`
	Author string `json:"author,omitempty"`
}

// Preferences are the optional constraints of a recommendation request.
type Preferences struct {
	Genre string `json:"genre"`
	Mood  string `json:"mood"`
	Era   string `json:"era"`
}

func (p Preferences) toFilter() filter.Preferences {
	return filter.Preferences{Genre: p.Genre, Mood: p.Mood, Era: p.Era}
}

// RecommendQuery is the body of a collaborative recommendation request.
type RecommendQuery struct {
	Type        string      `json:"type"`
	Favorites   []string    `json:"favorites"`
	Preferences Preferences `json:"preferences"`
}

// BookQuery is the body of a content-based book recommendation request.
type BookQuery struct {
	BookTitles []string `json:"book_titles"`
	Genre      string   `json:"genre"`
	Mood       string   `json:"mood"`
	Era        string   `json:"era"`
}

// BookRecommendations wraps the content-based response payload.
type BookRecommendations struct {
	Recommendations []logics.BookRecommendation `json:"recommendations"`
}

// CreateWebService creates web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/")
	ws.Filter(LogFilter)

	// Search a catalog by title
	ws.Route(ws.GET("/search").To(s.search).
		Doc("Search items of a domain by title substring.").
		Param(ws.QueryParameter("type", "domain of the catalog").DataType("string")).
		Param(ws.QueryParameter("query", "title substring").DataType("string")).
		Writes([]SearchResult{}))
	// Recommend items for a favorites set
	ws.Route(ws.POST("/recommend").To(s.recommend).
		Doc("Recommend items from favorites via collaborative filtering.").
		Reads(RecommendQuery{}).
		Writes([]logics.Recommendation{}))
	// Recommend books similar to favorite titles
	ws.Route(ws.POST("/recommendations/").To(s.recommendBooks).
		Doc("Recommend books similar to favorite titles.").
		Reads(BookQuery{}).
		Writes(BookRecommendations{}))
}

func (s *RestServer) search(request *restful.Request, response *restful.Response) {
	timer := prometheus.NewTimer(SearchSeconds)
	defer timer.ObserveDuration()
	domain, err := dataset.ParseDomain(request.QueryParameter("type"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	catalog, err := s.Recommender.Catalog(domain)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	results := make([]SearchResult, 0, s.MaxSearchResults)
	for _, item := range catalog.Search(request.QueryParameter("query"), s.MaxSearchResults) {
		results = append(results, SearchResult{
			ID:     item.ID,
			Title:  item.Title,
			Year:   item.Year,
			Author: item.Author,
		})
	}
	Ok(response, results)
}

func (s *RestServer) recommend(request *restful.Request, response *restful.Response) {
	timer := prometheus.NewTimer(RecommendSeconds)
	defer timer.ObserveDuration()
	var query RecommendQuery
	if err := request.ReadEntity(&query); err != nil {
		BadRequest(response, err)
		return
	}
	domain, err := dataset.ParseDomain(query.Type)
	if err != nil {
		BadRequest(response, err)
		return
	}
	recommendations, err := s.Recommender.Recommend(domain, query.Favorites, query.Preferences.toFilter())
	if err != nil {
		if errors.IsBadRequest(err) || errors.IsNotValid(err) {
			BadRequest(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	Ok(response, recommendations)
}

func (s *RestServer) recommendBooks(request *restful.Request, response *restful.Response) {
	timer := prometheus.NewTimer(RecommendBooksSeconds)
	defer timer.ObserveDuration()
	var query BookQuery
	if err := request.ReadEntity(&query); err != nil {
		BadRequest(response, err)
		return
	}
	preferences := filter.Preferences{Genre: query.Genre, Mood: query.Mood, Era: query.Era}
	recommendations, err := s.Recommender.RecommendBooks(query.BookTitles, preferences)
	if err != nil {
		if errors.IsBadRequest(err) || errors.IsNotValid(err) {
			BadRequest(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	if recommendations == nil {
		recommendations = []logics.BookRecommendation{}
	}
	Ok(response, BookRecommendations{Recommendations: recommendations})
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// InternalServerError returns an internal server error. The full error chain
// is logged while the caller only sees the summarized message.
func InternalServerError(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("internal server error",
		zap.String("error_stack", errors.ErrorStack(err)))
	if err = response.WriteError(http.StatusInternalServerError, errors.New(err.Error())); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// Ok sends the content as JSON to the client.
func Ok(response *restful.Response, content interface{}) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteAsJson(content); err != nil {
		log.Logger().Error("failed to write json", zap.Error(err))
	}
}
