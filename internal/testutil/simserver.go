// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil provides an httptest-backed fake simulation API.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-scout/internal/simapi"
)

// TestKey is the credential SimServer accepts by default.
const TestKey = "test-key"

// SimServer serves a fixed tree under /api/list and /api/get.
type SimServer struct {
	*httptest.Server

	Header string
	Key    string

	mu         sync.Mutex
	tree       map[string]simapi.MockNode
	failList   map[string]int
	failGet    map[string]int
	slow       map[string]time.Duration
	requests   []string
	lastHeader http.Header
}

// NewSimServer starts a server for tree and closes it when the test ends.
func NewSimServer(t *testing.T, tree map[string]simapi.MockNode) *SimServer {
	t.Helper()
	s := &SimServer{
		Header:   "X-API-Key",
		Key:      TestKey,
		tree:     tree,
		failList: make(map[string]int),
		failGet:  make(map[string]int),
		slow:     make(map[string]time.Duration),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value for api.base_url.
func (s *SimServer) BaseURL() string {
	return s.URL + "/api"
}

// FailList makes the next n listings of path answer 500. n < 0 fails forever.
func (s *SimServer) FailList(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failList[path] = n
}

// FailGet makes the next n reads of endpoint answer 500. n < 0 fails forever.
func (s *SimServer) FailGet(endpoint string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failGet[endpoint] = n
}

// Slow delays every response for path (list or get) by d.
func (s *SimServer) Slow(path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slow[path] = d
}

// Requests returns the request paths served so far.
func (s *SimServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// LastHeader returns the headers of the most recent request.
func (s *SimServer) LastHeader() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHeader.Clone()
}

func (s *SimServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.Path)
	s.lastHeader = r.Header.Clone()
	s.mu.Unlock()

	if r.Header.Get(s.Header) != s.Key {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
		return
	}

	switch {
	case strings.HasPrefix(r.URL.Path, "/api/list/"):
		path := strings.TrimPrefix(r.URL.Path, "/api/list/")
		s.wait(path)
		if s.consume(s.failList, path) {
			http.Error(w, "simulation busy", http.StatusInternalServerError)
			return
		}
		s.writeListing(w, path)
	case strings.HasPrefix(r.URL.Path, "/api/get/"):
		path := strings.TrimPrefix(r.URL.Path, "/api/get/")
		s.wait(path)
		if s.consume(s.failGet, path) {
			http.Error(w, "simulation busy", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{
			"Result": simapi.ResultSuccess,
			"Path":   path,
			"Value":  len(path),
		})
	default:
		http.NotFound(w, r)
	}
}

func (s *SimServer) writeListing(w http.ResponseWriter, path string) {
	s.mu.Lock()
	node, ok := s.tree[path]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, map[string]interface{}{"Result": "NotFound"})
		return
	}

	listing := simapi.Listing{Result: simapi.ResultSuccess}
	for _, name := range node.Endpoints {
		listing.Endpoints = append(listing.Endpoints, simapi.Named{Name: name})
	}
	for _, name := range node.Nodes {
		listing.Nodes = append(listing.Nodes, simapi.Named{Name: name})
	}
	writeJSON(w, listing)
}

func (s *SimServer) consume(failures map[string]int, path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := failures[path]
	if !ok || n == 0 {
		return false
	}
	if n > 0 {
		failures[path] = n - 1
	}
	return true
}

func (s *SimServer) wait(path string) {
	s.mu.Lock()
	d := s.slow[path]
	s.mu.Unlock()
	if d > 0 {
		time.Sleep(d)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
