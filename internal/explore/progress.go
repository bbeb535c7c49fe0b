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

package explore

import (
	"encoding/json"
	"time"

	"github.com/sirseerhq/sirseer-scout/internal/state"
)

// Progress is the in-memory discovery state of one root node.
// It is not safe for concurrent use.
type Progress struct {
	Target       string
	RunID        string
	BaseURL      string
	MaxDepth     int
	DiscoveredAt time.Time

	TotalRequests    int
	MaxDepthAchieved int

	endpoints []state.Endpoint
	byURL     map[string]int

	completed []string
	done      map[string]bool
}

// NewProgress returns empty progress for target.
func NewProgress(target string) *Progress {
	return &Progress{
		Target: target,
		byURL:  make(map[string]int),
		done:   make(map[string]bool),
	}
}

// Restore merges a previously saved document. Counters only move forward.
func (p *Progress) Restore(doc *state.Document) {
	if doc == nil {
		return
	}
	if !doc.DiscoveredAt.IsZero() {
		p.DiscoveredAt = doc.DiscoveredAt
	}
	if doc.TotalRequests > p.TotalRequests {
		p.TotalRequests = doc.TotalRequests
	}
	p.observeDepth(doc.MaxDepthAchieved)

	for _, ep := range doc.Endpoints {
		p.Record(ep.URL, ep.Data)
	}
	for _, path := range doc.CompletedPaths {
		p.Complete(path)
	}
}

// Record stores a successfully read endpoint. A URL that is already known
// keeps its position and has its payload replaced. It reports whether the
// endpoint was new.
func (p *Progress) Record(url string, data json.RawMessage) bool {
	if i, ok := p.byURL[url]; ok {
		p.endpoints[i].Data = data
		return false
	}
	p.byURL[url] = len(p.endpoints)
	p.endpoints = append(p.endpoints, state.Endpoint{URL: url, Data: data})
	return true
}

// HasEndpoint reports whether url has been recorded.
func (p *Progress) HasEndpoint(url string) bool {
	_, ok := p.byURL[url]
	return ok
}

// EndpointCount returns the number of distinct endpoints recorded.
func (p *Progress) EndpointCount() int {
	return len(p.endpoints)
}

// Complete adds path to the completed set. It reports whether path was new.
func (p *Progress) Complete(path string) bool {
	if p.done[path] {
		return false
	}
	p.done[path] = true
	p.completed = append(p.completed, path)
	return true
}

// IsComplete reports whether path is in the completed set.
func (p *Progress) IsComplete(path string) bool {
	return p.done[path]
}

// CompletedPaths returns the completed set in completion order.
func (p *Progress) CompletedPaths() []string {
	paths := make([]string, len(p.completed))
	copy(paths, p.completed)
	return paths
}

func (p *Progress) observeDepth(depth int) {
	if depth > p.MaxDepthAchieved {
		p.MaxDepthAchieved = depth
	}
}

// Snapshot returns a document describing the current progress. The result
// shares no mutable state with p.
func (p *Progress) Snapshot(completed bool) *state.Document {
	endpoints := make([]state.Endpoint, len(p.endpoints))
	copy(endpoints, p.endpoints)

	return &state.Document{
		RunID:            p.RunID,
		Completed:        completed,
		BaseURL:          p.BaseURL,
		TargetNode:       p.Target,
		DiscoveredAt:     p.DiscoveredAt,
		MaxDepth:         p.MaxDepth,
		MaxDepthAchieved: p.MaxDepthAchieved,
		TotalRequests:    p.TotalRequests,
		TotalEndpoints:   len(endpoints),
		Endpoints:        endpoints,
		CompletedPaths:   p.CompletedPaths(),
	}
}
