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

package state

import (
	"encoding/json"
	"time"
)

// CurrentVersion is the current document schema version.
// Increment this when making breaking changes to the Document structure.
const CurrentVersion = 1

// Endpoint is a single successfully read endpoint.
type Endpoint struct {
	URL  string          `json:"url"`
	Data json.RawMessage `json:"data"`
}

// Document is the persisted discovery state of one root node.
type Document struct {
	// Version indicates the schema version of this document.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the document content (excluding this field).
	Checksum string `json:"checksum"`

	// RunID identifies the process run that last wrote the document.
	RunID string `json:"runId"`

	// Completed is set once the root path itself completed. A completed
	// document is never modified by later runs.
	Completed bool `json:"completed"`

	BaseURL      string    `json:"baseUrl"`
	TargetNode   string    `json:"targetNode"`
	DiscoveredAt time.Time `json:"discoveredAt"`
	MaxDepth     int       `json:"maxDepth"`

	MaxDepthAchieved int `json:"maxDepthAchieved"`
	TotalRequests    int `json:"totalRequests"`
	TotalEndpoints   int `json:"totalEndpoints"`

	Endpoints      []Endpoint `json:"endpoints"`
	CompletedPaths []string   `json:"completedPaths"`
}

// Outcome is the result of loading a document.
type Outcome int

const (
	// Absent means there is no usable prior document; start fresh.
	Absent Outcome = iota
	// Resumed means an incomplete document was found.
	Resumed
	// Completed means the root node was already fully discovered.
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Resumed:
		return "resumed"
	case Completed:
		return "completed"
	default:
		return "absent"
	}
}
