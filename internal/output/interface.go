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

package output

import (
	"encoding/json"
	"time"
)

// OutputWriter receives discovered endpoints as they are read.
type OutputWriter interface {
	// Write emits one record. It must not hold records back, so a stream
	// stays current while a long run is in progress.
	Write(record Record) error

	// Close closes the underlying writer and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}

// Record is one streamed endpoint.
type Record struct {
	Target       string          `json:"target"`
	Path         string          `json:"path"`
	URL          string          `json:"url"`
	Data         json.RawMessage `json:"data"`
	RunID        string          `json:"runId,omitempty"`
	DiscoveredAt time.Time       `json:"discoveredAt"`
}
