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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirseerhq/sirseer-scout/internal/state"
)

func TestProgress_RecordDeduplicatesByURL(t *testing.T) {
	p := NewProgress("A")

	assert.True(t, p.Record("u1", json.RawMessage(`{"v":1}`)))
	assert.True(t, p.Record("u2", json.RawMessage(`{"v":2}`)))
	assert.False(t, p.Record("u1", json.RawMessage(`{"v":3}`)))

	doc := p.Snapshot(false)
	require.Len(t, doc.Endpoints, 2)
	assert.Equal(t, "u1", doc.Endpoints[0].URL)
	assert.JSONEq(t, `{"v":3}`, string(doc.Endpoints[0].Data))
	assert.Equal(t, 2, doc.TotalEndpoints)
	assert.True(t, p.HasEndpoint("u2"))
	assert.False(t, p.HasEndpoint("u3"))
}

func TestProgress_CompleteIsAppendOnly(t *testing.T) {
	p := NewProgress("A")

	assert.True(t, p.Complete("A.B"))
	assert.True(t, p.Complete("A"))
	assert.False(t, p.Complete("A.B"))

	assert.Equal(t, []string{"A.B", "A"}, p.CompletedPaths())
	assert.True(t, p.IsComplete("A"))
	assert.False(t, p.IsComplete("A.C"))
}

func TestProgress_Restore(t *testing.T) {
	discovered := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	doc := &state.Document{
		TargetNode:       "A",
		DiscoveredAt:     discovered,
		MaxDepthAchieved: 2,
		TotalRequests:    7,
		Endpoints: []state.Endpoint{
			{URL: "u1", Data: json.RawMessage(`{}`)},
			{URL: "u1", Data: json.RawMessage(`{"dup":true}`)},
		},
		CompletedPaths: []string{"A.B.C", "A.B.C"},
	}

	p := NewProgress("A")
	p.MaxDepthAchieved = 1
	p.Restore(doc)

	assert.Equal(t, discovered, p.DiscoveredAt)
	assert.Equal(t, 7, p.TotalRequests)
	assert.Equal(t, 2, p.MaxDepthAchieved)
	assert.Equal(t, 1, p.EndpointCount())
	assert.Equal(t, []string{"A.B.C"}, p.CompletedPaths())

	// Restoring never moves counters backwards
	p.TotalRequests = 20
	p.Restore(&state.Document{TotalRequests: 3})
	assert.Equal(t, 20, p.TotalRequests)
	assert.Equal(t, 2, p.MaxDepthAchieved)

	p.Restore(nil)
	assert.Equal(t, 1, p.EndpointCount())
}

func TestProgress_SnapshotIsIndependent(t *testing.T) {
	p := NewProgress("A")
	p.RunID = "run"
	p.BaseURL = "http://sim/api"
	p.MaxDepth = 4
	p.Record("u1", json.RawMessage(`{"v":1}`))
	p.Complete("A.B")

	doc := p.Snapshot(true)
	p.Record("u1", json.RawMessage(`{"v":2}`))
	p.Record("u2", json.RawMessage(`{}`))
	p.Complete("A")

	assert.True(t, doc.Completed)
	assert.Equal(t, "A", doc.TargetNode)
	assert.Equal(t, "run", doc.RunID)
	assert.Equal(t, "http://sim/api", doc.BaseURL)
	assert.Equal(t, 4, doc.MaxDepth)
	require.Len(t, doc.Endpoints, 1)
	assert.JSONEq(t, `{"v":1}`, string(doc.Endpoints[0].Data))
	assert.Equal(t, []string{"A.B"}, doc.CompletedPaths)
}

func TestProgress_EmptySnapshotUsesEmptyLists(t *testing.T) {
	doc := NewProgress("A").Snapshot(false)

	assert.NotNil(t, doc.Endpoints)
	assert.NotNil(t, doc.CompletedPaths)
}
