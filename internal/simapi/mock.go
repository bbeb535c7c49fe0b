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

package simapi

import (
	"context"
	"encoding/json"
	"fmt"
)

// MockNode describes one node of an in-memory simulation tree.
type MockNode struct {
	Endpoints []string
	Nodes     []string
}

// MockClient is an in-memory implementation of Client for testing.
type MockClient struct {
	// Tree maps joined paths to their listings.
	Tree map[string]MockNode

	// Values overrides the payload returned for an endpoint.
	Values map[string]json.RawMessage

	// Failure injection keyed by joined path. FailList and FailGet make the
	// call fail outright; RejectList and RejectGet return a non-success Result.
	FailList   map[string]bool
	FailGet    map[string]bool
	RejectList map[string]bool
	RejectGet  map[string]bool

	// Calls records every URL requested, in order.
	Calls []string

	// BeforeCall runs before each call is served.
	BeforeCall func(url string)
}

// NewMockClient creates a mock client serving tree.
func NewMockClient(tree map[string]MockNode) *MockClient {
	return &MockClient{
		Tree:       tree,
		Values:     make(map[string]json.RawMessage),
		FailList:   make(map[string]bool),
		FailGet:    make(map[string]bool),
		RejectList: make(map[string]bool),
		RejectGet:  make(map[string]bool),
	}
}

// ListURL mirrors HTTPClient.ListURL with a fixed mock base.
func (m *MockClient) ListURL(path Path) string {
	return "mock://sim/list/" + path.String()
}

// GetURL implements Client.
func (m *MockClient) GetURL(endpoint string) string {
	return "mock://sim/get/" + endpoint
}

// List implements Client.
func (m *MockClient) List(ctx context.Context, path Path) (*Listing, bool) {
	key := path.String()
	if !m.record(ctx, m.ListURL(path)) || m.FailList[key] {
		return nil, false
	}
	if m.RejectList[key] {
		return &Listing{Result: "Error"}, true
	}

	node, ok := m.Tree[key]
	if !ok {
		return &Listing{Result: "NotFound"}, true
	}

	listing := &Listing{Result: ResultSuccess}
	for _, name := range node.Endpoints {
		listing.Endpoints = append(listing.Endpoints, Named{Name: name})
	}
	for _, name := range node.Nodes {
		listing.Nodes = append(listing.Nodes, Named{Name: name})
	}
	return listing, true
}

// Get implements Client.
func (m *MockClient) Get(ctx context.Context, endpoint string) (*Reading, bool) {
	if !m.record(ctx, m.GetURL(endpoint)) || m.FailGet[endpoint] {
		return nil, false
	}
	if m.RejectGet[endpoint] {
		return &Reading{Result: "Error", Raw: json.RawMessage(`{"Result":"Error"}`)}, true
	}
	if raw, ok := m.Values[endpoint]; ok {
		var head struct {
			Result string `json:"Result"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, false
		}
		return &Reading{Result: head.Result, Raw: raw}, true
	}
	raw := json.RawMessage(fmt.Sprintf(`{"Result":"Success","Path":%q}`, endpoint))
	return &Reading{Result: ResultSuccess, Raw: raw}, true
}

// CallCount returns the number of calls served or attempted.
func (m *MockClient) CallCount() int {
	return len(m.Calls)
}

func (m *MockClient) record(ctx context.Context, url string) bool {
	m.Calls = append(m.Calls, url)
	if m.BeforeCall != nil {
		m.BeforeCall(url)
	}
	return ctx.Err() == nil
}
