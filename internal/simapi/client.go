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

import "context"

// Client defines the interface for interacting with the simulation API.
// This interface allows for easy mocking in tests.
//
// Neither method returns an error: every failure is logged by the
// implementation and reported as ok == false.
type Client interface {
	// List enumerates the child nodes and endpoints of path.
	List(ctx context.Context, path Path) (*Listing, bool)

	// Get reads a single endpoint addressed by its joined path.
	Get(ctx context.Context, endpoint string) (*Reading, bool)

	// GetURL returns the URL recorded for an endpoint.
	GetURL(endpoint string) string
}
