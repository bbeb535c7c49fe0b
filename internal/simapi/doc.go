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

// Package simapi provides a rate-limited client for the tree-structured
// simulation API. The API exposes two calls:
//
//	GET {base}/list/{path}  -> {"Result": "Success", "Endpoints": [{"Name": ...}], "Nodes": [{"Name": ...}]}
//	GET {base}/get/{path}   -> {"Result": "Success", ...opaque fields}
//
// Every request carries the shared API key in a fixed header, is bounded by
// a timeout, and is followed by a fixed delay when it succeeds. Failures are
// logged and reported as "no result"; the client never retries.
//
// Basic usage:
//
//	client := simapi.NewHTTPClient(simapi.Options{
//	    BaseURL: "http://localhost:8111/api",
//	    Header:  "X-API-Key",
//	    Key:     key,
//	    Timeout: 5 * time.Second,
//	    Delay:   250 * time.Millisecond,
//	})
//	listing, ok := client.List(ctx, simapi.Path{"aircraft"})
//	if !ok || !listing.OK() {
//	    // leave the path for the next run
//	}
package simapi
