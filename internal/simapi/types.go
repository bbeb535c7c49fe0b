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

import "encoding/json"

// ResultSuccess is the only Result value that counts as success.
const ResultSuccess = "Success"

// Named is a child node or endpoint entry in a listing.
type Named struct {
	Name string `json:"Name"`
}

// Listing is the response of GET {base}/list/{path}.
type Listing struct {
	Result    string  `json:"Result"`
	Endpoints []Named `json:"Endpoints"`
	Nodes     []Named `json:"Nodes"`
}

// OK reports whether the API considered the listing successful.
func (l *Listing) OK() bool {
	return l != nil && l.Result == ResultSuccess
}

// Reading is the response of GET {base}/get/{path}. Raw holds the full
// response document; only Result is interpreted.
type Reading struct {
	Result string
	Raw    json.RawMessage
}

// OK reports whether the API considered the read successful.
func (r *Reading) OK() bool {
	return r != nil && r.Result == ResultSuccess
}
