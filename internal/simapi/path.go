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

import "strings"

// Separator joins path segments in completion keys and API addresses.
const Separator = "."

// Path is the ordered list of node names from a root to a node.
type Path []string

// ParsePath splits a joined path string. The empty string yields nil.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, Separator))
}

// String joins the segments with Separator.
func (p Path) String() string {
	return strings.Join(p, Separator)
}

// Child returns a new path with name appended. The receiver is never
// modified, so sibling paths do not share backing arrays.
func (p Path) Child(name string) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = name
	return child
}

// Depth is the distance from the root; a root path has depth 0.
func (p Path) Depth() int {
	return len(p) - 1
}

// Endpoint returns the joined address of a leaf endpoint under p.
func (p Path) Endpoint(name string) string {
	return p.Child(name).String()
}
