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

// Package explore walks one root node of the simulation tree.
//
// The walk is depth-first and iterative: listings happen on the way down,
// completion is recorded on the way back up. A path is added to the
// completed set only when its own listing succeeded and every child within
// the depth bound completed too, so a resumed run never treats a partially
// explored subtree as done.
//
// All mutable traversal state lives in a Progress value owned by the
// caller. Every new endpoint and every completed path is written through
// a Saver before the walk continues.
package explore
