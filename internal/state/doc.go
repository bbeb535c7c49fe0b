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

// Package state persists one discovery document per root node.
//
// A document records every endpoint read under the root and every path whose
// subtree has been fully processed. It is rewritten after each discovery, so
// an interrupted run resumes where it stopped. Every write is atomic, using a
// write-to-temp-and-rename pattern, and carries a SHA256 checksum and a schema
// version so that a damaged file is detected instead of trusted.
//
// Documents are indented JSON so they can be read and diffed by hand.
//
// Example usage:
//
//	store := state.NewStore("~/.sirseer/scout/state")
//	switch outcome, doc := store.Load("aircraft"); outcome {
//	case state.Completed:
//	    // nothing to do
//	case state.Resumed:
//	    // continue from doc
//	case state.Absent:
//	    // start fresh
//	}
package state
