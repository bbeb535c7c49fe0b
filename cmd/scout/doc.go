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

// Package main implements the sirseer-scout command-line interface.
// The tool discovers every readable endpoint of a tree-structured
// simulation API, one configured root node at a time, and keeps a state
// document per root so an interrupted run resumes where it stopped.
//
// The CLI supports:
//   - Discovering the configured roots, or the roots given as arguments
//   - Streaming discovered endpoints as NDJSON (--output)
//   - Starting over for the selected roots (--reset)
//   - Inspecting persisted progress without network access (status)
//
// Usage:
//
//	sirseer-scout [root...] [flags]
//	sirseer-scout status [root...]
//
// Example:
//
//	export SCOUT_API_KEY=your_key
//	sirseer-scout aircraft engines --output endpoints.ndjson
//
// Exit codes:
//   - 0: Success, including roots skipped because they were already complete
//   - 1: General error
//   - 2: Missing credential or invalid configuration
//   - 130: Interrupted; the next run resumes
package main
