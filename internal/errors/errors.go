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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

var (
	// ErrMissingCredential indicates the shared API key could not be found.
	// Maps to exit code 2.
	ErrMissingCredential = errors.New("simulation api credential not found")

	// ErrInvalidConfig indicates the configuration failed validation.
	// Maps to exit code 2.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStateCorrupted indicates a persisted state document could not be trusted.
	// Never fatal: the store falls back to a fresh start.
	ErrStateCorrupted = errors.New("state document corrupted")

	// ErrStateVersion indicates a persisted state document uses an unknown schema version.
	ErrStateVersion = errors.New("state document version mismatch")

	// ErrInterrupted indicates the run was cancelled before every root finished.
	// Maps to exit code 130.
	ErrInterrupted = errors.New("discovery interrupted")
)
