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

// Package output streams discovered endpoints in NDJSON (Newline Delimited
// JSON) format. Each line is one Record, written as soon as the endpoint is
// read, so a consumer can follow a long discovery run with tools like jq
// without waiting for it to finish.
//
// The primary type is Writer, which provides thread-safe writing of JSON
// records to an io.Writer or file without accumulating them in memory.
//
// Example usage:
//
//	w, err := output.Open("endpoints.ndjson")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(output.Record{Target: "A", URL: url, Data: raw}); err != nil {
//	    logrus.Warnf("Failed to stream endpoint: %v", err)
//	}
package output
