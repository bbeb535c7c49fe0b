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

package node

// Phase is a step of a root node's lifecycle.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseSkip
	PhaseResume
	PhaseFresh
	PhaseExploring
	PhaseCompleted
	PhaseReporting
	PhaseDone
)

var phaseNames = [...]string{
	PhaseInit:      "init",
	PhaseSkip:      "skip",
	PhaseResume:    "resume",
	PhaseFresh:     "fresh",
	PhaseExploring: "exploring",
	PhaseCompleted: "completed",
	PhaseReporting: "reporting",
	PhaseDone:      "done",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Status is the outcome of processing one root node.
type Status string

const (
	// StatusCompleted means the whole tree below the root was discovered.
	StatusCompleted Status = "completed"
	// StatusSkipped means a previous run already completed the root.
	StatusSkipped Status = "skipped"
	// StatusIncomplete means some paths failed and will be retried next run.
	StatusIncomplete Status = "incomplete"
	// StatusInterrupted means the run was cancelled.
	StatusInterrupted Status = "interrupted"
	// StatusFailed means the root could not be processed.
	StatusFailed Status = "failed"
)
