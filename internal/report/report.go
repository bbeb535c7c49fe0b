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

// Package report writes the plain-text summary of a finished discovery run.
//
// A Tracker is started when a root node begins processing and turned into
// a Summary once the node's document is final. Reports are informational
// only and are never read back.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirseerhq/sirseer-scout/internal/state"
)

// fileTimeLayout is used in report file names.
const fileTimeLayout = "20060102-150405"

// Tracker measures the runtime of one root node.
type Tracker struct {
	startTime time.Time
	now       func() time.Time
}

// Summary is the content of one report.
type Summary struct {
	Target      string
	RunID       string
	ToolVersion string

	StartedAt   time.Time
	CompletedAt time.Time

	MaxDepthAchieved int
	Endpoints        int
	Requests         int
	CompletedPaths   int

	// OutputFile is the name of the state document the run produced.
	OutputFile string
}

// New creates a tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{startTime: time.Now(), now: time.Now}
}

// Elapsed returns the time since the tracker started.
func (t *Tracker) Elapsed() time.Duration {
	return t.now().Sub(t.startTime)
}

// Summarize captures the final document of a run.
func (t *Tracker) Summarize(doc *state.Document, outputFile, toolVersion string) *Summary {
	return &Summary{
		Target:           doc.TargetNode,
		RunID:            doc.RunID,
		ToolVersion:      toolVersion,
		StartedAt:        t.startTime,
		CompletedAt:      t.now(),
		MaxDepthAchieved: doc.MaxDepthAchieved,
		Endpoints:        len(doc.Endpoints),
		Requests:         doc.TotalRequests,
		CompletedPaths:   len(doc.CompletedPaths),
		OutputFile:       outputFile,
	}
}

// Runtime is the wall time of the run.
func (s *Summary) Runtime() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}

// FormatRuntime renders d as "1h 2m 3s", truncated to whole seconds.
func FormatRuntime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%dh %dm %ds", total/3600, (total%3600)/60, total%60)
}

// Render writes the report text to w.
func Render(s *Summary, w io.Writer) error {
	rows := [][2]string{
		{"Date", s.CompletedAt.Format("2006-01-02")},
		{"Time", s.CompletedAt.Format("15:04:05")},
		{"Target node", s.Target},
		{"Max depth achieved", fmt.Sprint(s.MaxDepthAchieved)},
		{"Runtime", FormatRuntime(s.Runtime())},
		{"Output file", s.OutputFile},
		{"Endpoints", fmt.Sprint(s.Endpoints)},
		{"Completed paths", fmt.Sprint(s.CompletedPaths)},
		{"Requests", fmt.Sprint(s.Requests)},
	}
	if s.RunID != "" {
		rows = append(rows, [2]string{"Run ID", s.RunID})
	}
	if s.ToolVersion != "" {
		rows = append(rows, [2]string{"Scout version", s.ToolVersion})
	}

	var b strings.Builder
	b.WriteString("Discovery Report\n")
	b.WriteString("================\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%-20s %s\n", row[0]+":", row[1])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FileName returns the report file name for s.
func FileName(s *Summary) string {
	safe := strings.NewReplacer("/", "-", "\\", "-").Replace(s.Target)
	return fmt.Sprintf("%s-%s.txt", safe, s.CompletedAt.Format(fileTimeLayout))
}

// Save writes the report into dir and returns its path. The file is written
// atomically using a temporary file and rename.
func Save(s *Summary, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, FileName(s))
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if err := Render(s, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close report file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("failed to save report file: %w", err)
	}
	return path, nil
}
