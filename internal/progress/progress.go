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

// Package progress renders a live spinner while a root node is explored.
package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
)

// Reporter receives traversal progress.
type Reporter interface {
	// Request is called once per API request with the path being worked on.
	Request(path string)
	// Finish clears the display.
	Finish()
}

// Spinner is a Reporter backed by an indeterminate progress bar:
// [A.B.C] (42 requests) ⠋
type Spinner struct {
	target string
	bar    *progressbar.ProgressBar
}

// NewSpinner creates a spinner for target writing to w.
func NewSpinner(w io.Writer, target string) *Spinner {
	return &Spinner{
		target: target,
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(target),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("requests"),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// Request implements Reporter.
func (s *Spinner) Request(path string) {
	s.bar.Describe(fmt.Sprintf("[%s]", path))
	if err := s.bar.Add(1); err != nil {
		logrus.Debugf("failed to advance progress spinner: %v", err)
	}
}

// Finish implements Reporter.
func (s *Spinner) Finish() {
	if err := s.bar.Finish(); err != nil {
		logrus.Debugf("failed to finish progress spinner: %v", err)
	}
}

// Nop discards progress.
type Nop struct{}

func (Nop) Request(string) {}
func (Nop) Finish()        {}

// New returns a spinner for target, or Nop when disabled.
func New(enabled bool, w io.Writer, target string) Reporter {
	if !enabled {
		return Nop{}
	}
	return NewSpinner(w, target)
}
