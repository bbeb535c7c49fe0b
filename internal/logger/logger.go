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

// Package logger configures the process-wide logrus logger used by every
// sirseer-scout component.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// LogOptions controls level, formatting and the optional rotating file sink.
type LogOptions struct {
	// Verbose switches to debug level.
	Verbose bool
	// DisableColor disables ANSI colors on the console.
	DisableColor bool
	// LogToFile adds a daily-rotated log file under OutputPath.
	LogToFile  bool
	OutputPath string
	// Output defaults to stderr so stdout stays free for the NDJSON stream.
	Output io.Writer
}

// Init applies options to the standard logrus logger.
func Init(options LogOptions) error {
	if options.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	out := options.Output
	if out == nil {
		out = os.Stderr
	}
	logrus.SetOutput(out)
	logrus.SetReportCaller(true)
	logrus.SetFormatter(&Formatter{
		DisableColor: options.DisableColor,
	})

	if options.LogToFile {
		fh, err := NewFileHook(options.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to init log file hook: %w", err)
		}
		logrus.AddHook(fh)
	}

	return nil
}
