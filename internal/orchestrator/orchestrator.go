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

// Package orchestrator runs the configured root nodes in order and
// summarizes their outcomes.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/node"
	"github.com/sirseerhq/sirseer-scout/internal/report"
)

// Processor handles a single root node. *node.Processor implements it.
type Processor interface {
	Process(ctx context.Context, target string) (*node.Result, error)
}

// Orchestrator processes root nodes sequentially.
type Orchestrator struct {
	processor Processor
}

// New creates an orchestrator.
func New(p Processor) *Orchestrator {
	return &Orchestrator{processor: p}
}

// Run processes roots in order. A failing root does not stop the others;
// its error is collected and the aggregate is returned. An interruption
// stops the run and is returned unwrapped so callers can detect it.
func (o *Orchestrator) Run(ctx context.Context, roots []string) ([]*node.Result, error) {
	results := make([]*node.Result, 0, len(roots))
	var errs *multierror.Error

	for i, root := range roots {
		if ctx.Err() != nil {
			return results, fmt.Errorf("%w before %s: %v", scouterrors.ErrInterrupted, root, ctx.Err())
		}

		logrus.WithFields(logrus.Fields{
			"target":   root,
			"position": fmt.Sprintf("%d/%d", i+1, len(roots)),
		}).Info("Processing root node")

		result, err := o.processor.Process(ctx, root)
		if result != nil {
			results = append(results, result)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, scouterrors.ErrInterrupted) {
			return results, err
		}
		logrus.WithField("target", root).Errorf("Root node failed: %v", err)
		errs = multierror.Append(errs, err)
	}

	return results, errs.ErrorOrNil()
}

// RenderSummary writes one table row per result.
func RenderSummary(w io.Writer, results []*node.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Target", "Status", "Endpoints", "Paths", "Max Depth", "Requests", "Elapsed"})
	table.SetAutoFormatHeaders(false)
	for _, r := range results {
		table.Append([]string{
			r.Target,
			string(r.Status),
			fmt.Sprint(r.Endpoints),
			fmt.Sprint(r.CompletedPaths),
			fmt.Sprint(r.MaxDepthAchieved),
			fmt.Sprint(r.TotalRequests),
			report.FormatRuntime(r.Elapsed),
		})
	}
	table.Render()
}
