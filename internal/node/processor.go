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

// Package node drives the discovery lifecycle of a single root node:
// load or start its document, explore the tree, finalize the document and
// write the report.
package node

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/explore"
	"github.com/sirseerhq/sirseer-scout/internal/output"
	"github.com/sirseerhq/sirseer-scout/internal/progress"
	"github.com/sirseerhq/sirseer-scout/internal/report"
	"github.com/sirseerhq/sirseer-scout/internal/simapi"
	"github.com/sirseerhq/sirseer-scout/internal/state"
)

// Store persists one document per root node. *state.Store implements it.
type Store interface {
	Load(target string) (state.Outcome, *state.Document)
	Save(doc *state.Document) error
	FilePath(target string) string
}

// Recorder receives every completed document.
type Recorder interface {
	Record(doc *state.Document) error
}

// Options configure a Processor.
type Options struct {
	BaseURL   string
	Explore   explore.Options
	ReportDir string
	Version   string
}

// Result summarizes one processed root node.
type Result struct {
	Target           string
	RunID            string
	Status           Status
	Elapsed          time.Duration
	Endpoints        int
	CompletedPaths   int
	MaxDepthAchieved int
	TotalRequests    int
	StateFile        string
	ReportFile       string
}

// Processor runs root nodes one at a time.
type Processor struct {
	client   simapi.Client
	store    Store
	opts     Options
	recorder Recorder
	sink     output.OutputWriter
	progress func(target string) progress.Reporter
	runID    func() string
	now      func() time.Time
}

// New creates a processor.
func New(client simapi.Client, store Store, opts Options) *Processor {
	return &Processor{
		client:   client,
		store:    store,
		opts:     opts,
		progress: func(string) progress.Reporter { return progress.Nop{} },
		runID:    uuid.NewString,
		now:      time.Now,
	}
}

// WithRecorder exports completed documents to r.
func (p *Processor) WithRecorder(r Recorder) *Processor {
	p.recorder = r
	return p
}

// WithSink streams endpoints to sink as they are read.
func (p *Processor) WithSink(sink output.OutputWriter) *Processor {
	p.sink = sink
	return p
}

// WithProgress sets the reporter factory used for each root node.
func (p *Processor) WithProgress(factory func(target string) progress.Reporter) *Processor {
	if factory != nil {
		p.progress = factory
	}
	return p
}

// Process runs the full lifecycle for target. Listing and endpoint failures
// do not produce an error; they leave the result incomplete. An error is
// returned when the run is interrupted or its document cannot be written.
func (p *Processor) Process(ctx context.Context, target string) (*Result, error) {
	tracker := report.New()
	log := logrus.WithField("target", target)
	phase := func(ph Phase) { log.WithField("phase", ph.String()).Debug("Phase transition") }

	phase(PhaseInit)
	result := &Result{
		Target:    target,
		StateFile: p.store.FilePath(target),
	}

	prog := explore.NewProgress(target)
	prog.RunID = p.runID()
	prog.BaseURL = p.opts.BaseURL
	prog.MaxDepth = p.opts.Explore.MaxDepth
	result.RunID = prog.RunID

	outcome, doc := p.store.Load(target)
	if outcome == state.Resumed && doc.MaxDepth != prog.MaxDepth {
		// Paths completed under another bound may be missing deeper nodes.
		log.WithFields(logrus.Fields{
			"document_max_depth": doc.MaxDepth,
			"max_depth":          prog.MaxDepth,
		}).Warn("Stored document was explored with a different max depth, starting over")
		outcome = state.Absent
	}

	switch outcome {
	case state.Completed:
		phase(PhaseSkip)
		log.Info("Already discovered, skipping")
		result.Status = StatusSkipped
		fill(result, doc)
		result.RunID = doc.RunID
		result.Elapsed = tracker.Elapsed()
		return result, nil

	case state.Resumed:
		phase(PhaseResume)
		if doc.BaseURL != p.opts.BaseURL {
			log.WithFields(logrus.Fields{
				"document_base_url": doc.BaseURL,
				"base_url":          p.opts.BaseURL,
			}).Warn("Resuming a document recorded against another base URL")
		}
		prog.Restore(doc)
		log.WithFields(logrus.Fields{
			"endpoints": prog.EndpointCount(),
			"completed": len(doc.CompletedPaths),
			"requests":  prog.TotalRequests,
		}).Info("Resuming discovery")

	default:
		phase(PhaseFresh)
		prog.DiscoveredAt = p.now().UTC()
		if err := p.store.Save(prog.Snapshot(false)); err != nil {
			result.Status = StatusFailed
			return result, fmt.Errorf("failed to write initial document for %s: %w", target, err)
		}
		log.Info("Starting discovery")
	}

	phase(PhaseExploring)
	reporter := p.progress(target)
	explorer := explore.New(p.client, p.store, p.opts.Explore).
		WithSink(p.sink).
		WithReporter(reporter)
	err := explorer.Explore(ctx, prog, simapi.Path{target})
	reporter.Finish()

	final := prog.Snapshot(false)
	fill(result, final)
	result.Elapsed = tracker.Elapsed()

	if err != nil {
		if errors.Is(err, scouterrors.ErrInterrupted) {
			result.Status = StatusInterrupted
			if saveErr := p.store.Save(final); saveErr != nil {
				log.Errorf("Failed to save progress after interruption: %v", saveErr)
				return result, err
			}
			log.WithField("requests", prog.TotalRequests).Warn("Discovery interrupted, progress saved")
			return result, err
		}
		result.Status = StatusFailed
		return result, fmt.Errorf("discovery of %s failed: %w", target, err)
	}

	if !prog.IsComplete(target) {
		if err := p.store.Save(final); err != nil {
			result.Status = StatusFailed
			return result, fmt.Errorf("failed to save progress for %s: %w", target, err)
		}
		result.Status = StatusIncomplete
		log.WithFields(logrus.Fields{
			"endpoints": final.TotalEndpoints,
			"requests":  final.TotalRequests,
		}).Warn("Discovery incomplete, failed paths will be retried on the next run")
		return result, nil
	}

	phase(PhaseCompleted)
	final = prog.Snapshot(true)
	if err := p.store.Save(final); err != nil {
		result.Status = StatusFailed
		return result, fmt.Errorf("failed to finalize document for %s: %w", target, err)
	}
	result.Status = StatusCompleted

	phase(PhaseReporting)
	p.publish(log, tracker, final, result)

	phase(PhaseDone)
	log.WithFields(logrus.Fields{
		"endpoints": result.Endpoints,
		"max_depth": result.MaxDepthAchieved,
		"requests":  result.TotalRequests,
		"elapsed":   report.FormatRuntime(result.Elapsed),
	}).Info("Discovery completed")
	return result, nil
}

// publish writes the report and catalog export. Both are informational,
// so failures are logged only.
func (p *Processor) publish(log *logrus.Entry, tracker *report.Tracker, doc *state.Document, result *Result) {
	if p.opts.ReportDir != "" {
		summary := tracker.Summarize(doc, filepath.Base(result.StateFile), p.opts.Version)
		path, err := report.Save(summary, p.opts.ReportDir)
		if err != nil {
			log.Warnf("Failed to write report: %v", err)
		} else {
			result.ReportFile = path
			log.WithField("file", path).Debug("Report written")
		}
	}

	if p.recorder != nil {
		if err := p.recorder.Record(doc); err != nil {
			log.Warnf("Failed to export to catalog: %v", err)
		}
	}
}

func fill(result *Result, doc *state.Document) {
	result.Endpoints = len(doc.Endpoints)
	result.CompletedPaths = len(doc.CompletedPaths)
	result.MaxDepthAchieved = doc.MaxDepthAchieved
	result.TotalRequests = doc.TotalRequests
}
