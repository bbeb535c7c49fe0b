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

package explore

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/output"
	"github.com/sirseerhq/sirseer-scout/internal/progress"
	"github.com/sirseerhq/sirseer-scout/internal/simapi"
	"github.com/sirseerhq/sirseer-scout/internal/state"
)

// Saver durably replaces the document of a root node.
type Saver interface {
	Save(doc *state.Document) error
}

// Options tune a traversal.
type Options struct {
	// MaxDepth is the deepest path explored; a root has depth 0.
	MaxDepth int

	// RequireAllEndpoints keeps a path out of the completed set when any
	// of its endpoints could not be read, so the next run retries it.
	RequireAllEndpoints bool

	// SkipRecordedEndpoints avoids re-reading endpoints restored from a
	// previous run.
	SkipRecordedEndpoints bool
}

// Explorer runs depth-bounded traversals against a Client.
type Explorer struct {
	client   simapi.Client
	saver    Saver
	opts     Options
	sink     output.OutputWriter
	reporter progress.Reporter
	now      func() time.Time
}

// New creates an explorer.
func New(client simapi.Client, saver Saver, opts Options) *Explorer {
	return &Explorer{
		client:   client,
		saver:    saver,
		opts:     opts,
		reporter: progress.Nop{},
		now:      time.Now,
	}
}

// WithSink streams every endpoint read to sink.
func (e *Explorer) WithSink(sink output.OutputWriter) *Explorer {
	e.sink = sink
	return e
}

// WithReporter sends request progress to r.
func (e *Explorer) WithReporter(r progress.Reporter) *Explorer {
	if r == nil {
		r = progress.Nop{}
	}
	e.reporter = r
	return e
}

// frame is one path on the traversal stack.
type frame struct {
	path     simapi.Path
	children []string
	next     int

	// complete stays true while everything below the path succeeded.
	complete bool
}

// Explore walks the tree below root, updating prog as it goes.
//
// Listing and endpoint failures are absorbed: they only keep the affected
// paths out of the completed set. Explore returns an error when the context
// is cancelled (wrapping ErrInterrupted) or when progress cannot be saved.
func (e *Explorer) Explore(ctx context.Context, prog *Progress, root simapi.Path) error {
	if root.Depth() > e.opts.MaxDepth {
		return nil
	}

	top, err := e.enter(ctx, prog, root)
	if err != nil || top == nil {
		return err
	}
	stack := []*frame{top}

	for len(stack) > 0 {
		if err := interrupted(ctx); err != nil {
			return err
		}

		fr := stack[len(stack)-1]
		if fr.next < len(fr.children) {
			child := fr.path.Child(fr.children[fr.next])
			fr.next++

			// Paths past the bound are silently left out and never block.
			if child.Depth() > e.opts.MaxDepth {
				continue
			}
			if prog.IsComplete(child.String()) {
				continue
			}

			next, err := e.enter(ctx, prog, child)
			if err != nil {
				return err
			}
			if next == nil {
				fr.complete = false
				continue
			}
			stack = append(stack, next)
			continue
		}

		stack = stack[:len(stack)-1]
		if !fr.complete {
			if len(stack) > 0 {
				stack[len(stack)-1].complete = false
			}
			logrus.WithFields(logrus.Fields{
				"target": prog.Target,
				"path":   fr.path.String(),
			}).Debug("Path left incomplete for a later run")
			continue
		}

		if err := interrupted(ctx); err != nil {
			return err
		}
		prog.Complete(fr.path.String())
		if err := e.save(prog); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"target": prog.Target,
			"path":   fr.path.String(),
			"depth":  fr.path.Depth(),
		}).Debug("Path completed")
	}

	return nil
}

// enter lists path and reads its endpoints. It returns a nil frame when the
// path is already complete or its listing failed; a failed listing is saved
// so the request counter on disk keeps up.
func (e *Explorer) enter(ctx context.Context, prog *Progress, path simapi.Path) (*frame, error) {
	key := path.String()
	if prog.IsComplete(key) {
		return nil, nil
	}
	prog.observeDepth(path.Depth())

	log := logrus.WithFields(logrus.Fields{
		"target": prog.Target,
		"path":   key,
		"depth":  path.Depth(),
	})

	e.count(prog, key)
	listing, ok := e.client.List(ctx, path)
	if err := interrupted(ctx); err != nil {
		return nil, err
	}
	if !ok || !listing.OK() {
		if ok {
			log.Warnf("Listing returned %q, path will be retried on the next run", listing.Result)
		} else {
			log.Warn("Listing failed, path will be retried on the next run")
		}
		// The attempt and the depth it reached still count.
		return nil, e.save(prog)
	}
	log.WithFields(logrus.Fields{
		"endpoints": len(listing.Endpoints),
		"nodes":     len(listing.Nodes),
	}).Debug("Listed path")

	fr := &frame{path: path, complete: true}
	for _, ep := range listing.Endpoints {
		read, err := e.read(ctx, prog, path.Endpoint(ep.Name))
		if err != nil {
			return nil, err
		}
		if !read && e.opts.RequireAllEndpoints {
			fr.complete = false
		}
	}

	fr.children = make([]string, 0, len(listing.Nodes))
	for _, n := range listing.Nodes {
		fr.children = append(fr.children, n.Name)
	}
	return fr, nil
}

// read fetches one endpoint and records it. It reports whether the endpoint
// is now recorded.
func (e *Explorer) read(ctx context.Context, prog *Progress, endpoint string) (bool, error) {
	if err := interrupted(ctx); err != nil {
		return false, err
	}

	url := e.client.GetURL(endpoint)
	if e.opts.SkipRecordedEndpoints && prog.HasEndpoint(url) {
		return true, nil
	}

	e.count(prog, endpoint)
	reading, ok := e.client.Get(ctx, endpoint)
	if !ok || !reading.OK() {
		if ok {
			logrus.WithFields(logrus.Fields{
				"target": prog.Target,
				"url":    url,
			}).Warnf("Endpoint returned %q, not recorded", reading.Result)
		}
		return false, interrupted(ctx)
	}

	prog.Record(url, reading.Raw)
	if err := e.save(prog); err != nil {
		return false, err
	}
	e.emit(prog, endpoint, url, reading)
	return true, nil
}

func (e *Explorer) count(prog *Progress, path string) {
	prog.TotalRequests++
	e.reporter.Request(path)
}

func (e *Explorer) emit(prog *Progress, endpoint, url string, reading *simapi.Reading) {
	if e.sink == nil {
		return
	}
	record := output.Record{
		Target:       prog.Target,
		Path:         endpoint,
		URL:          url,
		Data:         reading.Raw,
		RunID:        prog.RunID,
		DiscoveredAt: e.now(),
	}
	if err := e.sink.Write(record); err != nil {
		logrus.WithField("url", url).Warnf("Failed to stream endpoint: %v", err)
	}
}

func (e *Explorer) save(prog *Progress) error {
	if err := e.saver.Save(prog.Snapshot(false)); err != nil {
		return fmt.Errorf("failed to persist progress for %s: %w", prog.Target, err)
	}
	return nil
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", scouterrors.ErrInterrupted, err)
	}
	return nil
}
