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

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/explore"
	"github.com/sirseerhq/sirseer-scout/internal/progress"
	"github.com/sirseerhq/sirseer-scout/internal/simapi"
	"github.com/sirseerhq/sirseer-scout/internal/state"
)

func scenarioTree() map[string]simapi.MockNode {
	return map[string]simapi.MockNode{
		"A":   {Endpoints: []string{"E1"}, Nodes: []string{"B"}},
		"A.B": {Endpoints: []string{"E2"}},
	}
}

type fixture struct {
	client    *simapi.MockClient
	store     *state.Store
	reportDir string
	proc      *Processor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		client:    simapi.NewMockClient(scenarioTree()),
		store:     state.NewStore(filepath.Join(dir, "state")),
		reportDir: filepath.Join(dir, "reports"),
	}
	f.proc = New(f.client, f.store, Options{
		BaseURL:   "mock://sim",
		Explore:   explore.Options{MaxDepth: 10, SkipRecordedEndpoints: true},
		ReportDir: f.reportDir,
		Version:   "test",
	})
	return f
}

type recorderFunc func(doc *state.Document) error

func (f recorderFunc) Record(doc *state.Document) error { return f(doc) }

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "init", PhaseInit.String())
	assert.Equal(t, "exploring", PhaseExploring.String())
	assert.Equal(t, "done", PhaseDone.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestProcess_Fresh(t *testing.T) {
	f := newFixture(t)

	var initial *state.Document
	f.client.BeforeCall = func(string) {
		if f.client.CallCount() == 1 {
			var err error
			initial, err = f.store.Peek("A")
			require.NoError(t, err)
		}
	}

	result, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err)

	require.NotNil(t, initial, "an empty document is written before exploring")
	assert.False(t, initial.Completed)
	assert.Empty(t, initial.Endpoints)
	assert.False(t, initial.DiscoveredAt.IsZero())

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 2, result.Endpoints)
	assert.Equal(t, 2, result.CompletedPaths)
	assert.Equal(t, 1, result.MaxDepthAchieved)
	assert.Equal(t, 4, result.TotalRequests)
	assert.Equal(t, f.store.FilePath("A"), result.StateFile)
	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)

	outcome, doc := f.store.Load("A")
	require.Equal(t, state.Completed, outcome)
	assert.True(t, doc.Completed)
	assert.Equal(t, "mock://sim", doc.BaseURL)
	assert.Equal(t, 10, doc.MaxDepth)
	assert.Equal(t, result.RunID, doc.RunID)
	assert.Equal(t, []string{"A.B", "A"}, doc.CompletedPaths)
	assert.Equal(t, initial.DiscoveredAt.Unix(), doc.DiscoveredAt.Unix())

	require.NotEmpty(t, result.ReportFile)
	data, err := os.ReadFile(result.ReportFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Target node:         A")
	assert.Contains(t, string(data), "Output file:         A.json")
}

func TestProcess_SkipsCompleted(t *testing.T) {
	f := newFixture(t)
	_, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err)
	calls := f.client.CallCount()

	result, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err)

	assert.Equal(t, StatusSkipped, result.Status)
	assert.Equal(t, calls, f.client.CallCount(), "no requests for a completed root")
	assert.Equal(t, 2, result.Endpoints)
	assert.Empty(t, result.ReportFile)
}

func TestProcess_Resume(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Save(&state.Document{
		RunID:         "earlier",
		TargetNode:    "A",
		BaseURL:       "mock://sim",
		DiscoveredAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDepth:      10,
		TotalRequests: 3,
		Endpoints: []state.Endpoint{
			{URL: "mock://sim/get/A.B.E2", Data: json.RawMessage(`{"Result":"Success"}`)},
		},
		CompletedPaths: []string{"A.B"},
	}))

	result, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, []string{"mock://sim/list/A", "mock://sim/get/A.E1"}, f.client.Calls)
	assert.Equal(t, 5, result.TotalRequests)

	_, doc := f.store.Load("A")
	require.NotNil(t, doc)
	assert.True(t, doc.Completed)
	assert.NotEqual(t, "earlier", doc.RunID)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), doc.DiscoveredAt.UTC())
	assert.Equal(t, []string{"A.B", "A"}, doc.CompletedPaths)
	assert.Len(t, doc.Endpoints, 2)
}

func TestProcess_IncompleteThenRetry(t *testing.T) {
	f := newFixture(t)
	f.client.FailList["A.B"] = true

	result, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, StatusIncomplete, result.Status)
	assert.Empty(t, result.ReportFile)

	outcome, doc := f.store.Load("A")
	require.Equal(t, state.Resumed, outcome)
	assert.False(t, doc.Completed)
	assert.Len(t, doc.Endpoints, 1)

	delete(f.client.FailList, "A.B")
	result, err = f.proc.Process(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 2, result.Endpoints)
}

func TestProcess_IncompletePersistsCounters(t *testing.T) {
	f := newFixture(t)
	f.client.FailList["A.B"] = true

	result, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err)
	require.Equal(t, StatusIncomplete, result.Status)
	assert.Equal(t, 3, result.TotalRequests)
	assert.Equal(t, 1, result.MaxDepthAchieved)

	_, doc := f.store.Load("A")
	require.NotNil(t, doc)
	assert.Equal(t, result.TotalRequests, doc.TotalRequests, "failed listing is counted on disk")
	assert.Equal(t, result.MaxDepthAchieved, doc.MaxDepthAchieved)

	delete(f.client.FailList, "A.B")
	result, err = f.proc.Process(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Equal(t, 6, result.TotalRequests)
}

func TestProcess_DepthChangeStartsOver(t *testing.T) {
	tree := map[string]simapi.MockNode{
		"A":     {Nodes: []string{"B", "C"}},
		"A.B":   {Nodes: []string{"D"}},
		"A.B.D": {Endpoints: []string{"deep"}},
		"A.C":   {Endpoints: []string{"c"}},
	}
	dir := t.TempDir()
	store := state.NewStore(filepath.Join(dir, "state"))

	shallow := simapi.NewMockClient(tree)
	shallow.FailList["A.C"] = true
	result, err := New(shallow, store, Options{
		BaseURL: "mock://sim",
		Explore: explore.Options{MaxDepth: 1, SkipRecordedEndpoints: true},
	}).Process(context.Background(), "A")
	require.NoError(t, err)
	require.Equal(t, StatusIncomplete, result.Status)

	_, doc := store.Load("A")
	require.NotNil(t, doc)
	assert.Equal(t, []string{"A.B"}, doc.CompletedPaths)

	deep := simapi.NewMockClient(tree)
	result, err = New(deep, store, Options{
		BaseURL: "mock://sim",
		Explore: explore.Options{MaxDepth: 5, SkipRecordedEndpoints: true},
	}).Process(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Contains(t, deep.Calls, "mock://sim/get/A.B.D.deep")

	_, doc = store.Load("A")
	require.NotNil(t, doc)
	assert.True(t, doc.Completed)
	assert.Equal(t, 5, doc.MaxDepth)
	assert.Equal(t, 2, doc.MaxDepthAchieved)
	assert.Equal(t, []string{"A.B.D", "A.B", "A.C", "A"}, doc.CompletedPaths)
	assert.Equal(t, 6, doc.TotalRequests, "the earlier document is not merged")
}

func TestProcess_WarnsOnBaseURLChange(t *testing.T) {
	var logs bytes.Buffer
	logrus.SetOutput(&logs)
	defer logrus.SetOutput(os.Stderr)

	f := newFixture(t)
	require.NoError(t, f.store.Save(&state.Document{
		TargetNode: "A",
		BaseURL:    "http://elsewhere/api",
		MaxDepth:   10,
	}))

	result, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.Contains(t, logs.String(), "another base URL")
	assert.Contains(t, logs.String(), "http://elsewhere/api")

	_, doc := f.store.Load("A")
	require.NotNil(t, doc)
	assert.Equal(t, "mock://sim", doc.BaseURL)
}

func TestProcess_Interrupted(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.client.BeforeCall = func(string) {
		if f.client.CallCount() == 3 {
			cancel()
		}
	}

	result, err := f.proc.Process(ctx, "A")
	require.ErrorIs(t, err, scouterrors.ErrInterrupted)
	assert.Equal(t, StatusInterrupted, result.Status)
	assert.Equal(t, 1, result.Endpoints)

	outcome, doc := f.store.Load("A")
	assert.Equal(t, state.Resumed, outcome)
	assert.Empty(t, doc.CompletedPaths)
	assert.Equal(t, result.TotalRequests, doc.TotalRequests)
	assert.Equal(t, result.MaxDepthAchieved, doc.MaxDepthAchieved)
}

func TestProcess_UnwritableStateDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	client := simapi.NewMockClient(scenarioTree())
	proc := New(client, state.NewStore(filepath.Join(blocker, "state")), Options{
		Explore: explore.Options{MaxDepth: 10},
	})

	result, err := proc.Process(context.Background(), "A")
	require.Error(t, err)
	assert.Equal(t, StatusFailed, result.Status)
	assert.Zero(t, client.CallCount())
}

func TestProcess_RecorderAndProgress(t *testing.T) {
	f := newFixture(t)

	var recorded []*state.Document
	reporters := map[string]*fakeReporter{}
	f.proc.
		WithRecorder(recorderFunc(func(doc *state.Document) error {
			recorded = append(recorded, doc)
			return errors.New("catalog offline")
		})).
		WithProgress(func(target string) progress.Reporter {
			r := &fakeReporter{}
			reporters[target] = r
			return r
		})

	result, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err, "catalog failures are not fatal")
	assert.Equal(t, StatusCompleted, result.Status)

	require.Len(t, recorded, 1)
	assert.True(t, recorded[0].Completed)

	require.Contains(t, reporters, "A")
	assert.Equal(t, 4, reporters["A"].requests)
	assert.True(t, reporters["A"].finished)
}

func TestProcess_NoReportDirectory(t *testing.T) {
	f := newFixture(t)
	f.proc.opts.ReportDir = ""

	result, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err)
	assert.Empty(t, result.ReportFile)

	_, statErr := os.Stat(f.reportDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcess_ReportFileName(t *testing.T) {
	f := newFixture(t)

	result, err := f.proc.Process(context.Background(), "A")
	require.NoError(t, err)

	name := filepath.Base(result.ReportFile)
	assert.True(t, strings.HasPrefix(name, "A-"), name)
	assert.True(t, strings.HasSuffix(name, ".txt"), name)
}

type fakeReporter struct {
	requests int
	finished bool
}

func (r *fakeReporter) Request(string) { r.requests++ }
func (r *fakeReporter) Finish()        { r.finished = true }
