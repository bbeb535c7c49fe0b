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

package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scouterrors "github.com/sirseerhq/sirseer-scout/internal/errors"
	"github.com/sirseerhq/sirseer-scout/internal/explore"
	"github.com/sirseerhq/sirseer-scout/internal/node"
	"github.com/sirseerhq/sirseer-scout/internal/simapi"
	"github.com/sirseerhq/sirseer-scout/internal/state"
)

// scriptedProcessor returns canned outcomes per target.
type scriptedProcessor struct {
	errs  map[string]error
	calls []string
}

func (s *scriptedProcessor) Process(ctx context.Context, target string) (*node.Result, error) {
	s.calls = append(s.calls, target)
	if err := s.errs[target]; err != nil {
		status := node.StatusFailed
		if errors.Is(err, scouterrors.ErrInterrupted) {
			status = node.StatusInterrupted
		}
		return &node.Result{Target: target, Status: status}, err
	}
	return &node.Result{Target: target, Status: node.StatusCompleted}, nil
}

func TestRun_Sequential(t *testing.T) {
	p := &scriptedProcessor{}

	results, err := New(p).Run(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, p.calls)
	require.Len(t, results, 3)
	for i, target := range []string{"A", "B", "C"} {
		assert.Equal(t, target, results[i].Target)
	}
}

func TestRun_AggregatesFailures(t *testing.T) {
	p := &scriptedProcessor{errs: map[string]error{
		"A": errors.New("disk full"),
		"C": errors.New("permission denied"),
	}}

	results, err := New(p).Run(context.Background(), []string{"A", "B", "C"})
	require.Error(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, p.calls, "a failing root does not stop the others")
	assert.Len(t, results, 3)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "permission denied")
}

func TestRun_StopsOnInterruption(t *testing.T) {
	p := &scriptedProcessor{errs: map[string]error{
		"B": fmt.Errorf("%w: context canceled", scouterrors.ErrInterrupted),
	}}

	results, err := New(p).Run(context.Background(), []string{"A", "B", "C"})
	require.ErrorIs(t, err, scouterrors.ErrInterrupted)

	assert.Equal(t, []string{"A", "B"}, p.calls)
	require.Len(t, results, 2)
	assert.Equal(t, node.StatusInterrupted, results[1].Status)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &scriptedProcessor{}

	results, err := New(p).Run(ctx, []string{"A"})
	require.ErrorIs(t, err, scouterrors.ErrInterrupted)
	assert.Empty(t, results)
	assert.Empty(t, p.calls)
}

func TestRun_WithNodeProcessor(t *testing.T) {
	client := simapi.NewMockClient(map[string]simapi.MockNode{
		"A":   {Endpoints: []string{"E1"}, Nodes: []string{"B"}},
		"A.B": {Endpoints: []string{"E2"}},
		"X":   {Endpoints: []string{"v"}},
	})
	store := state.NewStore(filepath.Join(t.TempDir(), "state"))
	proc := node.New(client, store, node.Options{
		Explore: explore.Options{MaxDepth: 5, SkipRecordedEndpoints: true},
	})

	results, err := New(proc).Run(context.Background(), []string{"A", "X"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, node.StatusCompleted, results[0].Status)
	assert.Equal(t, 2, results[0].Endpoints)
	assert.Equal(t, 1, results[1].Endpoints)

	// The second pass skips everything
	calls := client.CallCount()
	results, err = New(proc).Run(context.Background(), []string{"A", "X"})
	require.NoError(t, err)
	assert.Equal(t, node.StatusSkipped, results[0].Status)
	assert.Equal(t, node.StatusSkipped, results[1].Status)
	assert.Equal(t, calls, client.CallCount())
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, []*node.Result{
		{Target: "A", Status: node.StatusCompleted, Endpoints: 2, CompletedPaths: 2, MaxDepthAchieved: 1, TotalRequests: 4, Elapsed: 3 * time.Second},
		{Target: "engines", Status: node.StatusSkipped, Endpoints: 17},
	})

	out := buf.String()
	for _, want := range []string{"Target", "Status", "Max Depth", "A", "completed", "engines", "skipped", "0h 0m 3s", "17"} {
		assert.Contains(t, out, want)
	}
}
