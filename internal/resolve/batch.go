package resolve

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/nexus/internal/action"
	"github.com/raphi011/nexus/internal/status"
)

// Operation pairs a repository with the action to apply to it.
type Operation struct {
	Path   string
	Action action.Action
}

// BatchResult is the result of one operation in a batch.
type BatchResult struct {
	action.Result `yaml:",inline"`

	RepoPath string        `json:"repo_path" yaml:"repo_path"`
	Action   action.Action `json:"-" yaml:"-"`
}

// ApplyAll applies a to every path.
func (r *Resolver) ApplyAll(ctx context.Context, paths []string, a action.Action, dryRun bool) []BatchResult {
	ops := make([]Operation, len(paths))
	for i, p := range paths {
		ops[i] = Operation{Path: p, Action: a}
	}
	return r.ApplyEach(ctx, ops, dryRun)
}

// ApplyEach applies every operation concurrently and returns one result
// per operation, in operation order.
func (r *Resolver) ApplyEach(ctx context.Context, ops []Operation, dryRun bool) []BatchResult {
	results := make([]BatchResult, len(ops))

	workers := r.Workers
	if workers <= 0 {
		workers = status.DefaultWorkers()
	}

	var progressMu sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)
	for i, op := range ops {
		g.Go(func() error {
			results[i] = BatchResult{
				RepoPath: op.Path,
				Action:   op.Action,
				Result:   r.Apply(ctx, op.Path, op.Action, dryRun),
			}
			if r.Progress != nil {
				progressMu.Lock()
				r.Progress(results[i])
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // Apply never fails, failures are results

	return results
}

// Failures counts the failed results.
func Failures(results []BatchResult) int {
	n := 0
	for _, r := range results {
		if !r.Success {
			n++
		}
	}
	return n
}
