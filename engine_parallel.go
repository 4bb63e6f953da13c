package strata

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jward/strata/internal/ingest"
)

// extractParallel fans file processing out over a bounded worker pool and
// joins before returning. Extraction is embarrassingly parallel: each worker
// reads only its own file and writes only its own output slot, so the only
// shared state is the outputs slice guarded by mu. Output order is by
// discovery index, not completion order, which keeps the downstream join
// deterministic.
//
// Resolution must not start until this returns: the resolver needs the
// complete stub set from all files (a parallel-map-then-reduce shape with
// the resolver as the reduce barrier).
func (e *Engine) extractParallel(ctx context.Context, tree *ingest.Tree) ([]fileOutput, error) {
	outputs := make([]fileOutput, len(tree.Files))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, f := range tree.Files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := e.processFile(gctx, f)
			mu.Lock()
			outputs[i] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("strata: extraction: %w", err)
	}
	return outputs, nil
}
