package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/your-org/promptpipe/internal/state"
	"github.com/your-org/promptpipe/pkg/backend"
)

// Query is one independent unit of batch work.
type Query struct {
	ID      string
	Text    string
	ModelID string
}

// QueryResult pairs a query with its outcome.
type QueryResult struct {
	Query  Query
	Result backend.Result
	Err    error
}

// RunBatch processes queries concurrently over the shared pipeline, bounded
// by the configured worker count. Results come back sorted by query ID;
// queries without an ID get one assigned.
func (p *Pipeline) RunBatch(ctx context.Context, queries []Query) []QueryResult {
	resultCh := make(chan QueryResult, len(queries))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for _, q := range queries {
		if q.ID == "" {
			q.ID = state.NewQueryID()
		}

		wg.Add(1)
		go func(q Query) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := p.Handle(ctx, q.Text, q.ModelID)
			resultCh <- QueryResult{Query: q, Result: res, Err: err}
		}(q)
	}

	wg.Wait()
	close(resultCh)

	results := make([]QueryResult, 0, len(queries))
	for r := range resultCh {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Query.ID < results[j].Query.ID
	})
	return results
}
