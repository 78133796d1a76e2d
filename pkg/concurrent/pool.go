package concurrent

import (
	"context"
	"sync"
)

// MapOrdered runs fn over items with bounded concurrency. Results are
// index-addressed, so output order always matches input order regardless of
// completion order. The index is passed through so fn can correlate items
// with sibling slices.
func MapOrdered[T, R any](ctx context.Context, items []T, maxConcurrency int, fn func(idx int, item T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrency)

	for i, item := range items {
		wg.Add(1)
		go func(idx int, val T) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			case sem <- struct{}{}:
				defer func() { <-sem }()
				results[idx], errs[idx] = fn(idx, val)
			}
		}(i, item)
	}

	wg.Wait()

	// First failing index wins so callers see a deterministic error.
	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
