// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package posting

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/outreach/pkg/types"
)

const defaultConcurrency = 4

// Loader turns a file into message text. document.Registry satisfies it.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
}

// Result is the outcome of extracting one file.
type Result struct {
	Path    string
	Posting types.JobPosting
	Err     error
}

// BatchSummary holds counts from a batch extraction run.
type BatchSummary struct {
	Extracted int
	Failed    int
}

// Total returns the number of files processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Failed
}

// HasFailures reports whether any file could not be loaded.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ExtractAll loads every path through loader and extracts a posting from
// each, running up to concurrency loads at once. Results are returned in
// the order of paths. A file that fails to load is counted and reported
// on w; it does not stop the others. Cancelling ctx stops scheduling
// further files and returns ctx.Err().
func ExtractAll(ctx context.Context, loader Loader, paths []string, concurrency int, w io.Writer) ([]Result, BatchSummary, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	results := make([]Result, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		i, path := i, path
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := Result{Path: path}
			text, err := loader.Load(gctx, path)
			if err != nil {
				res.Err = err
				mu.Lock()
				fmt.Fprintf(w, "failed:    %s (%v)\n", path, err)
				mu.Unlock()
			} else {
				res.Posting = Extract(text)
				mu.Lock()
				fmt.Fprintf(w, "extracted: %s\n", path)
				mu.Unlock()
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, summarize(results), err
	}
	if err := ctx.Err(); err != nil {
		return results, summarize(results), err
	}

	summary := summarize(results)
	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d failed (total: %d)\n",
		summary.Extracted, summary.Failed, summary.Total())
	return results, summary, nil
}

func summarize(results []Result) BatchSummary {
	var s BatchSummary
	for _, r := range results {
		switch {
		case r.Path == "":
			// never scheduled
		case r.Err != nil:
			s.Failed++
		default:
			s.Extracted++
		}
	}
	return s
}
