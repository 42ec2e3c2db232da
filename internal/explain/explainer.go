// Package explain narrates a hoist's rejection reasons into plain
// English. It runs strictly after the engine has finished: it never
// touches the graph, only the diagnostic strings the engine already
// produced, and never parallelizes the hoist itself — only the
// independent, read-only narration calls that follow it.
package explain

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlexandreBonaventure/nodehoist/agent"
	"github.com/AlexandreBonaventure/nodehoist/internal/hoist"
)

// Explanation pairs one rejection with its narrated explanation.
type Explanation struct {
	Package     string
	Diagnostic  string
	Explanation string
}

// narrateFunc matches agent.Explain's signature; tests substitute a stub
// here instead of reaching the network.
type narrateFunc func(ctx context.Context, packageName, diagnostic string) (string, error)

// Explainer narrates rejection reasons with a bounded number of
// concurrent LLM calls in flight at once.
type Explainer struct {
	semaphore chan struct{}
	narrate   narrateFunc
}

// NewExplainer creates an Explainer that allows at most concurrencyLimit
// narration calls in flight simultaneously.
func NewExplainer(concurrencyLimit int) *Explainer {
	if concurrencyLimit < 1 {
		concurrencyLimit = 1
	}
	return &Explainer{semaphore: make(chan struct{}, concurrencyLimit), narrate: agent.Explain}
}

// ExplainAll narrates every rejection independently and concurrently,
// bounded by the Explainer's concurrency limit. All narrations run to
// completion; if any failed, the first error encountered is returned.
func (e *Explainer) ExplainAll(ctx context.Context, rejections []hoist.Rejection) ([]Explanation, error) {
	if len(rejections) == 0 {
		return nil, nil
	}

	out := make([]Explanation, len(rejections))
	errChan := make(chan error, len(rejections))
	var wg sync.WaitGroup

	for i, r := range rejections {
		wg.Add(1)
		go func(i int, r hoist.Rejection) {
			defer wg.Done()

			select {
			case e.semaphore <- struct{}{}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
			defer func() { <-e.semaphore }()

			text, err := e.narrate(ctx, string(r.Package), r.Diagnostic)
			if err != nil {
				errChan <- fmt.Errorf("explaining %s: %w", r.Package, err)
				return
			}

			out[i] = Explanation{
				Package:     string(r.Package),
				Diagnostic:  r.Diagnostic,
				Explanation: text,
			}
		}(i, r)
	}

	wg.Wait()
	close(errChan)

	if err, ok := <-errChan; ok {
		return nil, err
	}

	return out, nil
}
