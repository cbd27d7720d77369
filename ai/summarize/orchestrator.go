package summarize

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// SummarySet holds one settled result per length class. After a successful
// orchestration it always has exactly three entries; a degraded entry
// carries FallbackText, never an absent key.
type SummarySet map[Length]Result

// Texts flattens the set to length name to summary text.
func (s SummarySet) Texts() map[string]string {
	out := make(map[string]string, len(s))
	for length, res := range s {
		out[string(length)] = res.Text
	}
	return out
}

// FallbackCount reports how many entries settled degraded.
func (s SummarySet) FallbackCount() int {
	n := 0
	for _, res := range s {
		if res.Fallback {
			n++
		}
	}
	return n
}

// Orchestrator fans one text out to three concurrent summarization calls
// and joins them with an all-complete barrier. Total latency tracks the
// slowest call rather than the sum of the three.
type Orchestrator struct {
	client Client
}

func NewOrchestrator(client Client) *Orchestrator {
	return &Orchestrator{client: client}
}

// Summarize runs the fan-out. A per-call failure has already been absorbed
// into a fallback Result by the client, so one slow or failing length never
// drops the other two. The error return fires only for request-fatal
// conditions: empty input or an escalated SummarizationError.
func (o *Orchestrator) Summarize(ctx context.Context, text string) (SummarySet, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &SummarizationError{Reason: "empty input text"}
	}

	var mu sync.Mutex
	set := make(SummarySet, 3)

	g, gctx := errgroup.WithContext(ctx)
	for _, length := range Lengths() {
		g.Go(func() error {
			res, err := o.client.Summarize(gctx, text, length)
			if err != nil {
				return err
			}
			mu.Lock()
			set[length] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if serr, ok := err.(*SummarizationError); ok {
			return nil, serr
		}
		return nil, &SummarizationError{Reason: "summarization call failed", Err: err}
	}

	return set, nil
}
