package summarize

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	mu      sync.Mutex
	results map[Length]Result
	errs    map[Length]error
	delay   map[Length]time.Duration
	calls   []Length
}

func (c *scriptedClient) Summarize(ctx context.Context, _ string, length Length) (Result, error) {
	c.mu.Lock()
	c.calls = append(c.calls, length)
	c.mu.Unlock()

	if d := c.delay[length]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	if err := c.errs[length]; err != nil {
		return Result{}, err
	}
	return c.results[length], nil
}

func TestOrchestratorAllSucceed(t *testing.T) {
	o := NewOrchestrator(&scriptedClient{
		results: map[Length]Result{
			LengthShort:  {Text: "s"},
			LengthMedium: {Text: "m"},
			LengthLong:   {Text: "l"},
		},
	})

	set, err := o.Summarize(context.Background(), "some document text")
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, "s", set[LengthShort].Text)
	assert.Equal(t, "m", set[LengthMedium].Text)
	assert.Equal(t, "l", set[LengthLong].Text)
	assert.Equal(t, 0, set.FallbackCount())
}

func TestOrchestratorFanOutIsolation(t *testing.T) {
	// One degraded length must not drop the other two entries.
	o := NewOrchestrator(&scriptedClient{
		results: map[Length]Result{
			LengthShort:  {Text: "s"},
			LengthMedium: {Text: "m"},
			LengthLong:   {Text: FallbackText, Fallback: true},
		},
	})

	set, err := o.Summarize(context.Background(), "some document text")
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, "s", set[LengthShort].Text)
	assert.Equal(t, "m", set[LengthMedium].Text)
	assert.Equal(t, FallbackText, set[LengthLong].Text)
	assert.Equal(t, 1, set.FallbackCount())
}

func TestOrchestratorAllFallback(t *testing.T) {
	// Globally unreachable upstream: three fallback entries, no error.
	o := NewOrchestrator(&scriptedClient{
		results: map[Length]Result{
			LengthShort:  {Text: FallbackText, Fallback: true},
			LengthMedium: {Text: FallbackText, Fallback: true},
			LengthLong:   {Text: FallbackText, Fallback: true},
		},
	})

	set, err := o.Summarize(context.Background(), "some document text")
	require.NoError(t, err)
	require.Len(t, set, 3)
	assert.Equal(t, 3, set.FallbackCount())
	for _, length := range Lengths() {
		assert.Equal(t, FallbackText, set[length].Text)
	}
}

func TestOrchestratorQuotaAbortsRequest(t *testing.T) {
	o := NewOrchestrator(&scriptedClient{
		results: map[Length]Result{
			LengthShort: {Text: "s"},
			LengthLong:  {Text: "l"},
		},
		errs: map[Length]error{
			LengthMedium: &SummarizationError{Reason: "quota exceeded", Quota: true},
		},
	})

	_, err := o.Summarize(context.Background(), "some document text")
	var serr *SummarizationError
	require.ErrorAs(t, err, &serr)
	assert.True(t, serr.Quota)
}

func TestOrchestratorEmptyText(t *testing.T) {
	o := NewOrchestrator(&scriptedClient{})

	_, err := o.Summarize(context.Background(), "   \n\t ")
	var serr *SummarizationError
	require.ErrorAs(t, err, &serr)
	assert.False(t, serr.Quota)
}

func TestOrchestratorCallsEachLengthOnce(t *testing.T) {
	client := &scriptedClient{
		results: map[Length]Result{
			LengthShort:  {Text: "s"},
			LengthMedium: {Text: "m"},
			LengthLong:   {Text: "l"},
		},
	}
	o := NewOrchestrator(client)

	_, err := o.Summarize(context.Background(), "some document text")
	require.NoError(t, err)

	counts := map[Length]int{}
	for _, l := range client.calls {
		counts[l]++
	}
	for _, length := range Lengths() {
		assert.Equal(t, 1, counts[length], "length %s", length)
	}
}

func TestOrchestratorRunsCallsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	client := &concurrencyProbe{inFlight: &inFlight, peak: &peak}

	_, err := NewOrchestrator(client).Summarize(context.Background(), "some document text")
	require.NoError(t, err)
	assert.Equal(t, int32(3), peak.Load(), "all three calls should overlap")
}

type concurrencyProbe struct {
	inFlight *atomic.Int32
	peak     *atomic.Int32
}

func (c *concurrencyProbe) Summarize(_ context.Context, _ string, _ Length) (Result, error) {
	n := c.inFlight.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	// Hold until all three calls are in flight so overlap is observable.
	deadline := time.Now().Add(2 * time.Second)
	for c.peak.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	c.inFlight.Add(-1)
	return Result{Text: "ok"}, nil
}
