package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a simple in-memory Backend implementation for tests.
type fakeBackend struct {
	mu sync.Mutex

	callsCounters   []counterCall
	callsHistograms []histCall
	flushCount      int
}

type counterCall struct {
	name   string
	delta  float64
	labels Labels
}

type histCall struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsCounters = append(f.callsCounters, counterCall{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callsHistograms = append(f.callsHistograms, histCall{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushCount++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	prev := SetBackend(fb)
	t.Cleanup(func() { SetBackend(prev) })
	return fb
}

func TestRecordStep_SuccessAndFailure(t *testing.T) {
	fb := install(t)

	RecordStep("daily_reports", "ingest_file", nil, 2*time.Second)
	RecordStep("daily_reports", "correlate", errors.New("boom"), 1500*time.Millisecond)

	require.Len(t, fb.callsCounters, 2)
	require.Len(t, fb.callsHistograms, 2)

	cc0 := fb.callsCounters[0]
	assert.Equal(t, StepTotal, cc0.name)
	assert.Equal(t, 1.0, cc0.delta)
	assert.Equal(t, Labels{"job": "daily_reports", "step": "ingest_file", "status": "success"}, cc0.labels)

	h0 := fb.callsHistograms[0]
	assert.Equal(t, StepDurationSeconds, h0.name)
	assert.InDelta(t, 2.0, h0.value, 0.001)

	cc1 := fb.callsCounters[1]
	assert.Equal(t, "correlate", cc1.labels["step"])
	assert.Equal(t, "failure", cc1.labels["status"])
	assert.InDelta(t, 1.5, fb.callsHistograms[1].value, 0.001)
}

func TestRecordRowAndBatches(t *testing.T) {
	fb := install(t)

	RecordRow("jobX", "parsed", 3)
	RecordRow("jobX", "parsed", 0) // ignored
	RecordRow("jobY", "inserted", 5)
	RecordBatches("jobZ", 2)
	RecordBatches("jobZ", -1) // ignored

	require.Len(t, fb.callsCounters, 3)

	assert.Equal(t, counterCall{RecordsTotal, 3, Labels{"job": "jobX", "kind": "parsed"}}, fb.callsCounters[0])
	assert.Equal(t, counterCall{RecordsTotal, 5, Labels{"job": "jobY", "kind": "inserted"}}, fb.callsCounters[1])
	assert.Equal(t, counterCall{BatchesTotal, 2, Labels{"job": "jobZ"}}, fb.callsCounters[2])
}

func TestSetBackendAndFlush(t *testing.T) {
	fb := install(t)

	require.NoError(t, Flush())
	assert.Equal(t, 1, fb.flushCount)

	// SetBackend(nil) restores the no-op backend and returns the previous one.
	prev := SetBackend(nil)
	assert.Same(t, fb, prev)
	assert.NoError(t, Flush())
	assert.Equal(t, 1, fb.flushCount)
	RecordRow("job", "inserted", 1)
	assert.Empty(t, fb.callsCounters)
}
