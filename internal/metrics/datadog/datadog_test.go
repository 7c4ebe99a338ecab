package datadog

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyreports/internal/metrics"
)

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	b, err := NewBackend(Config{})
	require.Error(t, err)
	assert.Nil(t, b)
}

func TestLabelsToTags(t *testing.T) {
	t.Parallel()

	assert.Nil(t, labelsToTags(nil))
	assert.Equal(t,
		[]string{"job:daily_reports", "status:success", "step:ingest_file"},
		labelsToTags(metrics.Labels{"step": "ingest_file", "job": "daily_reports", "status": "success"}),
	)
}

func TestNilClientIsNoop(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	assert.NotPanics(t, func() {
		b.IncCounter(metrics.RecordsTotal, 1, nil)
		b.ObserveHistogram(metrics.StepDurationSeconds, 1, nil)
	})
	assert.NoError(t, b.Flush())
}

// TestBackend_SendsDogStatsD listens on a local UDP socket and checks the
// datagrams emitted after Flush.
func TestBackend_SendsDogStatsD(t *testing.T) {
	t.Parallel()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer conn.Close()

	b, err := NewBackend(Config{Addr: conn.LocalAddr().String(), Namespace: "covid."})
	require.NoError(t, err)

	b.IncCounter(metrics.RecordsTotal, 5, metrics.Labels{"job": "daily_reports", "kind": "inserted"})
	b.ObserveHistogram(metrics.StepDurationSeconds, 0.25, metrics.Labels{"step": "correlate"})
	require.NoError(t, b.Flush())

	var got strings.Builder
	buf := make([]byte, 4096)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for !strings.Contains(got.String(), "reports_step_duration_seconds") || !strings.Contains(got.String(), "reports_records_total") {
		n, _, err := conn.ReadFrom(buf)
		require.NoError(t, err, "received so far: %q", got.String())
		got.Write(buf[:n])
		got.WriteByte('\n')
	}

	out := got.String()
	assert.Contains(t, out, "covid.reports_records_total:5|c|#job:daily_reports,kind:inserted")
	assert.Contains(t, out, "covid.reports_step_duration_seconds:0.25|h|#step:correlate")
}
