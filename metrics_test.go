package dynamic

import (
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStackMetrics(t *testing.T) {
	st := newTestStack(t, Config{MemoryLimit: 1000})

	m := st.Metrics()
	require.Equal(t, 1, m.Depth)
	require.Zero(t, m.FrameRecords)
	require.Zero(t, m.BytesInUse)
	require.Zero(t, m.Utilization)
	require.Equal(t, int64(1000), m.MemoryLimit)

	st.Malloc(100)
	st.PushFrame()
	New[int64](st, 10)

	m = st.Metrics()
	want := int64(100 + blockBytes(8, 10))
	require.Equal(t, 2, m.Depth)
	require.Equal(t, 1, m.FrameRecords)
	require.Equal(t, 2, m.TotalRecords)
	require.Equal(t, uint64(2), m.Tracked)
	require.Equal(t, want, m.BytesInUse)
	require.InDelta(t, float64(want)/1000, m.Utilization, 1e-9)

	st.Collect(nil)
	m = st.Metrics()
	require.Equal(t, uint64(1), m.Freed)
	require.Equal(t, int64(100), m.BytesInUse)
	require.Equal(t, 1, m.TotalRecords)
}

func TestUtilizationUnlimited(t *testing.T) {
	st := newTestStack(t, Config{})
	st.Malloc(4096)
	require.Zero(t, st.Utilization())
	require.Zero(t, st.MemoryLimit())
}

func TestMetricsCountsKeepAndRelocation(t *testing.T) {
	st := newTestStack(t, Config{})
	l := New[int](st, 1)
	l = l.Append(1).Append(2).Append(3)
	st.Keep(l.Addr())

	m := st.Metrics()
	require.Equal(t, uint64(2), m.Relocated)
	require.Equal(t, uint64(1), m.Untracked)
	require.Zero(t, m.FrameRecords)
	l.Free()
}

func TestCollector(t *testing.T) {
	st := newTestStack(t, Config{MemoryLimit: 4096})
	st.PushFrame()
	st.Malloc(64)

	c := NewCollector(st, prometheus.Labels{"stack": "test"})
	require.Equal(t, 10, testutil.CollectAndCount(c))

	expected := `
# HELP dynamic_frame_depth Number of frames on the stack, root included
# TYPE dynamic_frame_depth gauge
dynamic_frame_depth{stack="test"} 2
# HELP dynamic_bytes_in_use Bytes held by live allocations
# TYPE dynamic_bytes_in_use gauge
dynamic_bytes_in_use{stack="test"} 64
# HELP dynamic_tracked_total Allocations ever tracked
# TYPE dynamic_tracked_total counter
dynamic_tracked_total{stack="test"} 1
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"dynamic_frame_depth", "dynamic_bytes_in_use", "dynamic_tracked_total"))
}

func TestCollectorRegistersTwoStacks(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	a := NewSafeStack(Config{Output: io.Discard})
	b := NewSafeStack(Config{Output: io.Discard})
	t.Cleanup(a.Close)
	t.Cleanup(b.Close)

	require.NoError(t, reg.Register(NewCollector(a, prometheus.Labels{"stack": "a"})))
	require.NoError(t, reg.Register(NewCollector(b, prometheus.Labels{"stack": "b"})))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 10)
	for _, f := range families {
		require.Len(t, f.GetMetric(), 2, f.GetName())
	}
}
