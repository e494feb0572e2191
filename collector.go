package dynamic

import "github.com/prometheus/client_golang/prometheus"

// MetricsSource is satisfied by Stack and SafeStack.
type MetricsSource interface {
	Metrics() StackMetrics
}

// Collector exports StackMetrics to Prometheus. Scrapes run on their own
// goroutine, so a Stack shared with a collector should be a SafeStack.
type Collector struct {
	src MetricsSource

	depth         *prometheus.Desc
	frameRecords  *prometheus.Desc
	totalRecords  *prometheus.Desc
	tracked       *prometheus.Desc
	untracked     *prometheus.Desc
	freed         *prometheus.Desc
	relocated     *prometheus.Desc
	allocFailures *prometheus.Desc
	bytesInUse    *prometheus.Desc
	memoryLimit   *prometheus.Desc
}

// NewCollector returns a collector reading src on every scrape. constLabels
// distinguish several stacks registered in one registry.
func NewCollector(src MetricsSource, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("dynamic", "", name), help, nil, constLabels)
	}
	return &Collector{
		src:           src,
		depth:         desc("frame_depth", "Number of frames on the stack, root included"),
		frameRecords:  desc("frame_records", "Records tracked in the top frame"),
		totalRecords:  desc("records", "Records tracked across all frames"),
		tracked:       desc("tracked_total", "Allocations ever tracked"),
		untracked:     desc("untracked_total", "Allocations removed from tracking"),
		freed:         desc("released_total", "Allocations released"),
		relocated:     desc("relocations_total", "Tracked allocations rewritten after a move"),
		allocFailures: desc("alloc_failures_total", "Allocations refused"),
		bytesInUse:    desc("bytes_in_use", "Bytes held by live allocations"),
		memoryLimit:   desc("memory_limit_bytes", "Configured memory limit, 0 if unlimited"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.depth
	ch <- c.frameRecords
	ch <- c.totalRecords
	ch <- c.tracked
	ch <- c.untracked
	ch <- c.freed
	ch <- c.relocated
	ch <- c.allocFailures
	ch <- c.bytesInUse
	ch <- c.memoryLimit
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.src.Metrics()
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge(c.depth, float64(m.Depth))
	gauge(c.frameRecords, float64(m.FrameRecords))
	gauge(c.totalRecords, float64(m.TotalRecords))
	counter(c.tracked, m.Tracked)
	counter(c.untracked, m.Untracked)
	counter(c.freed, m.Freed)
	counter(c.relocated, m.Relocated)
	counter(c.allocFailures, m.AllocFailures)
	gauge(c.bytesInUse, float64(m.BytesInUse))
	gauge(c.memoryLimit, float64(m.MemoryLimit))
}
