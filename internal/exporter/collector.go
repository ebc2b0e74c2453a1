// Package exporter exposes the latest usage snapshot as Prometheus metrics.
package exporter

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/evanr70/usage/internal/usage"
)

const namespace = "usage"

// Collector reports the most recent snapshot observed by the refresh loop.
type Collector struct {
	mu       sync.Mutex
	last     usage.Snapshot
	took     time.Duration
	observed bool

	cycles   prometheus.Counter
	user     *prometheus.Desc
	core     *prometheus.Desc
	tracked  *prometheus.Desc
	duration *prometheus.Desc
}

// NewCollector returns a collector with no snapshot yet. Until the first
// Observe it only reports the cycle counter.
func NewCollector() *Collector {
	return &Collector{
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Number of completed refresh cycles.",
		}),
		user: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "user", "cpu_percent"),
			"Smoothed CPU usage of all processes owned by a user, in percent of one core.",
			[]string{"uid", "user"}, nil,
		),
		core: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "core", "cpu_percent"),
			"Utilization of a CPU core during the last cycle.",
			[]string{"core"}, nil,
		),
		tracked: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "users_tracked"),
			"Number of users in the ranking.",
			nil, nil,
		),
		duration: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cycle", "duration_seconds"),
			"Time taken by the last refresh cycle.",
			nil, nil,
		),
	}
}

// Observe records the snapshot of a completed cycle.
func (c *Collector) Observe(snap usage.Snapshot, took time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.last = snap
	c.took = took
	c.observed = true
	c.cycles.Inc()
}

// Describe returns all descriptions of the collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.user
	ch <- c.core
	ch <- c.tracked
	ch <- c.duration
	c.cycles.Describe(ch)
}

// Collect returns the current state of all metrics of the collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cycles.Collect(ch)
	if !c.observed {
		return
	}

	for _, u := range c.last.Users {
		uid := strconv.FormatUint(uint64(u.ID), 10)
		ch <- prometheus.MustNewConstMetric(c.user, prometheus.GaugeValue, u.Mean, uid, u.Name)
	}
	for i, v := range c.last.Cores {
		ch <- prometheus.MustNewConstMetric(c.core, prometheus.GaugeValue, v, "cpu"+strconv.Itoa(i))
	}
	ch <- prometheus.MustNewConstMetric(c.tracked, prometheus.GaugeValue, float64(len(c.last.Users)))
	ch <- prometheus.MustNewConstMetric(c.duration, prometheus.GaugeValue, c.took.Seconds())
}
