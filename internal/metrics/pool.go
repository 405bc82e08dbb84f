// Package metrics exposes connection pool usage to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pgtodo/internal/store"
)

const namespace = "pgtodo"

// Statter is implemented by store.Pool.
type Statter interface {
	Stat() store.PoolStat
}

// PoolCollector reports a pool's Stat on every scrape.
type PoolCollector struct {
	pool Statter

	acquired *prometheus.Desc
	idle     *prometheus.Desc
	total    *prometheus.Desc
	max      *prometheus.Desc
	acquires *prometheus.Desc
	timeouts *prometheus.Desc
	releases *prometheus.Desc
}

func NewPoolCollector(pool Statter) *PoolCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, nil, nil)
	}

	return &PoolCollector{
		pool:     pool,
		acquired: desc("acquired_conns", "Connections currently checked out."),
		idle:     desc("idle_conns", "Connections open and idle."),
		total:    desc("total_conns", "Connections currently open."),
		max:      desc("max_conns", "Maximum number of open connections."),
		acquires: desc("acquires_total", "Successful connection checkouts."),
		timeouts: desc("acquire_timeouts_total", "Checkouts that gave up after the acquire timeout."),
		releases: desc("releases_total", "Connections returned to the pool."),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
	ch <- c.acquires
	ch <- c.timeouts
	ch <- c.releases
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stat()

	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.Acquired))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.Idle))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.Total))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.Max))
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(s.Acquires))
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(s.Timeouts))
	ch <- prometheus.MustNewConstMetric(c.releases, prometheus.CounterValue, float64(s.Releases))
}

// Handler serves the pool metrics alongside the Go runtime collectors.
func Handler(pool Statter) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		NewPoolCollector(pool),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
