package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/15mga/hive/pool"
)

// PoolCollector 采集时读取pool.Registry各类型的缓存数
type PoolCollector struct {
	registry *pool.Registry
	desc     *prometheus.Desc
}

func NewPoolCollector(namespace string, registry *pool.Registry) *PoolCollector {
	return &PoolCollector{
		registry: registry,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pool", "cached"),
			"Recycled instances cached per type.",
			[]string{"type"}, nil,
		),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	for name, count := range c.registry.Counts() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(count), name)
	}
}
