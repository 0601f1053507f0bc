package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/15mga/hive/event"
	"github.com/15mga/hive/util"
	"github.com/15mga/hive/world"
)

var (
	_ world.IObserver = (*Metrics)(nil)
	_ event.IObserver = (*Metrics)(nil)
)

// Metrics 同时实现world与event的观察者
type Metrics struct {
	singletons      prometheus.Gauge
	hookFailures    *prometheus.CounterVec
	tickDuration    *prometheus.HistogramVec
	tickServices    *prometheus.GaugeVec
	eventsFired     *prometheus.CounterVec
	eventsDrained   prometheus.Counter
	drainDuration   prometheus.Histogram
	handlerFailures *prometheus.CounterVec
}

func New(namespace string, reg prometheus.Registerer) (*Metrics, *util.Err) {
	m := &Metrics{
		singletons: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "singletons",
			Help:      "Number of registered singletons.",
		}),
		hookFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "hook_failures_total",
			Help:      "Recovered failures of singleton hooks.",
		}, []string{"singleton", "hook"}),
		tickDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "tick_seconds",
			Help:      "Duration of one update or late update rotation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"hook"}),
		tickServices: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "tick_singletons",
			Help:      "Singletons visited in the last rotation.",
		}, []string{"hook"}),
		eventsFired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "fired_total",
			Help:      "Dispatched events.",
		}, []string{"mode"}),
		eventsDrained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "drained_total",
			Help:      "Deferred events processed by drains.",
		}),
		drainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "drain_seconds",
			Help:      "Duration of one event drain.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "event",
			Name:      "handler_failures_total",
			Help:      "Recovered event handler failures.",
		}, []string{"id"}),
	}
	for _, c := range []prometheus.Collector{
		m.singletons,
		m.hookFailures,
		m.tickDuration,
		m.tickServices,
		m.eventsFired,
		m.eventsDrained,
		m.drainDuration,
		m.handlerFailures,
	} {
		if e := reg.Register(c); e != nil {
			return nil, util.WrapErr(util.EcExist, e)
		}
	}
	return m, nil
}

func (m *Metrics) SingletonAdded(name string) {
	m.singletons.Inc()
}

func (m *Metrics) SingletonRemoved(name string) {
	m.singletons.Dec()
}

func (m *Metrics) HookFailed(name, hook string) {
	m.hookFailures.WithLabelValues(name, hook).Inc()
}

func (m *Metrics) TickDone(hook string, count int, dur time.Duration) {
	m.tickDuration.WithLabelValues(hook).Observe(dur.Seconds())
	m.tickServices.WithLabelValues(hook).Set(float64(count))
}

func (m *Metrics) EventFired(id event.Id, deferred bool) {
	if deferred {
		m.eventsFired.WithLabelValues("deferred").Inc()
		return
	}
	m.eventsFired.WithLabelValues("immediate").Inc()
}

func (m *Metrics) EventDrained(count int, dur time.Duration) {
	m.eventsDrained.Add(float64(count))
	m.drainDuration.Observe(dur.Seconds())
}

func (m *Metrics) HandlerFailed(id event.Id) {
	m.handlerFailures.WithLabelValues(strconv.FormatUint(uint64(id), 10)).Inc()
}
