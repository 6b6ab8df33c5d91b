package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	BookingsCreated    prometheus.Counter
	CapacityRejections prometheus.Counter
	PricingMisses      prometheus.Counter

	SweepTransitions *prometheus.CounterVec // event label: activated|expired
	SweepSkipped     prometheus.Counter
	SweepDuration    prometheus.Histogram

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge

	HTTPDuration *prometheus.HistogramVec // method, status labels
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		BookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transport_bookings_created_total",
			Help: "Bookings accepted by the capacity guard and inserted.",
		}),
		CapacityRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transport_capacity_rejections_total",
			Help: "Booking attempts rejected because the route was full.",
		}),
		PricingMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transport_pricing_misses_total",
			Help: "Price lookups that matched no active pricing rule.",
		}),
		SweepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transport_sweep_transitions_total",
			Help: "Status transitions applied by the scheduled sweep.",
		}, []string{"event"}),
		SweepSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transport_sweep_skipped_total",
			Help: "Bookings skipped during a sweep because the transition was rejected.",
		}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "transport_sweep_duration_seconds",
			Help:    "Duration of one full status sweep.",
			Buckets: prometheus.DefBuckets,
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transport_nats_published_total",
			Help: "Notification events published to NATS.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transport_nats_publish_errors_total",
			Help: "Failed NATS publishes.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "transport_nats_connected",
			Help: "1 when the NATS connection is up.",
		}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transport_http_request_duration_seconds",
			Help:    "HTTP request latency by method and response status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}

	reg.MustRegister(
		c.BookingsCreated,
		c.CapacityRejections,
		c.PricingMisses,
		c.SweepTransitions,
		c.SweepSkipped,
		c.SweepDuration,
		c.NATSPublished,
		c.NATSPublishErrs,
		c.NATSConnected,
		c.HTTPDuration,
	)

	return c
}

// Handler serves the /metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveHTTP(method string, status int, d time.Duration) {
	c.HTTPDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

func (c *Collector) ObserveSweep(d time.Duration) {
	c.SweepDuration.Observe(d.Seconds())
}

func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
		return
	}
	c.NATSConnected.Set(0)
}
