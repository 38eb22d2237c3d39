// Package metrics registers the Prometheus series exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Job results recorded by RecordBookCountJob.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Collector owns every series the API reports.
type Collector struct {
	eventsPublished *prometheus.CounterVec
	bookCountJobs   *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewCollector creates the series and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "library_events_published_total",
			Help: "Domain events published on the in-process bus.",
		}, []string{"event"}),
		bookCountJobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "library_book_count_jobs_total",
			Help: "Author book count recalculations by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "library_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "library_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.eventsPublished,
		c.bookCountJobs,
		c.httpRequests,
		c.httpDuration,
	)

	return c
}

// EventPublished satisfies events.Observer.
func (c *Collector) EventPublished(name string) {
	c.eventsPublished.WithLabelValues(name).Inc()
}

func (c *Collector) RecordBookCountJob(err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	c.bookCountJobs.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records one finished request. route is the matched
// route pattern, never the raw path, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
