// Package metrics exposes Prometheus collectors for HTTP traffic, store
// changes and record counts.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/conneroisu/inkpot/internal/store"
	"github.com/conneroisu/inkpot/internal/types"
)

const namespace = "inkpot"

var defaultDurationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics owns a dedicated registry so tests and multiple servers in one
// process never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	storeEvents     *prometheus.CounterVec
}

// New registers the collectors. Record counts are read from st at scrape
// time; clients, when non-nil, reports connected live-update clients.
func New(st *store.Store, clients func() int) (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent handling HTTP requests in seconds",
			Buckets:   defaultDurationBuckets,
		}, []string{"method", "route"}),
		storeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "events_total",
			Help:      "Store changes, by entity and change type",
		}, []string{"entity", "type"}),
	}

	toRegister := []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.storeEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}

	if st != nil {
		toRegister = append(toRegister,
			recordGauge(types.EntityCategory, st.Categories.Count),
			recordGauge(types.EntityPost, st.Posts.Count),
			recordGauge(types.EntityComment, st.Comments.Count),
		)
	}

	if clients != nil {
		toRegister = append(toRegister, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "clients",
			Help:      "Connected live-update clients",
		}, func() float64 { return float64(clients()) }))
	}

	for _, c := range toRegister {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("could not register metric: %w", err)
		}
	}

	return m, nil
}

func recordGauge(entity types.EntityKind, count func() int) prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   "store",
		Name:        "records",
		Help:        "Records currently held in memory, by entity",
		ConstLabels: prometheus.Labels{"entity": string(entity)},
	}, func() float64 { return float64(count()) })
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request. route is the router
// pattern, such as /post/{id}, never the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveEvent counts one store change.
func (m *Metrics) ObserveEvent(event types.StoreEvent) {
	m.storeEvents.WithLabelValues(string(event.Entity), string(event.Type)).Inc()
}

// Record counts every event received on events until ctx is done or events
// is closed.
func (m *Metrics) Record(ctx context.Context, events <-chan types.StoreEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			m.ObserveEvent(event)
		}
	}
}
