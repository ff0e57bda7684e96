// Package prom holds the Prometheus collectors of the client and small helpers to feed them.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by this module.
const Namespace = "yoga"

var (
	// APIRequests counts REST calls issued by the client, by method, route and status class.
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "api_client",
		Name:      "requests_total",
		Help:      "REST calls issued to the backend.",
	}, []string{"method", "route", "code"})

	// APIRequestDuration observes the latency of REST calls issued by the client.
	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "api_client",
		Name:      "request_duration_seconds",
		Help:      "Latency of REST calls issued to the backend.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// APIErrors counts REST calls that ended in an error, by method and route.
	APIErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "api_client",
		Name:      "errors_total",
		Help:      "REST calls that failed at the transport or with a non-2xx status.",
	}, []string{"method", "route"})

	// SessionTransitions counts logIn/logOut transitions of the session store.
	SessionTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "session_store",
		Name:      "transitions_total",
		Help:      "Authentication state transitions.",
	}, []string{"to"})
)

// Register adds every collector of this package to the registerer.
func Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		APIRequests, APIRequestDuration, APIErrors, SessionTransitions,
	} {
		if err := r.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// Time observes the time elapsed since the call to Time when the returned func is run; use it as
// `defer prom.Time(histogram.WithLabelValues(...))()`.
func Time(o prometheus.Observer) func() {
	start := time.Now()
	return func() {
		o.Observe(time.Since(start).Seconds())
	}
}

// ErrCount increments the counter if *err is non-nil when the deferred call runs.
func ErrCount(c prometheus.Counter, err *error) {
	if err != nil && *err != nil {
		c.Inc()
	}
}
