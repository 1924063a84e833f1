// Package metrics exposes the prometheus counters and histograms the
// resolver records as it sends queries, retries, and verifies TSIG: a
// query counter keyed by nameserver/protocol/result, a retry counter
// keyed by reason, a TSIG-failure counter keyed by reason, and a
// request-duration histogram keyed by nameserver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dnsgo_resolver_queries_total", Help: "Total queries sent by the resolver"},
		[]string{"nameserver", "protocol", "result"},
	)
	RetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dnsgo_resolver_retries_total", Help: "Total retries issued by the resolver"},
		[]string{"reason"},
	)
	TSIGFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dnsgo_tsig_failures_total", Help: "Total TSIG verification failures"},
		[]string{"reason"},
	)
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "dnsgo_resolver_query_duration_seconds", Help: "Query round-trip latency", Buckets: prometheus.DefBuckets},
		[]string{"nameserver"},
	)
)

func init() {
	prometheus.MustRegister(QueriesTotal, RetriesTotal, TSIGFailuresTotal, QueryDuration)
}

// ObserveQuery records the outcome of one query attempt against a
// nameserver, including its round-trip duration.
func ObserveQuery(nameserver, protocol, result string, start time.Time) {
	QueriesTotal.WithLabelValues(nameserver, protocol, result).Inc()
	QueryDuration.WithLabelValues(nameserver).Observe(time.Since(start).Seconds())
}

// RecordRetry records a retry and the reason it was needed, e.g.
// "timeout", "servfail", or "truncated".
func RecordRetry(reason string) {
	RetriesTotal.WithLabelValues(reason).Inc()
}

// RecordTSIGFailure records a TSIG verification failure and its reason,
// e.g. "bad-signature", "bad-time", or "bad-key".
func RecordTSIGFailure(reason string) {
	TSIGFailuresTotal.WithLabelValues(reason).Inc()
}
