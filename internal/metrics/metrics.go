package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "satmon_"

const (
	CommandResultSent   = "sent"
	CommandResultFailed = "failed"
)

type collectors struct {
	pollTotal   *prometheus.CounterVec
	pollLatency *prometheus.HistogramVec
	fetchErrors *prometheus.CounterVec

	commandRequests prometheus.Counter
	commandResults  *prometheus.CounterVec
}

var (
	registerOnce sync.Once
	active       atomic.Pointer[collectors]
)

// Init registers the collectors with reg, or with the default registry when
// reg is nil. Only the first call has any effect. Recording functions are
// no-ops until Init has run and may be called concurrently with it.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		c := &collectors{
			pollTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: metricPrefix + "poll_total",
					Help: "Total completed poll cycles by source and provenance",
				},
				[]string{"source", "provenance"},
			),
			pollLatency: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    metricPrefix + "poll_latency_seconds",
					Help:    "Poll cycle latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"source"},
			),
			fetchErrors: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: metricPrefix + "fetch_errors_total",
					Help: "Total upstream fetch failures by kind",
				},
				[]string{"kind"},
			),
			commandRequests: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: metricPrefix + "command_requests_total",
					Help: "Total issued commands",
				},
			),
			commandResults: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: metricPrefix + "command_results_total",
					Help: "Total command results by status",
				},
				[]string{"status"},
			),
		}

		reg.MustRegister(
			c.pollTotal,
			c.pollLatency,
			c.fetchErrors,
			c.commandRequests,
			c.commandResults,
		)
		active.Store(c)
	})
}

// IncPoll counts one completed poll for source with the given provenance.
func IncPoll(source, provenance string) {
	if source == "" {
		source = "unknown"
	}
	if provenance == "" {
		provenance = "unknown"
	}
	if c := active.Load(); c != nil {
		c.pollTotal.WithLabelValues(source, provenance).Inc()
	}
}

// ObservePollLatency records how long a poll cycle took.
func ObservePollLatency(source string, d time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if c := active.Load(); c != nil {
		c.pollLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

// IncFetchError counts an upstream failure of the given kind.
func IncFetchError(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if c := active.Load(); c != nil {
		c.fetchErrors.WithLabelValues(kind).Inc()
	}
}

func IncCommandIssued() {
	if c := active.Load(); c != nil {
		c.commandRequests.Inc()
	}
}

func IncCommandResult(status string) {
	if status == "" {
		status = "unknown"
	}
	if c := active.Load(); c != nil {
		c.commandResults.WithLabelValues(status).Inc()
	}
}
