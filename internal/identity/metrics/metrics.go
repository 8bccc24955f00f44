// Package metrics collects and exposes Prometheus metrics for the identity
// service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service and HTTP layers record through.
type Recorder interface {
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordSessionRevoked()
	RecordHTTPStatus(statusCode int)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	loginSuccess   prometheus.Counter
	loginFail      *prometheus.CounterVec
	sessionRevoked prometheus.Counter
	httpStatus     *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "installops_login_success_total",
			Help: "Total number of successful logins",
		}),
		loginFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "installops_login_fail_total",
			Help: "Total number of failed logins by reason",
		}, []string{"reason"}),
		sessionRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "installops_session_revoked_total",
			Help: "Total number of revoked sessions",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "installops_http_status_total",
			Help: "Responses by HTTP status code",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.sessionRevoked,
		c.httpStatus,
	)

	return c
}

func (c *Collector) RecordLoginSuccess() { c.loginSuccess.Inc() }

func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFail.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordSessionRevoked() { c.sessionRevoked.Inc() }

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Nop is a Recorder that discards everything. Useful in tests and when
// metrics are disabled.
type Nop struct{}

func (Nop) RecordLoginSuccess()       {}
func (Nop) RecordLoginFailure(string) {}
func (Nop) RecordSessionRevoked()     {}
func (Nop) RecordHTTPStatus(int)      {}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
