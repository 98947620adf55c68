package logger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// MetricsNamespace prefixes every prometheus collector of the service.
const MetricsNamespace = "benevole"

var statements = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: "log",
		Name:      "statements_total",
		Help:      "Number of log statements, differentiated by service and level.",
	},
	[]string{"service", "level"},
)

// PrometheusHook counts log statements per level at write time.
type PrometheusHook struct {
	service string
}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || level == zerolog.Disabled {
		return
	}

	statements.WithLabelValues(h.service, level.String()).Inc()
}

// NewPrometheusHook returns a hook counting the statements of service.
func NewPrometheusHook(service string) PrometheusHook {
	return PrometheusHook{service: service}
}
