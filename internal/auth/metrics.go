package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/benevole/benevole/internal/logger"
)

const (
	resultAllow   = "allow"
	resultDeny    = "deny"
	resultSuccess = "success"
	resultFailure = "failure"
)

var (
	decisions = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: logger.MetricsNamespace,
			Name:      "authz_decisions_total",
			Help:      "Number of access decisions, differentiated by result.",
		},
		[]string{"result"},
	)

	authentications = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Namespace: logger.MetricsNamespace,
			Name:      "authn_attempts_total",
			Help:      "Number of login attempts, differentiated by result.",
		},
		[]string{"result"},
	)
)
