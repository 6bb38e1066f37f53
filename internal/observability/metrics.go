package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// NotificationsFanout counts notification rows written by triggering action.
	NotificationsFanout = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ripple_notifications_fanout_total",
		Help: "Total number of notifications fanned out by type",
	}, []string{"type"})
)
