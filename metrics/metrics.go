package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gtanbot_moderation_actions_total",
		Help: "Moderation actions by kind and result",
	}, []string{"action", "result"})

	CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gtanbot_commands_handled_total",
		Help: "Commands handled by name and invocation type",
	}, []string{"command", "type"})

	PendingUnmutes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gtanbot_pending_unmutes",
		Help: "Timed mutes waiting to expire",
	})

	SideEffects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gtanbot_side_effects_total",
		Help: "Best effort deliveries (DMs, modlog mirrors) by kind and result",
	}, []string{"kind", "result"})
)
