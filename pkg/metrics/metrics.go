package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "officemgr_tool_calls_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "outcome"},
	)

	BookingServiceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "officemgr_booking_service_requests_total",
			Help: "Total number of requests to the external booking service",
		},
		[]string{"endpoint", "status"},
	)

	AgentTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "officemgr_agent_turns_total",
			Help: "Total number of agent conversation turns",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(ToolCallsTotal)
	prometheus.MustRegister(BookingServiceRequestsTotal)
	prometheus.MustRegister(AgentTurnsTotal)
}
