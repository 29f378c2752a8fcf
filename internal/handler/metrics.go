package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academiapulse_mutations_total",
		Help: "Domain mutations by kind.",
	}, []string{"kind"})

	aiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academiapulse_ai_requests_total",
		Help: "AI text-service requests by operation and outcome.",
	}, []string{"op", "outcome"})

	exportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academiapulse_exports_total",
		Help: "Report exports by shape and format.",
	}, []string{"shape", "format"})
)

func countAI(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	aiRequestsTotal.WithLabelValues(op, outcome).Inc()
}
