package ledger

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pointadmin_ledger_operations_total",
			Help: "Ledger operations by type and outcome",
		},
		[]string{"op", "result"},
	)

	pointsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pointadmin_ledger_points_total",
			Help: "Points added or redeemed",
		},
		[]string{"op"},
	)

	casConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pointadmin_ledger_cas_conflicts_total",
			Help: "Balance writes that lost a race and were retried",
		},
	)
)

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid"
	}
	return "error"
}
