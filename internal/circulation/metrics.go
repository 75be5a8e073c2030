package circulation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// commandsTotal counts circulation commands by outcome code (ok, conflict, ineligible, ...).
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circulation_commands_total",
		Help: "Total circulation commands by command and result",
	}, []string{"command", "result"})

	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "circulation_command_duration_seconds",
		Help:    "Circulation command duration",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"command"})

	feesAssessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circulation_fees_assessed_minor_units_total",
		Help: "Fees assessed in minor currency units by kind",
	}, []string{"kind"})

	overdueMarked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circulation_overdue_marked_total",
		Help: "Transactions labelled overdue by the sweep",
	})
)

func observe(command string, start time.Time, err error) {
	commandsTotal.WithLabelValues(command, Code(err)).Inc()
	commandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
}

func recordFees(f Fees) {
	if f.Late > 0 {
		feesAssessed.WithLabelValues("late").Add(float64(f.Late))
	}

	if f.Damage > 0 {
		feesAssessed.WithLabelValues("damage").Add(float64(f.Damage))
	}

	if f.Processing > 0 {
		feesAssessed.WithLabelValues("processing").Add(float64(f.Processing))
	}
}
