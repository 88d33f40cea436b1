package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the admission, check-in and reconciliation collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registrations   *prometheus.CounterVec
	counterUpdates  *prometheus.CounterVec
	checkIns        *prometheus.CounterVec
	attendanceMarks *prometheus.CounterVec
	reconciled      *prometheus.CounterVec
	reconcileRuns   prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registrations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conectaxe_registrations_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		counterUpdates: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conectaxe_tickets_issued_updates_total",
				Help: "Updates of the per-event issued ticket counter",
			},
			[]string{"status"},
		),
		checkIns: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conectaxe_checkins_total",
				Help: "Check-in scans by result",
			},
			[]string{"result"},
		),
		attendanceMarks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conectaxe_attendance_marks_total",
				Help: "Attendance marks written by value",
			},
			[]string{"attendance"},
		),
		reconciled: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conectaxe_reconciled_events_total",
				Help: "Events visited by the reconciliation pass by result",
			},
			[]string{"result"},
		),
		reconcileRuns: f.NewCounter(
			prometheus.CounterOpts{
				Name: "conectaxe_reconcile_runs_total",
				Help: "Reconciliation passes started",
			},
		),
	}
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CounterUpdate(status string) {
	if m == nil {
		return
	}
	m.counterUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) CheckIn(result string) {
	if m == nil {
		return
	}
	m.checkIns.WithLabelValues(result).Inc()
}

func (m *Metrics) AttendanceMark(attendance string) {
	if m == nil {
		return
	}
	m.attendanceMarks.WithLabelValues(attendance).Inc()
}

func (m *Metrics) ReconcileRun() {
	if m == nil {
		return
	}
	m.reconcileRuns.Inc()
}

func (m *Metrics) Reconciled(result string) {
	if m == nil {
		return
	}
	m.reconciled.WithLabelValues(result).Inc()
}
