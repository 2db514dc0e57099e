package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters of the booking core. Each instance owns its
// registry so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	AppointmentsCreated *prometheus.CounterVec
	BookingsRejected    *prometheus.CounterVec
	StatusTransitions   *prometheus.CounterVec
	VoucherRejections   *prometheus.CounterVec
	AttendanceIncome    prometheus.Counter
	RemindersSent       *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		AppointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Name:      "appointments_created_total",
			Help:      "Appointments created, by initial status.",
		}, []string{"status"}),
		BookingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Name:      "bookings_rejected_total",
			Help:      "Booking attempts refused, by reason.",
		}, []string{"reason"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Name:      "status_transitions_total",
			Help:      "Appointment status transitions.",
		}, []string{"from", "to"}),
		VoucherRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Name:      "voucher_rejections_total",
			Help:      "Rejected vouchers, by fraud classification.",
		}, []string{"fraudulent"}),
		AttendanceIncome: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barber",
			Name:      "attendance_income_transactions_total",
			Help:      "Income transactions emitted by attendance marking.",
		}),
		RemindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barber",
			Name:      "reminders_total",
			Help:      "Reminder dispatch attempts, by result.",
		}, []string{"result"}),
	}

	m.Registry.MustRegister(
		m.AppointmentsCreated,
		m.BookingsRejected,
		m.StatusTransitions,
		m.VoucherRejections,
		m.AttendanceIncome,
		m.RemindersSent,
	)
	return m
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}
