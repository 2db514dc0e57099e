package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

const (
	SubjectStatusChanged      = "appointments.status_changed"
	SubjectCompleted          = "appointments.completed"
	SubjectDeleted            = "appointments.deleted"
	SubjectTransactionCreated = "ledger.transaction_created"
	SubjectRiskUpdated        = "clients.risk_updated"
)

// Publisher hands events to the collaborators outside the core
// (loyalty, finance dashboards, notifications).
type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
}

type Envelope struct {
	ID         uuid.UUID `json:"id"`
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func NewEnvelope(subject string, data any) Envelope {
	return Envelope{
		ID:         uuid.New(),
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type StatusChanged struct {
	AppointmentID uint      `json:"appointment_id"`
	BranchID      uint      `json:"branch_id"`
	BarberID      uint      `json:"barber_id"`
	ClientID      uint      `json:"client_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	ActorID       uint      `json:"actor_id"`
	At            time.Time `json:"at"`
}

type AppointmentDeleted struct {
	AppointmentID uint   `json:"appointment_id"`
	BranchID      uint   `json:"branch_id"`
	Status        string `json:"status"`
	ActorID       uint   `json:"actor_id"`
}

type TransactionCreated struct {
	Transaction models.Transaction `json:"transaction"`
}

type RiskUpdated struct {
	ClientID           uint   `json:"client_id"`
	FalseVouchersCount int    `json:"false_vouchers_count"`
	Tier               string `json:"tier"`
	Fraudulent         bool   `json:"fraudulent"`
}

// LogPublisher writes events to the log; used when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("component", "events"))}
}

func (p *LogPublisher) Publish(_ context.Context, subject string, data any) error {
	p.log.Info("event", zap.String("subject", subject), zap.Any("data", data))
	return nil
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Envelope
}

func (r *Recorder) Publish(_ context.Context, subject string, data any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, NewEnvelope(subject, data))
	return nil
}

func (r *Recorder) Events() []Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Envelope(nil), r.events...)
}

func (r *Recorder) Count(subject string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Subject == subject {
			n++
		}
	}
	return n
}
