package risk

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/risk"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/events"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/metrics"
)

// Ledger is the single writer of client risk records.
type Ledger struct {
	mu         sync.Mutex
	repo       risk.Repository
	classifier risk.Classifier
	events     events.Publisher
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewLedger(
	repo risk.Repository,
	classifier risk.Classifier,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) *Ledger {
	if classifier == nil {
		classifier = risk.NewKeywordClassifier()
	}
	return &Ledger{
		repo:       repo,
		classifier: classifier,
		events:     publisher,
		metrics:    m,
		log:        log.With(zap.String("usecase", "risk_ledger")),
	}
}

// RecordRejection appends the rejection and escalates the client's tier
// when the reason is classified as fraud.
func (l *Ledger) RecordRejection(
	ctx context.Context,
	clientID uint,
	rej risk.Rejection,
) (*risk.Record, error) {

	l.mu.Lock()
	defer l.mu.Unlock()

	current, err := l.repo.GetRecord(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load risk record %d: %w", clientID, err)
	}

	next, applied := risk.Apply(*current, rej, l.classifier)

	if err := l.repo.SaveRejection(ctx, &next, applied); err != nil {
		return nil, fmt.Errorf("save rejection for client %d: %w", clientID, err)
	}

	l.metrics.VoucherRejections.WithLabelValues(strconv.FormatBool(applied.Fraudulent)).Inc()

	if next.Tier() != current.Tier() {
		l.log.Warn("client risk tier escalated",
			zap.Uint("client_id", clientID),
			zap.String("from", string(current.Tier())),
			zap.String("to", string(next.Tier())),
			zap.Int("false_vouchers", next.FalseVouchersCount),
		)
	}

	if err := l.events.Publish(ctx, events.SubjectRiskUpdated, events.RiskUpdated{
		ClientID:           clientID,
		FalseVouchersCount: next.FalseVouchersCount,
		Tier:               string(next.Tier()),
		Fraudulent:         applied.Fraudulent,
	}); err != nil {
		l.log.Error("publish risk update failed", zap.Uint("client_id", clientID), zap.Error(err))
	}

	return &next, nil
}

func (l *Ledger) CanBookPendingPayment(ctx context.Context, clientID uint) (bool, error) {
	rec, err := l.repo.GetRecord(ctx, clientID)
	if err != nil {
		return false, err
	}
	return rec.CanBookPendingPayment(), nil
}

func (l *Ledger) Get(ctx context.Context, clientID uint) (*risk.Record, error) {
	return l.repo.GetRecord(ctx, clientID)
}
