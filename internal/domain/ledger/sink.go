package ledger

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

// ErrDuplicate means a transaction for the same appointment already exists.
var ErrDuplicate = errors.New("transaction already recorded for appointment")

// Sink receives the financial side effects of the scheduling core.
type Sink interface {
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
}
