package risk

import "context"

type Repository interface {
	GetRecord(ctx context.Context, clientID uint) (*Record, error)

	// SaveRejection persists the escalated counters together with the new
	// history entry.
	SaveRejection(ctx context.Context, rec *Record, rej Rejection) error
}
