package risk

import (
	"time"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

const (
	FlagThreshold      = 2
	BlacklistThreshold = 3
)

type Tier string

const (
	TierNormal      Tier = "normal"
	TierFlagged     Tier = "flagged"
	TierBlacklisted Tier = "blacklisted"
)

type Rejection struct {
	AppointmentID uint      `json:"appointment_id"`
	Date          time.Time `json:"date"`
	Reason        string    `json:"reason"`
	VoucherNumber string    `json:"voucher_number"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	VerifiedBy    uint      `json:"verified_by"`
	Fraudulent    bool      `json:"fraudulent"`
}

// Record is the risk view of a client.
type Record struct {
	ClientID           uint        `json:"client_id"`
	FalseVouchersCount int         `json:"false_vouchers_count"`
	IsFlagged          bool        `json:"is_flagged"`
	Blacklisted        bool        `json:"blacklisted"`
	History            []Rejection `json:"rejection_history"`
}

func (r Record) Tier() Tier {
	switch {
	case r.Blacklisted:
		return TierBlacklisted
	case r.IsFlagged:
		return TierFlagged
	default:
		return TierNormal
	}
}

// CanBookPendingPayment is false once the client is blacklisted.
// Cash bookings are not gated.
func (r Record) CanBookPendingPayment() bool {
	return !r.Blacklisted
}

// Apply appends rej to the history and escalates the counters when the
// classifier marks the reason as fraud. Counters and flags only grow.
func Apply(rec Record, rej Rejection, cls Classifier) (Record, Rejection) {
	rej.Fraudulent = cls.IsFraud(rej.Reason)

	next := rec
	next.History = make([]Rejection, 0, len(rec.History)+1)
	next.History = append(next.History, rec.History...)
	next.History = append(next.History, rej)

	if rej.Fraudulent {
		next.FalseVouchersCount++
	}
	next.IsFlagged = rec.IsFlagged || next.FalseVouchersCount >= FlagThreshold
	next.Blacklisted = rec.Blacklisted || next.FalseVouchersCount >= BlacklistThreshold

	return next, rej
}

func FromClient(c *models.Client) Record {
	rec := Record{
		ClientID:           c.ID,
		FalseVouchersCount: c.FalseVouchersCount,
		IsFlagged:          c.IsFlagged,
		Blacklisted:        c.Blacklisted,
		History:            make([]Rejection, 0, len(c.Rejections)),
	}
	for _, r := range c.Rejections {
		rec.History = append(rec.History, Rejection{
			AppointmentID: r.AppointmentID,
			Date:          r.Date,
			Reason:        r.Reason,
			VoucherNumber: r.VoucherNumber,
			Amount:        r.Amount,
			PaymentMethod: r.PaymentMethod,
			VerifiedBy:    r.VerifiedBy,
			Fraudulent:    r.Fraudulent,
		})
	}
	return rec
}

func (r Rejection) Model(clientID uint) models.VoucherRejection {
	return models.VoucherRejection{
		ClientID:      clientID,
		AppointmentID: r.AppointmentID,
		Date:          r.Date,
		Reason:        r.Reason,
		VoucherNumber: r.VoucherNumber,
		Amount:        r.Amount,
		PaymentMethod: r.PaymentMethod,
		VerifiedBy:    r.VerifiedBy,
		Fraudulent:    r.Fraudulent,
	}
}
