package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a ledger entry. AppointmentID is unique so attendance can
// only ever produce one income row per appointment.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"reference"`

	Type   TransactionType `gorm:"size:20;not null" json:"type"`
	Amount float64         `json:"amount"`

	BranchID      uint   `gorm:"index" json:"branch_id"`
	BarberID      uint   `json:"barber_id"`
	ClientID      uint   `json:"client_id"`
	AppointmentID uint   `gorm:"uniqueIndex" json:"appointment_id"`
	Date          string `gorm:"size:10" json:"date"`

	CreatedAt time.Time `json:"created_at"`
}
