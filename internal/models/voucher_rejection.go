package models

import "time"

// VoucherRejection is append-only: rows are inserted, never updated.
type VoucherRejection struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ClientID uint `gorm:"index;not null" json:"client_id"`

	AppointmentID uint      `gorm:"index" json:"appointment_id"`
	Date          time.Time `json:"date"`
	Reason        string    `gorm:"size:255" json:"reason"`
	VoucherNumber string    `gorm:"size:100" json:"voucher_number"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `gorm:"size:30" json:"payment_method"`
	VerifiedBy    uint      `json:"verified_by"`
	Fraudulent    bool      `json:"fraudulent"`

	CreatedAt time.Time `json:"created_at"`
}
