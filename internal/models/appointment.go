package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"index" json:"client_id"`
	BarberID uint `gorm:"index:idx_barber_date" json:"barber_id"`
	BranchID uint `gorm:"index" json:"branch_id"`

	Date        string `gorm:"size:10;index:idx_barber_date" json:"date"`
	Time        string `gorm:"size:5" json:"time"`
	DurationMin int    `json:"duration"`

	ServiceIDs []uint  `gorm:"serializer:json" json:"services"`
	TotalPrice float64 `json:"total_price"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	PaymentMethod string  `gorm:"size:30" json:"payment_method"`
	VoucherURL    *string `gorm:"size:512" json:"voucher_url"`
	VoucherNumber *string `gorm:"size:100" json:"voucher_number"`

	ReminderSent   bool       `gorm:"not null;default:false" json:"reminder_sent"`
	ReminderSentAt *time.Time `json:"reminder_sent_at"`

	AttendanceMarked   bool       `gorm:"not null;default:false" json:"attendance_marked"`
	AttendanceMarkedAt *time.Time `json:"attendance_marked_at"`

	Notes string `gorm:"size:255" json:"notes"`

	ConfirmedAt       *time.Time `json:"confirmed_at"`
	PaymentVerifiedAt *time.Time `json:"payment_verified_at"`
	StartedAt         *time.Time `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
	CancelledAt       *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
