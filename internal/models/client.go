package models

import "time"

// Client carries the risk columns updated by voucher rejections.
// FalseVouchersCount, IsFlagged and Blacklisted never go back down.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	FalseVouchersCount int  `gorm:"not null;default:0" json:"false_vouchers_count"`
	IsFlagged          bool `gorm:"not null;default:false" json:"is_flagged"`
	Blacklisted        bool `gorm:"not null;default:false" json:"blacklisted"`

	Rejections []VoucherRejection `gorm:"foreignKey:ClientID" json:"rejection_history,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
