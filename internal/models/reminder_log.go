package models

import "time"

type ReminderLog struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index;not null" json:"appointment_id"`
	ClientID      uint `gorm:"index" json:"client_id"`

	Channel      string    `gorm:"size:20" json:"channel"` // whatsapp, sms, log
	Destination  string    `gorm:"size:40" json:"destination"`
	Message      string    `gorm:"type:text" json:"message"`
	Status       string    `gorm:"size:20" json:"status"` // sent, failed
	ErrorMessage string    `gorm:"type:text" json:"error_message"`
	SentAt       time.Time `json:"sent_at"`

	CreatedAt time.Time `json:"created_at"`
}
