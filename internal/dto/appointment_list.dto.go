package dto

import "github.com/BruksfildServices01/barber-chain-scheduler/internal/models"

type AppointmentListDTO struct {
	ID           uint    `json:"id"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Duration     int     `json:"duration"`
	Status       string  `json:"status"`
	ClientID     uint    `json:"client_id"`
	BarberID     uint    `json:"barber_id"`
	Services     []uint  `json:"services"`
	TotalPrice   float64 `json:"total_price"`
	ReminderSent bool    `json:"reminder_sent"`
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, AppointmentListDTO{
			ID:           ap.ID,
			Date:         ap.Date,
			Time:         ap.Time,
			Duration:     ap.DurationMin,
			Status:       ap.Status,
			ClientID:     ap.ClientID,
			BarberID:     ap.BarberID,
			Services:     ap.ServiceIDs,
			TotalPrice:   ap.TotalPrice,
			ReminderSent: ap.ReminderSent,
		})
	}
	return out
}
