package reminder

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

// Details are the directory names resolved for one appointment.
type Details struct {
	ClientName   string
	BranchName   string
	BarberName   string
	ServiceNames []string
}

type Payload struct {
	AppointmentID uint     `json:"appointment_id"`
	ClientID      uint     `json:"client_id"`
	Date          string   `json:"date"`
	Time          string   `json:"time"`
	BranchName    string   `json:"branch_name"`
	BarberName    string   `json:"barber_name"`
	Services      []string `json:"services"`
	TotalPrice    float64  `json:"total_price"`
	Message       string   `json:"message"`
}

func BuildPayload(ap models.Appointment, d Details) Payload {
	services := append([]string(nil), d.ServiceNames...)

	var b strings.Builder
	if d.ClientName != "" {
		fmt.Fprintf(&b, "Olá %s! ", d.ClientName)
	} else {
		b.WriteString("Olá! ")
	}
	fmt.Fprintf(&b, "Lembrete: seu horário é amanhã, %s às %s", formatDate(ap.Date), ap.Time)
	if d.BarberName != "" {
		fmt.Fprintf(&b, ", com %s", d.BarberName)
	}
	if d.BranchName != "" {
		fmt.Fprintf(&b, " (%s)", d.BranchName)
	}
	b.WriteString(".")
	if len(services) > 0 {
		fmt.Fprintf(&b, " Serviços: %s.", strings.Join(services, ", "))
	}
	fmt.Fprintf(&b, " Total: R$ %s.", formatPrice(ap.TotalPrice))

	return Payload{
		AppointmentID: ap.ID,
		ClientID:      ap.ClientID,
		Date:          ap.Date,
		Time:          ap.Time,
		BranchName:    d.BranchName,
		BarberName:    d.BarberName,
		Services:      services,
		TotalPrice:    ap.TotalPrice,
		Message:       b.String(),
	}
}

// YYYY-MM-DD -> DD/MM/YYYY
func formatDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

func formatPrice(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}

// Notifier delivers a payload; transport is up to the implementation.
type Notifier interface {
	Send(ctx context.Context, channel, destination string, payload Payload) error
}

const (
	ChannelWhatsApp = "whatsapp"
	ChannelSMS      = "sms"
)

// ChannelFor picks WhatsApp for E.164 numbers and SMS otherwise.
func ChannelFor(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return ChannelWhatsApp
	}
	return ChannelSMS
}

type LogStore interface {
	CreateReminderLog(ctx context.Context, l *models.ReminderLog) error
}
