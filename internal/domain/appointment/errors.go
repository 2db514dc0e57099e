package appointment

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/httperr"
)

var (
	ErrNotFound  = httperr.ErrBusiness("appointment_not_found")
	ErrForbidden = httperr.ErrBusiness("forbidden")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every invalid field of a booking request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Err returns nil when nothing was collected, so callers can return it directly.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type InvalidTransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

type SlotCollisionError struct {
	BarberID uint
	Date     string
	Time     string
}

func (e *SlotCollisionError) Error() string {
	return fmt.Sprintf("barber %d already booked at %s %s", e.BarberID, e.Date, e.Time)
}

type BlacklistedClientError struct {
	ClientID uint
}

func (e *BlacklistedClientError) Error() string {
	return fmt.Sprintf("client %d is blacklisted for voucher payments", e.ClientID)
}

// IntegrityError reports stored data that contradicts the directory,
// e.g. an appointment whose barber no longer exists. Callers log it and stop.
type IntegrityError struct {
	Entity string
	ID     uint
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity error: %s %d: %s", e.Entity, e.ID, e.Reason)
}
