package reminder

import (
	"time"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

const DefaultCutoffHour = 18

// Tomorrow is the calendar day after now, in now's location.
func Tomorrow(now time.Time) string {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
}

// CollectDueReminders picks the confirmed appointments of tomorrow that
// have not been reminded yet. Before cutoffHour nothing is due: reminders
// go out in a single daily window.
func CollectDueReminders(now time.Time, appointments []models.Appointment, cutoffHour int) []models.Appointment {
	due := []models.Appointment{}
	if now.Hour() < cutoffHour {
		return due
	}

	tomorrow := Tomorrow(now)
	for _, ap := range appointments {
		if ap.Date != tomorrow || appointment.Status(ap.Status) != appointment.StatusConfirmed || ap.ReminderSent {
			continue
		}
		due = append(due, ap)
	}
	return due
}
