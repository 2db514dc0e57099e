package appointment

import (
	"sort"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

const DefaultSlotGranularity = 30

type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

type interval struct {
	start, end int
}

// GenerateSlots lists the bookable starts of a barber's day every
// granularityMin minutes. A slot spans durationMin minutes; starts whose
// span would pass closing time, or cross lunch, are left out. A slot is
// unavailable when its span overlaps a non-cancelled appointment of the
// same barber on the same date. Nil hours yield an empty result.
func GenerateSlots(
	date string,
	barberID uint,
	existing []models.Appointment,
	hours *OperatingHours,
	durationMin int,
	granularityMin int,
) []Slot {

	slots := []Slot{}
	if hours == nil {
		return slots
	}

	if granularityMin <= 0 {
		granularityMin = DefaultSlotGranularity
	}
	if durationMin <= 0 {
		durationMin = granularityMin
	}

	open, err := ParseHM(hours.Open)
	if err != nil {
		return slots
	}
	closing, err := ParseHM(hours.Close)
	if err != nil || closing <= open {
		return slots
	}

	var lunch *interval
	if hours.HasLunch() {
		ls, errS := ParseHM(hours.LunchStart)
		le, errE := ParseHM(hours.LunchEnd)
		if errS == nil && errE == nil && ls < le {
			lunch = &interval{start: ls, end: le}
		}
	}

	busy := occupied(date, barberID, existing)

	for start := open; start+durationMin <= closing; start += granularityMin {
		end := start + durationMin

		// almoço
		if lunch != nil && start < lunch.end && end > lunch.start {
			continue
		}

		slots = append(slots, Slot{
			Start:     FormatHM(start),
			End:       FormatHM(end),
			Available: !overlapsAny(busy, start, end),
		})
	}

	return slots
}

// FindSlot returns the slot starting at hm.
func FindSlot(slots []Slot, hm string) (Slot, bool) {
	for _, s := range slots {
		if s.Start == hm {
			return s, true
		}
	}
	return Slot{}, false
}

func occupied(date string, barberID uint, existing []models.Appointment) []interval {
	busy := make([]interval, 0, len(existing))
	for _, ap := range existing {
		if ap.BarberID != barberID || ap.Date != date || !Status(ap.Status).Occupies() {
			continue
		}
		start, err := ParseHM(ap.Time)
		if err != nil {
			continue
		}
		dur := ap.DurationMin
		if dur <= 0 {
			dur = DefaultSlotGranularity
		}
		busy = append(busy, interval{start: start, end: start + dur})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].start < busy[j].start })
	return busy
}

func overlapsAny(busy []interval, start, end int) bool {
	for _, b := range busy {
		if b.start >= end {
			break
		}
		if start < b.end && b.start < end {
			return true
		}
	}
	return false
}
