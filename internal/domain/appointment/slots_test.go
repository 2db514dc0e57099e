package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/models"
)

func fullDay() *OperatingHours {
	return &OperatingHours{Open: "09:00", Close: "18:00"}
}

func TestGenerateSlots_OneBookingBlocksOneSlot(t *testing.T) {
	existing := []models.Appointment{
		{BarberID: 7, Date: "2024-06-10", Time: "10:00", DurationMin: 30, Status: string(StatusConfirmed)},
	}

	slots := GenerateSlots("2024-06-10", 7, existing, fullDay(), 0, 30)
	require.Len(t, slots, 18)

	unavailable := 0
	for _, s := range slots {
		if !s.Available {
			unavailable++
			assert.Equal(t, "10:00", s.Start)
			assert.Equal(t, "10:30", s.End)
		}
	}
	assert.Equal(t, 1, unavailable)
	assert.Equal(t, "09:00", slots[0].Start)
	assert.Equal(t, "17:30", slots[len(slots)-1].Start)
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	existing := []models.Appointment{
		{BarberID: 1, Date: "2024-06-10", Time: "11:00", DurationMin: 45, Status: string(StatusPending)},
		{BarberID: 1, Date: "2024-06-10", Time: "09:30", DurationMin: 30, Status: string(StatusPendingPayment)},
	}

	a := GenerateSlots("2024-06-10", 1, existing, fullDay(), 30, 30)
	b := GenerateSlots("2024-06-10", 1, existing, fullDay(), 30, 30)
	assert.Equal(t, a, b)
}

func TestGenerateSlots_IgnoresOtherBarbersDatesAndCancelled(t *testing.T) {
	existing := []models.Appointment{
		{BarberID: 2, Date: "2024-06-10", Time: "10:00", DurationMin: 30, Status: string(StatusConfirmed)},
		{BarberID: 1, Date: "2024-06-11", Time: "10:00", DurationMin: 30, Status: string(StatusConfirmed)},
		{BarberID: 1, Date: "2024-06-10", Time: "10:00", DurationMin: 30, Status: string(StatusCancelled)},
	}

	for _, s := range GenerateSlots("2024-06-10", 1, existing, fullDay(), 30, 30) {
		assert.True(t, s.Available, s.Start)
	}
}

func TestGenerateSlots_ClosedDay(t *testing.T) {
	slots := GenerateSlots("2024-06-09", 1, nil, nil, 30, 30)
	require.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerateSlots_DurationPastClosingExcluded(t *testing.T) {
	slots := GenerateSlots("2024-06-10", 1, nil, fullDay(), 60, 30)

	last := slots[len(slots)-1]
	assert.Equal(t, "17:00", last.Start)
	assert.Equal(t, "18:00", last.End)

	_, ok := FindSlot(slots, "17:30")
	assert.False(t, ok)
}

func TestGenerateSlots_LongServiceOverlapsLaterBooking(t *testing.T) {
	existing := []models.Appointment{
		{BarberID: 1, Date: "2024-06-10", Time: "10:30", DurationMin: 30, Status: string(StatusConfirmed)},
	}

	slots := GenerateSlots("2024-06-10", 1, existing, fullDay(), 60, 30)

	s, ok := FindSlot(slots, "10:00")
	require.True(t, ok)
	assert.False(t, s.Available)

	// meia-aberta: termina 10:30, não colide
	s, ok = FindSlot(slots, "09:30")
	require.True(t, ok)
	assert.True(t, s.Available)

	s, ok = FindSlot(slots, "11:00")
	require.True(t, ok)
	assert.True(t, s.Available)
}

func TestGenerateSlots_LunchExcluded(t *testing.T) {
	hours := &OperatingHours{Open: "09:00", Close: "18:00", LunchStart: "12:00", LunchEnd: "13:00"}

	slots := GenerateSlots("2024-06-10", 1, nil, hours, 30, 30)
	assert.Len(t, slots, 16)

	for _, hm := range []string{"12:00", "12:30"} {
		_, ok := FindSlot(slots, hm)
		assert.False(t, ok, hm)
	}
	_, ok := FindSlot(slots, "11:30")
	assert.True(t, ok)
	_, ok = FindSlot(slots, "13:00")
	assert.True(t, ok)
}

func TestGenerateSlots_Granularity(t *testing.T) {
	slots := GenerateSlots("2024-06-10", 1, nil, &OperatingHours{Open: "09:00", Close: "10:00"}, 15, 15)
	starts := make([]string, 0, len(slots))
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	assert.Equal(t, []string{"09:00", "09:15", "09:30", "09:45"}, starts)
}
