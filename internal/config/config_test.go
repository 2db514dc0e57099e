package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/appointment"
)

func TestLoad_RequiresRejectionPolicy(t *testing.T) {
	t.Setenv("VOUCHER_REJECTION_POLICY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "VOUCHER_REJECTION_POLICY")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VOUCHER_REJECTION_POLICY", "cancel")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SLOT_GRANULARITY_MINUTES", "")
	t.Setenv("REMINDER_CUTOFF_HOUR", "")
	t.Setenv("FRAUD_KEYWORDS", "falso, fake ,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, appointment.RejectionCancel, cfg.Booking.RejectionPolicy)
	assert.Equal(t, []string{"falso", "fake"}, cfg.Booking.FraudKeywords)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.UseMemoryStore())
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Booking:  BookingConfig{SlotGranularityMin: 30},
		Reminder: ReminderConfig{CutoffHour: 18},
	}
	require.NoError(t, cfg.Validate())

	cfg.Booking.SlotGranularityMin = 0
	assert.Error(t, cfg.Validate())

	cfg.Booking.SlotGranularityMin = 15
	cfg.Reminder.CutoffHour = 24
	assert.Error(t, cfg.Validate())
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":9090", (&Config{ServerPort: "9090"}).Addr())
}
