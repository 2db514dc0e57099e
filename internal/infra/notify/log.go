package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/reminder"
)

// LogNotifier only logs; used when Twilio is not configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("component", "notifier"))}
}

func (n *LogNotifier) Send(_ context.Context, channel, destination string, payload reminder.Payload) error {
	n.log.Info("reminder",
		zap.String("channel", channel),
		zap.String("to", destination),
		zap.Uint("appointment_id", payload.AppointmentID),
		zap.String("message", payload.Message),
	)
	return nil
}

var _ reminder.Notifier = (*LogNotifier)(nil)
