package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-chain-scheduler/internal/domain/reminder"
)

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

// messageAPI is the slice of the Twilio client we call.
type messageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioNotifier struct {
	api messageAPI
	cfg TwilioConfig
	log *zap.Logger
}

func NewTwilioNotifier(cfg TwilioConfig, log *zap.Logger) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioNotifier{
		api: client.Api,
		cfg: cfg,
		log: log.With(zap.String("component", "twilio")),
	}
}

func (n *TwilioNotifier) Send(ctx context.Context, channel, destination string, payload reminder.Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(payload.Message)

	switch channel {
	case reminder.ChannelWhatsApp:
		params.SetTo("whatsapp:" + destination)
		params.SetFrom("whatsapp:" + n.cfg.WhatsAppNumber)
	default:
		params.SetTo(destination)
		params.SetFrom(n.cfg.PhoneNumber)
	}

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio %s: %w", channel, err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	n.log.Info("reminder delivered",
		zap.Uint("appointment_id", payload.AppointmentID),
		zap.String("channel", channel),
		zap.String("sid", sid),
	)
	return nil
}

var _ reminder.Notifier = (*TwilioNotifier)(nil)
