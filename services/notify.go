package services

import (
	"context"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier pushes a short alert to the site owner
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NopNotifier is used when SMS alerts are not configured
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, message string) error { return nil }

// MessageCreator is the part of the Twilio REST client used to send SMS
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioNotifier texts the admin phone number
type TwilioNotifier struct {
	api  MessageCreator
	from string
	to   string
}

func NewTwilioNotifier(accountSID, authToken, from, to string) (*TwilioNotifier, error) {
	if accountSID == "" || authToken == "" {
		return nil, errs.NewConfigMissingError("TWILIO_ACCOUNT_SID/TWILIO_AUTH_TOKEN")
	}
	if from == "" || to == "" {
		return nil, errs.NewConfigMissingError("TWILIO_FROM_NUMBER/ADMIN_PHONE")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewTwilioNotifierWithAPI(client.Api, from, to), nil
}

func NewTwilioNotifierWithAPI(api MessageCreator, from, to string) *TwilioNotifier {
	return &TwilioNotifier{api: api, from: from, to: to}
}

// SMS bodies are cut to keep a single alert within a few segments
const maxSMSLength = 320

func (n *TwilioNotifier) Notify(ctx context.Context, message string) error {
	if len(message) > maxSMSLength {
		message = message[:maxSMSLength-3] + "..."
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(message)

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		return errs.NewNotificationError("sms", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Debug().Str("sid", *resp.Sid).Msg("Sent SMS alert")
	}
	return nil
}
