package otp

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrSMSNotConfigured = errors.New("sms delivery not configured")

// TwilioSender delivers codes as SMS through the Twilio messages API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (s *TwilioSender) Send(_ context.Context, phone, code string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(MessageBody(code))

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	return nil
}

func MessageBody(code string) string {
	return "Your ArtConnect Login Code is: " + code
}

// UnconfiguredSender fails every delivery; codes remain available in logs.
type UnconfiguredSender struct{}

func (UnconfiguredSender) Send(context.Context, string, string) error {
	return ErrSMSNotConfigured
}
