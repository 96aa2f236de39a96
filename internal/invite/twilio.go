// Package invite sends interview invitation links to candidates over SMS.
package invite

import (
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers an interview link to a candidate phone number.
type Sender interface {
	SendInvite(phone, candidateName, roleTitle, link string) error
}

// Config holds the Twilio credentials and the public base URL interview
// links are built from.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
}

func (c Config) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}

// InterviewLink builds the candidate-facing URL for a session token.
func (c Config) InterviewLink(token string) string {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = "http://localhost:8080"
	}
	return base + "/interview/" + token
}

// TwilioSender sends invites through the Twilio messaging API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg Config) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{client: client, from: cfg.FromNumber}
}

func (s *TwilioSender) SendInvite(phone, candidateName, roleTitle, link string) error {
	body := fmt.Sprintf("Hi %s, you are invited to a voice interview for the %s role. Join here: %s",
		candidateName, roleTitle, link)

	params := &api.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("send invite sms: %w", err)
	}
	if resp.Sid != nil {
		log.Printf("[invite] sms sent sid=%s to=%s", *resp.Sid, phone)
	}
	return nil
}

// NopSender is used when Twilio credentials are absent; invites are logged
// so the link is still reachable during local runs.
type NopSender struct{}

func (NopSender) SendInvite(phone, candidateName, roleTitle, link string) error {
	log.Printf("[invite] sms disabled, link for %s (%s): %s", candidateName, phone, link)
	return nil
}
