package services

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// RateLimiter caps outbound texts per recipient
type RateLimiter interface {
	Allow(phoneNumber string) error
}

// TwilioSMSService implements SMSService using Twilio API
type TwilioSMSService struct {
	client      *twilio.RestClient
	fromNumber  string
	rateLimiter RateLimiter
}

// NewTwilioSMSService creates a new Twilio SMS service
func NewTwilioSMSService(accountSID, authToken, fromNumber string, rateLimiter RateLimiter) *TwilioSMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSService{
		client:      client,
		fromNumber:  fromNumber,
		rateLimiter: rateLimiter,
	}
}

// SendMessage sends an SMS message via Twilio
func (s *TwilioSMSService) SendMessage(phoneNumber, message string) error {
	normalizedNumber, err := normalizePhoneNumber(phoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number format: %w", err)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Allow(normalizedNumber); err != nil {
			logrus.Warnf("Twilio SMS: rate limited for %s", normalizedNumber)
			return fmt.Errorf("rate limit exceeded: %w", err)
		}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(normalizedNumber)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		logrus.Errorf("Twilio SMS: API error - %v", err)
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp.Sid != nil {
		logrus.Debugf("Twilio SMS: message sent (SID: %s)", *resp.Sid)
	}

	return nil
}

var (
	nonDigitRe = regexp.MustCompile(`[^\d+]`)
	usNumberRe = regexp.MustCompile(`^\d{10}$`)
	e164Re     = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
)

// normalizePhoneNumber ensures phone number is in E.164 format
func normalizePhoneNumber(phone string) (string, error) {
	cleaned := nonDigitRe.ReplaceAllString(phone, "")

	if len(cleaned) == 0 || cleaned[0] != '+' {
		// Assume US number if no country code
		if usNumberRe.MatchString(cleaned) {
			cleaned = "+1" + cleaned
		} else {
			return "", fmt.Errorf("invalid phone number format")
		}
	}

	if !e164Re.MatchString(cleaned) {
		return "", fmt.Errorf("invalid phone number format")
	}

	return cleaned, nil
}
