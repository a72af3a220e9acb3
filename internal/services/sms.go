package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// SMSService sends text notifications to team managers
type SMSService interface {
	SendMessage(phoneNumber, message string) error
}

// MockSMSService for development - logs to console instead of sending real SMS
type MockSMSService struct{}

func NewMockSMSService() *MockSMSService {
	return &MockSMSService{}
}

func (s *MockSMSService) SendMessage(phoneNumber, message string) error {
	logrus.Infof("MOCK SMS to %s: %s", phoneNumber, message)
	return nil
}

// Notifier formats league events into manager-facing texts.
type Notifier struct {
	sms SMSService
}

func NewNotifier(sms SMSService) *Notifier {
	return &Notifier{sms: sms}
}

// WaiverWon tells a manager their claim landed.
func (n *Notifier) WaiverWon(phone, playerName string, bid int) error {
	if phone == "" {
		return nil
	}
	msg := fmt.Sprintf("Waiver claim successful: %s is now on your roster.", playerName)
	if bid > 0 {
		msg = fmt.Sprintf("Waiver claim successful: %s is now on your roster ($%d FAAB).", playerName, bid)
	}
	return n.sms.SendMessage(phone, msg)
}

// WaiverLost tells a manager their claim missed and why.
func (n *Notifier) WaiverLost(phone, playerName, reason string) error {
	if phone == "" {
		return nil
	}
	return n.sms.SendMessage(phone, fmt.Sprintf("Waiver claim on %s was unsuccessful (%s).", playerName, reason))
}

// TradeDecided tells both managers the result of a proposed trade.
func (n *Notifier) TradeDecided(phone, counterparty, status string) error {
	if phone == "" {
		return nil
	}
	return n.sms.SendMessage(phone, fmt.Sprintf("Your trade with %s is %s.", counterparty, status))
}
