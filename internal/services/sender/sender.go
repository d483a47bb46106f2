// Package services contains the notification sender: it turns queued
// receipts and message relays into plain-text emails.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Danielsio/SIONYX-sub000/internal/lib/sl"
	"github.com/Danielsio/SIONYX-sub000/internal/lib/smtp"
	"github.com/Danielsio/SIONYX-sub000/internal/models"
)

// SenderService delivers queued notifications over SMTP.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService creates a new SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendPurchaseReceipt emails the receipt for a completed purchase.
func (s *SenderService) SendPurchaseReceipt(body []byte) error {
	var receipt models.PurchaseReceipt
	if err := json.Unmarshal(body, &receipt); err != nil {
		s.log.Error("failed to unmarshal receipt", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{receipt.Email}
	subject := "Your Sionyx purchase receipt"
	bodyText := fmt.Sprintf("Hello, %s!\n\nYour purchase of %q was completed.\n\nCharged: %d.%02d\nComputer time added: %d minutes\nPrint credits added: %d\n\nThank you for using Sionyx.",
		receipt.FullName, receipt.PackageName, receipt.Amount/100, receipt.Amount%100,
		receipt.Minutes, receipt.Prints)

	return s.sendEmail(to, subject, bodyText)
}

// SendMessageRelay emails a chat message to a user who was offline when it
// arrived.
func (s *SenderService) SendMessageRelay(body []byte) error {
	var relay models.MessageRelay
	if err := json.Unmarshal(body, &relay); err != nil {
		s.log.Error("failed to unmarshal message relay", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{relay.Email}
	subject := fmt.Sprintf("New message from %s", relay.OrgName)
	bodyText := fmt.Sprintf("Hello, %s!\n\nYou have a new message from %s:\n\n%s\n\nLog in at a kiosk to reply.",
		relay.FullName, relay.OrgName, relay.Body)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent", slog.Any("to", to))
	return nil
}
