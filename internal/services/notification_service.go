package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// EmailSender sends a single email. Satisfied by the sendgrid client;
// tests substitute a recorder.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}

// NotificationService sends owner-facing emails. Delivery goes through a
// circuit breaker so a failing email provider cannot stall moderation.
type NotificationService struct {
	sender  EmailSender
	breaker *gobreaker.CircuitBreaker
	baseURL string
	logger  *logrus.Logger
}

// NewNotificationService creates a new notification service. The sender
// may be nil, in which case notifications are logged and dropped.
func NewNotificationService(sender EmailSender, baseURL string, logger *logrus.Logger) *NotificationService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "email",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Email circuit breaker state changed")
		},
	})

	return &NotificationService{
		sender:  sender,
		breaker: breaker,
		baseURL: baseURL,
		logger:  logger,
	}
}

// NotifyStatusChange emails a business owner that their listing left the
// active state (suspension, rejection, deactivation).
func (s *NotificationService) NotifyStatusChange(ctx context.Context, ownerEmail, ownerName, businessName, newStatus string) error {
	if s.sender == nil {
		s.logger.WithFields(logrus.Fields{
			"owner_email": ownerEmail,
			"business":    businessName,
			"status":      newStatus,
		}).Info("Email sender not configured, skipping status notification")
		return nil
	}

	subject := fmt.Sprintf("Your listing %q is now %s", businessName, newStatus)
	body := fmt.Sprintf(
		"Hello %s,\n\nThe status of your business listing %q has changed to %s.\n\nYou can review your listing at %s/dashboard.\n",
		ownerName, businessName, newStatus, s.baseURL,
	)

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.sender.Send(ctx, ownerEmail, ownerName, subject, body)
	})
	if err != nil {
		s.logger.WithError(err).WithField("owner_email", ownerEmail).Error("Failed to send status notification")
		return fmt.Errorf("failed to send status notification: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"owner_email": ownerEmail,
		"business":    businessName,
		"status":      newStatus,
	}).Info("Sent status notification")
	return nil
}

// SendGridSender sends email through the SendGrid API
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewSendGridSender creates a SendGrid-backed email sender
func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send sends a single plain-text email
func (s *SendGridSender) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
