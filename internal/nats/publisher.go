package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event subjects published to the DIRECTORY_EVENTS stream
const (
	SubjectBusinessCreated       = "directory.business.created"
	SubjectBusinessStatusChanged = "directory.business.status_changed"
	SubjectReviewModerated       = "directory.review.moderated"
	SubjectLeadCreated           = "directory.lead.created"
	SubjectReportCreated         = "directory.report.created"
)

// Event is the envelope published for every directory domain event
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Subject   string          `json:"subject"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Publisher publishes directory domain events to JetStream
type Publisher struct {
	client *Client
	logger *logrus.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(client *Client, logger *logrus.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// Publish publishes a domain event. Payload is marshaled to JSON.
func (p *Publisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	if p == nil || p.client == nil || !p.client.IsConnected() {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	event := Event{
		ID:        uuid.New(),
		Subject:   subject,
		Timestamp: time.Now(),
		Data:      data,
	}

	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.client.JetStream().Publish(subject, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"subject":  subject,
		"event_id": event.ID,
	}).Debug("Published directory event")

	return nil
}
