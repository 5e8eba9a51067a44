// Package events consumes identity-creation events from the auth platform.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	identitymodels "staticshop-backend/internal/features/identity/models"
	"staticshop-backend/internal/features/profile/service"
)

const provisionTimeout = 15 * time.Second

// Subscriber provisions a default profile for every identity.created
// event. Fire-and-forget: failures are logged and the message is dropped,
// matching the platform's at-most-once delivery of these events.
type Subscriber struct {
	conn        *nats.Conn
	provisioner *service.Provisioner
	subject     string
	queue       string
	logger      zerolog.Logger
}

func NewSubscriber(conn *nats.Conn, provisioner *service.Provisioner, subject, queue string, logger zerolog.Logger) *Subscriber {
	return &Subscriber{
		conn:        conn,
		provisioner: provisioner,
		subject:     subject,
		queue:       queue,
		logger:      logger.With().Str("module", "identity_events").Logger(),
	}
}

// Start registers the queue subscription and returns it for teardown.
func (s *Subscriber) Start() (*nats.Subscription, error) {
	sub, err := s.conn.QueueSubscribe(s.subject, s.queue, s.handle)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("subject", s.subject).Str("queue", s.queue).Msg("listening for identity events")
	return sub, nil
}

func (s *Subscriber) handle(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), provisionTimeout)
	defer cancel()

	var rec identitymodels.IdentityRecord
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &rec); err != nil {
			s.logger.Error().Err(err).Msg("malformed identity event")
			return
		}
	}

	record := &rec
	if rec.ID == "" {
		record = nil
	}

	if _, err := s.provisioner.Provision(ctx, record); err != nil {
		// No retry and no dead-letter: the source fires this event once.
		s.logger.Error().Err(err).Str("user_id", rec.ID).Msg("provisioning failed")
	}
}
