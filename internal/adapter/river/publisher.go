package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// OnboardingEventArgs carries an onboarding milestone for asynchronous processing.
// River serializes this as JSON into its job queue table. It is a snapshot
// taken when the event was published, so the worker never reads the
// onboarding tables.
type OnboardingEventArgs struct {
	Event          string `json:"event"`
	UserID         string `json:"user_id"`
	Email          string `json:"email,omitempty"`
	BotecoID       string `json:"boteco_id,omitempty"`
	BotecoUsername string `json:"boteco_username,omitempty"`
	Plan           string `json:"plan,omitempty"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (OnboardingEventArgs) Kind() string { return "onboarding.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues an onboarding event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.OnboardingEvent) error {
	_, err := p.client.Insert(ctx, OnboardingEventArgs{
		Event:          string(event.Kind),
		UserID:         event.UserID,
		Email:          event.Email,
		BotecoID:       event.BotecoID,
		BotecoUsername: event.BotecoUsername,
		Plan:           event.Plan,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing %s job: %w", event.Kind, err)
	}
	return nil
}
