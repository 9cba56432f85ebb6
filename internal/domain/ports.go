package domain

import "context"

// Gateway is the row-oriented data store contract. Insert and Upsert return
// the stored row and fail with a *DataAccessError when the backend call fails
// or reports no rows.
type Gateway interface {
	Insert(ctx context.Context, table Table, record Row) (Row, error)
	Upsert(ctx context.Context, table Table, record Row, conflictKey string) (Row, error)
	DeleteByID(ctx context.Context, table Table, id string) error
	Select(ctx context.Context, table Table, filters []Filter, limit int) ([]Row, error)
	Count(ctx context.Context, table Table, filters []Filter) (int, error)
}

// Provisioner sets up the schema of a newly created boteco. A single attempt
// is made; callers own any rollback.
type Provisioner interface {
	ProvisionSchema(ctx context.Context, botecoUsername string) error
}

// StepValidator checks whether an event is valid from the current step and
// returns the step it leads to.
type StepValidator interface {
	Apply(ctx context.Context, current Step, event Event) (Step, error)
}

// EventKind names an onboarding milestone published for asynchronous consumers.
type EventKind string

const (
	EventUserRegistered  EventKind = "user_registered"
	EventBotecoOnboarded EventKind = "boteco_onboarded"
)

// OnboardingEvent is a snapshot of a milestone, self-contained for consumers.
type OnboardingEvent struct {
	Kind           EventKind
	UserID         string
	Email          string
	BotecoID       string
	BotecoUsername string
	Plan           string
}

// EventPublisher defines the contract for emitting onboarding events.
type EventPublisher interface {
	Publish(ctx context.Context, event OnboardingEvent) error
}
