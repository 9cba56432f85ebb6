package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

// Compile-time check: Validator implements domain.StepValidator.
var _ domain.StepValidator = (*Validator)(nil)

// events converts domain.Transitions into looplab/fsm EventDesc format.
// Transitions sharing an event and destination collapse into one EventDesc
// with several sources (personal_completed from "personal" and "business"
// both land on "business").
var events = buildEvents()

// steps maps FSM state names back to domain steps.
var steps = buildSteps()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range domain.Transitions {
		k := key{event: string(t.Event), dst: t.Dst.String()}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], t.Src.String())
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

func buildSteps() map[string]domain.Step {
	out := make(map[string]domain.Step, len(domain.Steps))
	for _, s := range domain.Steps {
		out[s.String()] = s
	}
	return out
}

// Validator implements domain.StepValidator using looplab/fsm.
// It creates a short-lived FSM instance per Apply call, initialized with
// the session's current step, since looplab/fsm tracks its own state.
type Validator struct{}

// New creates a new FSM-backed step validator.
func New() *Validator {
	return &Validator{}
}

// Apply checks if the given event is valid from the current step and
// returns the destination step. A self-transition (re-submitting the step
// just completed) returns the current step. Returns a domain.TransitionError
// if the event is not allowed.
func (v *Validator) Apply(ctx context.Context, current domain.Step, event domain.Event) (domain.Step, error) {
	machine := loopfsm.NewFSM(current.String(), events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return current, nil
		}

		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) {
			return 0, &domain.TransitionError{
				Event:   event,
				Current: current,
			}
		}
		return 0, err
	}

	next, ok := steps[machine.Current()]
	if !ok {
		return 0, &domain.TransitionError{Event: event, Current: current}
	}
	return next, nil
}
