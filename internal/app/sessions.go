package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

const msgSessionNotFound = "onboarding session not found, please start again"

// Defaults for the in-memory session registry.
const (
	DefaultSessionTTL  = 2 * time.Hour
	DefaultMaxSessions = 10000
)

type entry struct {
	inFlight atomic.Bool
	mu       sync.Mutex
	session  domain.Session
}

// SessionController owns the onboarding sessions and serializes work on each
// one. A call that arrives while another is running on the same session is
// rejected with domain.ErrSessionBusy instead of queueing behind it.
type SessionController struct {
	onboarding *OnboardingService
	auth       *AuthBridge
	sessions   *expirable.LRU[string, *entry]
}

// NewSessionController creates a controller holding at most maxSessions
// sessions, each expiring ttl after its last update.
func NewSessionController(onboarding *OnboardingService, auth *AuthBridge, maxSessions int, ttl time.Duration) *SessionController {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionController{
		onboarding: onboarding,
		auth:       auth,
		sessions:   expirable.NewLRU[string, *entry](maxSessions, nil, ttl),
	}
}

// Start opens a new session on the first step.
func (c *SessionController) Start() domain.Session {
	e := &entry{session: domain.NewSession(generateID())}
	c.sessions.Add(e.session.ID, e)
	return e.session
}

// Snapshot returns a copy of the session.
func (c *SessionController) Snapshot(id string) (domain.Session, error) {
	e, ok := c.sessions.Get(id)
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session, nil
}

// Register creates an account and loads its identity into the session.
func (c *SessionController) Register(ctx context.Context, id string, form domain.Form) (domain.Session, domain.Effect, error) {
	return c.do(id, func(s *domain.Session) (domain.Effect, error) {
		identity, eff, err := c.auth.Register(ctx, form)
		if err != nil {
			return eff, err
		}
		s.ApplyIdentity(identity)
		return eff, nil
	})
}

// SignIn loads an existing account's identity into the session.
func (c *SessionController) SignIn(ctx context.Context, id string, form domain.Form) (domain.Session, domain.Effect, error) {
	return c.do(id, func(s *domain.Session) (domain.Effect, error) {
		identity, eff, err := c.auth.SignIn(ctx, form)
		if err != nil {
			return eff, err
		}
		s.ApplyIdentity(identity)
		return eff, nil
	})
}

// SubmitPersonal completes the personal step.
func (c *SessionController) SubmitPersonal(ctx context.Context, id string, form domain.Form) (domain.Session, domain.Effect, error) {
	return c.do(id, func(s *domain.Session) (domain.Effect, error) {
		return c.onboarding.SubmitPersonal(ctx, s, form)
	})
}

// SubmitBusiness completes the business step.
func (c *SessionController) SubmitBusiness(ctx context.Context, id string, form domain.Form) (domain.Session, domain.Effect, error) {
	return c.do(id, func(s *domain.Session) (domain.Effect, error) {
		return c.onboarding.SubmitBusiness(ctx, s, form)
	})
}

// SelectPlan records a plan without completing the plan step.
func (c *SessionController) SelectPlan(id, plan string) (domain.Session, error) {
	sess, _, err := c.do(id, func(s *domain.Session) (domain.Effect, error) {
		c.onboarding.SelectPlan(s, plan)
		return domain.Effect{}, nil
	})
	return sess, err
}

// SubmitPlan completes the plan step.
func (c *SessionController) SubmitPlan(ctx context.Context, id string) (domain.Session, domain.Effect, error) {
	return c.do(id, func(s *domain.Session) (domain.Effect, error) {
		return c.onboarding.SubmitPlan(ctx, s)
	})
}

// SubmitPayment completes the wizard.
func (c *SessionController) SubmitPayment(ctx context.Context, id string, form domain.Form) (domain.Session, domain.Effect, error) {
	return c.do(id, func(s *domain.Session) (domain.Effect, error) {
		return c.onboarding.SubmitPayment(ctx, s, form)
	})
}

// HasBoteco reports whether the user already owns a boteco.
func (c *SessionController) HasBoteco(ctx context.Context, userID string) (bool, error) {
	return c.onboarding.HasBoteco(ctx, userID)
}

// do runs fn on the session with the in-flight guard held and returns the
// resulting snapshot. Touching a session renews its expiry.
func (c *SessionController) do(id string, fn func(*domain.Session) (domain.Effect, error)) (domain.Session, domain.Effect, error) {
	e, ok := c.sessions.Get(id)
	if !ok {
		return domain.Session{}, domain.ShowError(msgSessionNotFound), domain.ErrSessionNotFound
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		return domain.Session{}, domain.ShowError(msgBusy), domain.ErrSessionBusy
	}
	defer e.inFlight.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()

	eff, err := fn(&e.session)
	c.sessions.Add(id, e)
	return e.session, eff, err
}
