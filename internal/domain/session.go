package domain

import "strconv"

// Step is the position of a visitor in the onboarding wizard.
type Step int

const (
	StepPersonal Step = iota + 1
	StepBusiness
	StepPlan
	StepPayment
	StepSuccess
)

// Steps lists every wizard step in order.
var Steps = []Step{StepPersonal, StepBusiness, StepPlan, StepPayment, StepSuccess}

func (s Step) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepBusiness:
		return "business"
	case StepPlan:
		return "plan"
	case StepPayment:
		return "payment"
	case StepSuccess:
		return "success"
	}
	return "step(" + strconv.Itoa(int(s)) + ")"
}

// Route returns the presentation-layer route that renders the step.
func (s Step) Route() string {
	switch s {
	case StepPersonal:
		return "/onboarding/step-1-personal"
	case StepBusiness:
		return "/onboarding/step-2-business"
	case StepPlan:
		return "/onboarding/step-3-plan"
	case StepPayment:
		return "/onboarding/step-4-payment"
	case StepSuccess:
		return "/onboarding/success"
	}
	return ""
}

// Event represents a step completion that moves the wizard forward.
type Event string

const (
	EventPersonalCompleted Event = "personal_completed"
	EventBusinessCompleted Event = "business_completed"
	EventPlanSelected      Event = "plan_selected"
	EventPaymentCompleted  Event = "payment_completed"
	EventRestart           Event = "restart"
)

// Transition defines a valid state change: an event moves a session from Src to Dst.
type Transition struct {
	Event Event
	Src   Step
	Dst   Step
}

// Transitions defines every valid move through the wizard.
// A step may be submitted again while the session sits on the step right
// after it; that keeps the session where it is. Nothing moves backwards
// and nothing skips a step.
var Transitions = []Transition{
	{Event: EventPersonalCompleted, Src: StepPersonal, Dst: StepBusiness},
	{Event: EventPersonalCompleted, Src: StepBusiness, Dst: StepBusiness},
	{Event: EventBusinessCompleted, Src: StepBusiness, Dst: StepPlan},
	{Event: EventBusinessCompleted, Src: StepPlan, Dst: StepPlan},
	{Event: EventPlanSelected, Src: StepPlan, Dst: StepPayment},
	{Event: EventPlanSelected, Src: StepPayment, Dst: StepPayment},
	{Event: EventPaymentCompleted, Src: StepPayment, Dst: StepSuccess},
	{Event: EventRestart, Src: StepSuccess, Dst: StepPersonal},
}

// DefaultCountry is used when a form omits the country field.
const DefaultCountry = "Brasil"

// PersonalInfo holds the fields collected by the personal step.
type PersonalInfo struct {
	FirstName   string `validate:"required"`
	LastName    string `validate:"required"`
	Email       string `validate:"required"`
	TaxNumber   string `validate:"required,taxnumber"`
	BirthDate   string `validate:"required"`
	Country     string `validate:"required"`
	PostalCode  string `validate:"required,postalcode"`
	HouseNumber string `validate:"required"`
}

// BusinessInfo holds the fields collected by the business step.
// Field order matters: format checks are reported in declaration order.
type BusinessInfo struct {
	PublicName      string `validate:"required"`
	Username        string `validate:"required,username"`
	TaxNumber       string `validate:"required,taxnumber"`
	ServiceCategory string `validate:"required"`
	Country         string `validate:"required"`
	PostalCode      string `validate:"required,postalcode"`
	VibeTags        string
}

// Session is the in-memory state of one visitor's onboarding flow.
// A session has a single writer; copies are safe to hand out as snapshots.
type Session struct {
	ID           string
	CurrentStep  Step
	IsLoading    bool
	Personal     PersonalInfo
	UserID       string
	Business     BusinessInfo
	SelectedPlan string
}

// NewSession returns a session positioned on the first step.
func NewSession(id string) Session {
	return Session{
		ID:          id,
		CurrentStep: StepPersonal,
		Personal:    PersonalInfo{Country: DefaultCountry},
		Business:    BusinessInfo{Country: DefaultCountry},
	}
}

// Identity is the payload the auth bridge hands back to the session owner.
// When Complete is false only the user id, names and email are carried.
type Identity struct {
	UserID   string
	Personal PersonalInfo
	Complete bool
}

// ApplyIdentity copies an identity into the session.
func (s *Session) ApplyIdentity(id Identity) {
	s.UserID = id.UserID
	if id.Complete {
		s.Personal = id.Personal
		if s.Personal.Country == "" {
			s.Personal.Country = DefaultCountry
		}
		return
	}
	s.Personal.FirstName = id.Personal.FirstName
	s.Personal.LastName = id.Personal.LastName
	s.Personal.Email = id.Personal.Email
}
