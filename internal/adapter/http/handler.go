package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/botecoflow/internal/app"
	"github.com/neomorfeo/botecoflow/internal/domain"
)

// PersonalResponse is the API representation of the personal step fields.
type PersonalResponse struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	TaxNumber   string `json:"tax_number"`
	BirthDate   string `json:"birth_date"`
	Country     string `json:"country"`
	PostalCode  string `json:"postal_code"`
	HouseNumber string `json:"house_number"`
}

// BusinessResponse is the API representation of the business step fields.
type BusinessResponse struct {
	PublicName      string `json:"public_name"`
	Username        string `json:"username"`
	TaxNumber       string `json:"tax_number"`
	ServiceCategory string `json:"service_category"`
	Country         string `json:"country"`
	PostalCode      string `json:"postal_code"`
	VibeTags        string `json:"vibe_tags"`
}

// SessionResponse is the API representation of an onboarding session.
type SessionResponse struct {
	ID           string           `json:"id" doc:"Session identifier"`
	CurrentStep  int              `json:"current_step" doc:"Wizard step, 1 to 4"`
	Step         string           `json:"step" doc:"Step name"`
	Route        string           `json:"route" doc:"Route of the current step"`
	IsLoading    bool             `json:"is_loading"`
	UserID       string           `json:"user_id,omitempty"`
	SelectedPlan string           `json:"selected_plan,omitempty"`
	Personal     PersonalResponse `json:"personal"`
	Business     BusinessResponse `json:"business"`
}

// EffectResponse is an instruction for the presentation layer.
type EffectResponse struct {
	Kind  string `json:"kind" enum:"navigate,show_error"`
	Route string `json:"route,omitempty"`
}

// StepResponse is returned by every operation that acts on a session.
type StepResponse struct {
	Session SessionResponse  `json:"session"`
	Effects []EffectResponse `json:"effects"`
}

func toSessionResponse(s domain.Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID,
		CurrentStep:  int(s.CurrentStep),
		Step:         s.CurrentStep.String(),
		Route:        s.CurrentStep.Route(),
		IsLoading:    s.IsLoading,
		UserID:       s.UserID,
		SelectedPlan: s.SelectedPlan,
		Personal: PersonalResponse{
			FirstName:   s.Personal.FirstName,
			LastName:    s.Personal.LastName,
			Email:       s.Personal.Email,
			TaxNumber:   s.Personal.TaxNumber,
			BirthDate:   s.Personal.BirthDate,
			Country:     s.Personal.Country,
			PostalCode:  s.Personal.PostalCode,
			HouseNumber: s.Personal.HouseNumber,
		},
		Business: BusinessResponse{
			PublicName:      s.Business.PublicName,
			Username:        s.Business.Username,
			TaxNumber:       s.Business.TaxNumber,
			ServiceCategory: s.Business.ServiceCategory,
			Country:         s.Business.Country,
			PostalCode:      s.Business.PostalCode,
			VibeTags:        s.Business.VibeTags,
		},
	}
}

func toStepResponse(s domain.Session, effects ...domain.Effect) StepResponse {
	out := StepResponse{Session: toSessionResponse(s), Effects: make([]EffectResponse, 0, len(effects))}
	for _, e := range effects {
		if e.Kind == "" {
			continue
		}
		out.Effects = append(out.Effects, EffectResponse{Kind: string(e.Kind), Route: e.Route})
	}
	return out
}

// --- Sessions ---

type SessionPathInput struct {
	ID string `path:"id" doc:"Session ID"`
}

type SessionOutput struct {
	Body SessionResponse
}

// --- Form steps ---

type FormInput struct {
	ID   string            `path:"id" doc:"Session ID"`
	Body map[string]string `doc:"Form fields keyed by field name"`
}

// OptionalFormInput accepts a missing body. Huma only treats pointer
// bodies as optional.
type OptionalFormInput struct {
	ID   string             `path:"id" doc:"Session ID"`
	Body *map[string]string `required:"false" doc:"Form fields keyed by field name"`
}

// Form returns the submitted fields, or nil when no body was sent.
func (in *OptionalFormInput) Form() domain.Form {
	if in.Body == nil {
		return nil
	}
	return *in.Body
}

type PlanBody struct {
	Plan string `json:"plan,omitempty" required:"false" doc:"Plan to select before completing the step"`
}

type PlanInput struct {
	ID   string    `path:"id" doc:"Session ID"`
	Body *PlanBody `required:"false"`
}

type StepOutput struct {
	Body StepResponse
}

// --- Users ---

type UserPathInput struct {
	ID string `path:"id" doc:"User ID"`
}

type HasBotecoOutput struct {
	Body struct {
		HasBoteco bool `json:"has_boteco"`
	}
}

// formStep is a session operation driven by a submitted form.
type formStep func(ctx context.Context, id string, form domain.Form) (domain.Session, domain.Effect, error)

// Register adds all onboarding API routes to the Huma API.
func Register(api huma.API, sessions *app.SessionController) {
	huma.Register(api, huma.Operation{
		OperationID: "start-session",
		Method:      http.MethodPost,
		Path:        "/api/v1/onboarding/sessions",
		Summary:     "Start an onboarding session",
		Tags:        []string{"Onboarding"},
	}, func(_ context.Context, _ *struct{}) (*SessionOutput, error) {
		return &SessionOutput{Body: toSessionResponse(sessions.Start())}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/api/v1/onboarding/sessions/{id}",
		Summary:     "Get an onboarding session",
		Tags:        []string{"Onboarding"},
	}, func(_ context.Context, input *SessionPathInput) (*SessionOutput, error) {
		sess, err := sessions.Snapshot(input.ID)
		if err != nil {
			return nil, toHumaError(err, domain.Effect{})
		}
		return &SessionOutput{Body: toSessionResponse(sess)}, nil
	})

	registerForm(api, "register", "Create an account and load it into the session", sessions.Register)
	registerForm(api, "signin", "Load an existing account into the session", sessions.SignIn)
	registerForm(api, "personal", "Complete the personal step", sessions.SubmitPersonal)
	registerForm(api, "business", "Complete the business step", sessions.SubmitBusiness)

	huma.Register(api, huma.Operation{
		OperationID: "submit-plan",
		Method:      http.MethodPost,
		Path:        "/api/v1/onboarding/sessions/{id}/plan",
		Summary:     "Complete the plan step",
		Tags:        []string{"Onboarding"},
	}, func(ctx context.Context, input *PlanInput) (*StepOutput, error) {
		if input.Body != nil && input.Body.Plan != "" {
			if _, err := sessions.SelectPlan(input.ID, input.Body.Plan); err != nil {
				return nil, toHumaError(err, domain.Effect{})
			}
		}
		sess, eff, err := sessions.SubmitPlan(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err, eff)
		}
		return &StepOutput{Body: toStepResponse(sess, eff)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "submit-payment",
		Method:      http.MethodPost,
		Path:        "/api/v1/onboarding/sessions/{id}/payment",
		Summary:     "Complete the payment step and create the boteco",
		Tags:        []string{"Onboarding"},
	}, func(ctx context.Context, input *OptionalFormInput) (*StepOutput, error) {
		sess, eff, err := sessions.SubmitPayment(ctx, input.ID, input.Form())
		if err != nil {
			return nil, toHumaError(err, eff)
		}
		return &StepOutput{Body: toStepResponse(sess, eff)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-user-boteco",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/boteco",
		Summary:     "Check whether a user owns a boteco",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, input *UserPathInput) (*HasBotecoOutput, error) {
		has, err := sessions.HasBoteco(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err, domain.Effect{})
		}
		out := &HasBotecoOutput{}
		out.Body.HasBoteco = has
		return out, nil
	})
}

func registerForm(api huma.API, name, summary string, step formStep) {
	huma.Register(api, huma.Operation{
		OperationID: "submit-" + name,
		Method:      http.MethodPost,
		Path:        "/api/v1/onboarding/sessions/{id}/" + name,
		Summary:     summary,
		Tags:        []string{"Onboarding"},
	}, func(ctx context.Context, input *FormInput) (*StepOutput, error) {
		sess, eff, err := step(ctx, input.ID, input.Body)
		if err != nil {
			return nil, toHumaError(err, eff)
		}
		return &StepOutput{Body: toStepResponse(sess, eff)}, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors. The detail is
// the user-visible message carried by eff when there is one.
func toHumaError(err error, eff domain.Effect) error {
	msg := eff.Message
	if msg == "" {
		msg = err.Error()
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return huma.Error422UnprocessableEntity(msg, &huma.ErrorDetail{
			Message:  ve.Message,
			Location: "body." + ve.Field,
		})
	}

	var te *domain.TransitionError
	if errors.As(err, &te) {
		return huma.Error409Conflict(msg)
	}

	switch {
	case errors.Is(err, domain.ErrSessionBusy),
		errors.Is(err, domain.ErrUserIDMissing),
		errors.Is(err, domain.ErrConflict):
		return huma.Error409Conflict(msg)
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return huma.Error404NotFound(msg)
	}

	var pe *domain.ProvisioningError
	if errors.As(err, &pe) {
		return huma.Error502BadGateway(msg)
	}

	var de *domain.DataAccessError
	if errors.As(err, &de) {
		return huma.Error500InternalServerError(msg)
	}

	if eff.Message != "" {
		return huma.Error500InternalServerError(eff.Message)
	}
	return huma.Error500InternalServerError("internal server error")
}
