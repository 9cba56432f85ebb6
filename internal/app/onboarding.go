package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/neomorfeo/botecoflow/internal/domain"
	"github.com/neomorfeo/botecoflow/internal/validation"
)

// User-visible messages.
const (
	msgBusy          = "a request is already in progress, please wait"
	msgUserIDMissing = "user id not found, please complete the personal step again"
	msgPlanRequired  = "please select a plan"
)

// ruleMessages holds one message per format check.
var ruleMessages = map[string]string{
	"username":   "invalid username: use 3 to 30 letters, numbers or underscores",
	"taxnumber":  "invalid tax number: enter a CPF (11 digits) or CNPJ (14 digits)",
	"postalcode": "invalid postal code: enter an 8-digit CEP",
}

// formField maps a struct field to its form key and label.
type formField struct {
	key   string
	label string
}

var personalFields = map[string]formField{
	"FirstName":   {domain.FieldFirstName, "first name"},
	"LastName":    {domain.FieldLastName, "last name"},
	"Email":       {domain.FieldEmail, "email"},
	"TaxNumber":   {domain.FieldTaxNumber, "tax number"},
	"BirthDate":   {domain.FieldBirthDate, "birth date"},
	"Country":     {domain.FieldCountry, "country"},
	"PostalCode":  {domain.FieldPostalCode, "postal code"},
	"HouseNumber": {domain.FieldHouseNumber, "house number"},
}

var businessFields = map[string]formField{
	"PublicName":      {domain.FieldBusinessPublicName, "public name"},
	"Username":        {domain.FieldBusinessUsername, "username"},
	"TaxNumber":       {domain.FieldBusinessTaxNumber, "business tax number"},
	"ServiceCategory": {domain.FieldBusinessServiceCategory, "service category"},
	"Country":         {domain.FieldBusinessCountry, "country"},
	"PostalCode":      {domain.FieldBusinessPostalCode, "business postal code"},
}

// OnboardingService drives a session through the four wizard steps.
// It mutates the session it is handed; callers serialize access per session.
type OnboardingService struct {
	gateway             domain.Gateway
	provisioner         domain.Provisioner
	publisher           domain.EventPublisher
	steps               domain.StepValidator
	validator           *validation.Validator
	logger              *slog.Logger
	compensationTimeout time.Duration
}

// NewOnboardingService creates a service with the given adapters.
func NewOnboardingService(
	gateway domain.Gateway,
	provisioner domain.Provisioner,
	publisher domain.EventPublisher,
	steps domain.StepValidator,
	opts ...Option,
) *OnboardingService {
	o := buildOptions(opts)
	return &OnboardingService{
		gateway:             gateway,
		provisioner:         provisioner,
		publisher:           publisher,
		steps:               steps,
		validator:           validation.New(),
		logger:              o.logger,
		compensationTimeout: o.compensationTimeout,
	}
}

// SubmitPersonal completes the personal step: it validates the form,
// upserts the user by email and advances to the business step.
func (s *OnboardingService) SubmitPersonal(ctx context.Context, sess *domain.Session, form domain.Form) (domain.Effect, error) {
	if sess.IsLoading {
		return domain.ShowError(msgBusy), domain.ErrSessionBusy
	}

	next, err := s.steps.Apply(ctx, sess.CurrentStep, domain.EventPersonalCompleted)
	if err != nil {
		return transitionFailure(sess, err)
	}

	sess.Personal = domain.PersonalInfo{
		FirstName:   form.Get(domain.FieldFirstName),
		LastName:    form.Get(domain.FieldLastName),
		Email:       form.Get(domain.FieldEmail),
		TaxNumber:   form.Get(domain.FieldTaxNumber),
		BirthDate:   form.Get(domain.FieldBirthDate),
		Country:     form.GetOr(domain.FieldCountry, domain.DefaultCountry),
		PostalCode:  form.Get(domain.FieldPostalCode),
		HouseNumber: form.Get(domain.FieldHouseNumber),
	}

	if err := s.validate(sess.Personal, personalFields); err != nil {
		return domain.ShowError(err.Error()), err
	}

	sess.IsLoading = true
	defer func() { sess.IsLoading = false }()

	user := domain.NewUser(sess.Personal)
	row, err := s.gateway.Upsert(ctx, domain.TableUsers, user.Row(), "email")
	if err != nil {
		s.logger.ErrorContext(ctx, "saving user failed",
			"session_id", sess.ID,
			"email", user.Email,
			"error", err,
		)
		return domain.ShowError(fmt.Sprintf("could not save your details: %v", err)), err
	}

	sess.UserID = row.ID()
	sess.CurrentStep = next
	return domain.Navigate(domain.StepBusiness.Route()), nil
}

// SubmitBusiness completes the business step. Fields absent from the form
// keep their session values. Nothing is persisted.
func (s *OnboardingService) SubmitBusiness(ctx context.Context, sess *domain.Session, form domain.Form) (domain.Effect, error) {
	next, err := s.steps.Apply(ctx, sess.CurrentStep, domain.EventBusinessCompleted)
	if err != nil {
		return transitionFailure(sess, err)
	}

	b := sess.Business
	b.PublicName = form.GetOr(domain.FieldBusinessPublicName, b.PublicName)
	b.Username = form.GetOr(domain.FieldBusinessUsername, b.Username)
	b.TaxNumber = form.GetOr(domain.FieldBusinessTaxNumber, b.TaxNumber)
	b.ServiceCategory = form.GetOr(domain.FieldBusinessServiceCategory, b.ServiceCategory)
	b.Country = form.GetOr(domain.FieldBusinessCountry, b.Country)
	b.PostalCode = form.GetOr(domain.FieldBusinessPostalCode, b.PostalCode)
	b.VibeTags = form.GetOr(domain.FieldBusinessVibeTags, b.VibeTags)
	sess.Business = b

	if err := s.validate(sess.Business, businessFields); err != nil {
		return domain.ShowError(err.Error()), err
	}

	sess.CurrentStep = next
	return domain.Navigate(domain.StepPlan.Route()), nil
}

// SelectPlan records the plan chosen on the plan step.
func (s *OnboardingService) SelectPlan(sess *domain.Session, plan string) {
	sess.SelectedPlan = strings.TrimSpace(plan)
}

// SubmitPlan completes the plan step. A plan must have been selected.
func (s *OnboardingService) SubmitPlan(ctx context.Context, sess *domain.Session) (domain.Effect, error) {
	next, err := s.steps.Apply(ctx, sess.CurrentStep, domain.EventPlanSelected)
	if err != nil {
		return transitionFailure(sess, err)
	}

	if sess.SelectedPlan == "" {
		err := &domain.ValidationError{Field: "selected_plan", Rule: "required", Message: msgPlanRequired}
		return domain.ShowError(err.Message), err
	}

	sess.CurrentStep = next
	return domain.Navigate(domain.StepPayment.Route()), nil
}

// SubmitPayment completes the wizard. It creates the boteco, links it to
// the session's user and provisions its schema. When any of those fails the
// completed writes are undone newest-first and the failure is returned.
// Payment itself is treated as already satisfied.
func (s *OnboardingService) SubmitPayment(ctx context.Context, sess *domain.Session, _ domain.Form) (domain.Effect, error) {
	if sess.IsLoading {
		return domain.ShowError(msgBusy), domain.ErrSessionBusy
	}
	if sess.UserID == "" {
		return domain.ShowError(msgUserIDMissing), domain.ErrUserIDMissing
	}

	done, err := s.steps.Apply(ctx, sess.CurrentStep, domain.EventPaymentCompleted)
	if err != nil {
		return transitionFailure(sess, err)
	}

	sess.IsLoading = true
	defer func() { sess.IsLoading = false }()

	boteco := domain.NewBoteco(*sess)
	botecoID, err := s.onboard(ctx, boteco, sess.SelectedPlan)
	if err != nil {
		s.logger.ErrorContext(ctx, "onboarding failed",
			"session_id", sess.ID,
			"user_id", sess.UserID,
			"boteco_username", boteco.Username,
			"error", err,
		)
		return domain.ShowError(fmt.Sprintf("could not finish onboarding: %v. Please try again.", err)), err
	}

	plan := sess.SelectedPlan
	sess.CurrentStep = s.restart(ctx, done)
	sess.SelectedPlan = ""

	s.publish(ctx, domain.OnboardingEvent{
		Kind:           domain.EventBotecoOnboarded,
		UserID:         sess.UserID,
		Email:          sess.Personal.Email,
		BotecoID:       botecoID,
		BotecoUsername: boteco.Username,
		Plan:           plan,
	})

	return domain.Navigate(domain.StepSuccess.Route()), nil
}

// onboard runs the payment saga and returns the new boteco id.
func (s *OnboardingService) onboard(ctx context.Context, boteco domain.Boteco, plan string) (string, error) {
	var botecoID, linkID string

	sg := newSaga(s.logger, s.compensationTimeout)
	sg.add("insert boteco",
		func(ctx context.Context) error {
			row, err := s.gateway.Insert(ctx, domain.TableBoteco, boteco.Row())
			if err != nil {
				return err
			}
			botecoID = row.ID()
			return nil
		},
		func(ctx context.Context) error {
			return s.gateway.DeleteByID(ctx, domain.TableBoteco, botecoID)
		},
	)
	sg.add("insert user_boteco",
		func(ctx context.Context) error {
			link := domain.UserBoteco{
				UserID:       boteco.CreatedByUserID,
				BotecoID:     botecoID,
				AssignedRole: domain.RoleOwner,
				Plan:         plan,
			}
			row, err := s.gateway.Insert(ctx, domain.TableUserBoteco, link.Row())
			if err != nil {
				return err
			}
			linkID = row.ID()
			return nil
		},
		func(ctx context.Context) error {
			return s.gateway.DeleteByID(ctx, domain.TableUserBoteco, linkID)
		},
	)
	sg.add("provision schema",
		func(ctx context.Context) error {
			return s.provisioner.ProvisionSchema(ctx, boteco.Username)
		},
		nil,
	)

	if err := sg.run(ctx); err != nil {
		return "", err
	}
	return botecoID, nil
}

// restart moves a finished session back to the first step.
func (s *OnboardingService) restart(ctx context.Context, from domain.Step) domain.Step {
	step, err := s.steps.Apply(ctx, from, domain.EventRestart)
	if err != nil {
		s.logger.WarnContext(ctx, "restart transition rejected", "from", from.String(), "error", err)
		return domain.StepPersonal
	}
	return step
}

// HasBoteco reports whether the user is linked to at least one boteco.
func (s *OnboardingService) HasBoteco(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, domain.ErrUserIDMissing
	}
	n, err := s.gateway.Count(ctx, domain.TableUserBoteco, []domain.Filter{domain.Eq("user_id", userID)})
	if err != nil {
		return false, fmt.Errorf("counting botecos of user %s: %w", userID, err)
	}
	return n > 0, nil
}

// publish emits an event. Failures are logged and never undo the step.
func (s *OnboardingService) publish(ctx context.Context, event domain.OnboardingEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publishing onboarding event failed",
			"kind", string(event.Kind),
			"user_id", event.UserID,
			"error", err,
		)
	}
}

// validate returns a *domain.ValidationError for the first rule v breaks.
func (s *OnboardingService) validate(v any, fields map[string]formField) error {
	return firstViolation(s.validator, v, fields)
}

func firstViolation(validator *validation.Validator, v any, fields map[string]formField) error {
	violation, ok, err := validator.First(v)
	if err != nil {
		return fmt.Errorf("validating form: %w", err)
	}
	if !ok {
		return nil
	}

	field := fields[violation.Field]
	msg, known := ruleMessages[violation.Rule]
	if violation.Rule == "required" || !known {
		msg = field.label + " is required"
	}
	return &domain.ValidationError{Field: field.key, Rule: violation.Rule, Message: msg}
}

func transitionFailure(sess *domain.Session, err error) (domain.Effect, error) {
	var te *domain.TransitionError
	if errors.As(err, &te) {
		return domain.ShowError(fmt.Sprintf("please complete the %s step first", sess.CurrentStep)), err
	}
	return domain.ShowError(fmt.Sprintf("could not change step: %v", err)), err
}
