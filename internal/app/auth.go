package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/botecoflow/internal/domain"
	"github.com/neomorfeo/botecoflow/internal/password"
	"github.com/neomorfeo/botecoflow/internal/validation"
)

const (
	msgUserNotFound  = "user not found, please register"
	msgEmailRequired = "email is required"
	msgEmailTaken    = "an account with this email already exists"
)

// registration holds the fields a new account must provide.
type registration struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required"`
	Password  string `validate:"required"`
}

var registrationFields = map[string]formField{
	"FirstName": {domain.FieldFirstName, "first name"},
	"LastName":  {domain.FieldLastName, "last name"},
	"Email":     {domain.FieldEmail, "email"},
	"Password":  {domain.FieldPassword, "password"},
}

// AuthBridge creates and looks up accounts. It never touches a session:
// it returns an Identity that the caller applies.
type AuthBridge struct {
	gateway   domain.Gateway
	publisher domain.EventPublisher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthBridge creates an auth bridge backed by the given adapters.
func NewAuthBridge(gateway domain.Gateway, publisher domain.EventPublisher, opts ...Option) *AuthBridge {
	o := buildOptions(opts)
	return &AuthBridge{
		gateway:   gateway,
		publisher: publisher,
		validator: validation.New(),
		logger:    o.logger,
	}
}

// Register creates a user from the form and returns its full identity.
// Storing the password hash is best-effort and never fails registration.
func (a *AuthBridge) Register(ctx context.Context, form domain.Form) (domain.Identity, domain.Effect, error) {
	reg := registration{
		FirstName: form.Get(domain.FieldFirstName),
		LastName:  form.Get(domain.FieldLastName),
		Email:     form.Get(domain.FieldEmail),
		Password:  form.Get(domain.FieldPassword),
	}
	if err := firstViolation(a.validator, reg, registrationFields); err != nil {
		return domain.Identity{}, domain.ShowError(err.Error()), err
	}

	personal := domain.PersonalInfo{
		FirstName:   reg.FirstName,
		LastName:    reg.LastName,
		Email:       reg.Email,
		TaxNumber:   form.Get(domain.FieldTaxNumber),
		BirthDate:   form.Get(domain.FieldBirthDate),
		Country:     form.GetOr(domain.FieldCountry, domain.DefaultCountry),
		PostalCode:  form.Get(domain.FieldPostalCode),
		HouseNumber: form.Get(domain.FieldHouseNumber),
	}

	row, err := a.gateway.Insert(ctx, domain.TableUsers, domain.NewUser(personal).Row())
	if err != nil {
		a.logger.ErrorContext(ctx, "registering user failed", "email", reg.Email, "error", err)
		if errors.Is(err, domain.ErrConflict) {
			return domain.Identity{}, domain.ShowError(msgEmailTaken), err
		}
		return domain.Identity{}, domain.ShowError(fmt.Sprintf("could not register: %v", err)), err
	}
	user := domain.UserFromRow(row)
	userID := user.ID

	a.storeCredential(ctx, reg.Email, reg.Password)

	if err := a.publisher.Publish(ctx, domain.OnboardingEvent{
		Kind:   domain.EventUserRegistered,
		UserID: userID,
		Email:  reg.Email,
	}); err != nil {
		a.logger.WarnContext(ctx, "publishing registration event failed", "user_id", userID, "error", err)
	}

	identity := domain.Identity{UserID: userID, Personal: user.Personal(), Complete: true}
	return identity, domain.Navigate(domain.StepPersonal.Route()), nil
}

func (a *AuthBridge) storeCredential(ctx context.Context, email, pw string) {
	hash, err := password.Hash(pw)
	if err != nil {
		a.logger.WarnContext(ctx, "hashing password failed", "email", email, "error", err)
		return
	}
	cred := domain.Credential{Email: email, PasswordHash: hash}
	if _, err := a.gateway.Upsert(ctx, domain.TableCredentials, cred.Row(), "email"); err != nil {
		a.logger.WarnContext(ctx, "storing credential failed", "email", email, "error", err)
	}
}

// SignIn looks a user up by email and returns the user's id, names and email.
func (a *AuthBridge) SignIn(ctx context.Context, form domain.Form) (domain.Identity, domain.Effect, error) {
	email := form.Get(domain.FieldSignInEmail)
	if email == "" {
		email = form.Get(domain.FieldEmail)
	}
	if email == "" {
		err := &domain.ValidationError{Field: domain.FieldSignInEmail, Rule: "required", Message: msgEmailRequired}
		return domain.Identity{}, domain.ShowError(err.Message), err
	}

	rows, err := a.gateway.Select(ctx, domain.TableUsers, []domain.Filter{domain.Eq("email", email)}, 1)
	if err != nil {
		a.logger.ErrorContext(ctx, "looking up user failed", "email", email, "error", err)
		return domain.Identity{}, domain.ShowError(fmt.Sprintf("could not sign in: %v", err)), err
	}
	if len(rows) == 0 {
		return domain.Identity{}, domain.ShowError(msgUserNotFound), domain.ErrUserNotFound
	}

	user := domain.UserFromRow(rows[0])
	identity := domain.Identity{UserID: user.ID, Personal: user.Personal(), Complete: false}
	return identity, domain.Navigate(domain.StepPersonal.Route()), nil
}
