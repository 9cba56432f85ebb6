package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/neomorfeo/botecoflow/internal/adapter/fsm"
	"github.com/neomorfeo/botecoflow/internal/app"
	"github.com/neomorfeo/botecoflow/internal/domain"
)

func newService(gw *fakeGateway, prov *fakeProvisioner, pub *fakePublisher) *app.OnboardingService {
	return app.NewOnboardingService(gw, prov, pub, fsm.New())
}

func TestSubmitPersonal_Success(t *testing.T) {
	gw := newFakeGateway()
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
	sess := domain.NewSession("s1")

	eff, err := svc.SubmitPersonal(context.Background(), &sess, personalForm())
	if err != nil {
		t.Fatalf("SubmitPersonal() error = %v", err)
	}

	users := gw.rows(domain.TableUsers)
	if len(users) != 1 {
		t.Fatalf("users rows = %d, want 1", len(users))
	}
	if sess.UserID != users[0].ID() {
		t.Errorf("UserID = %q, want %q", sess.UserID, users[0].ID())
	}
	if sess.CurrentStep != domain.StepBusiness {
		t.Errorf("CurrentStep = %v, want %v", sess.CurrentStep, domain.StepBusiness)
	}
	if eff != domain.Navigate("/onboarding/step-2-business") {
		t.Errorf("effect = %+v, want navigate to business", eff)
	}
	if sess.IsLoading {
		t.Error("IsLoading should be cleared")
	}
	if got := users[0].String("username"); got != "ana.silva123." {
		t.Errorf("username = %q, want %q", got, "ana.silva123.")
	}
}

func TestSubmitPersonal_DefaultsCountry(t *testing.T) {
	gw := newFakeGateway()
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
	sess := domain.NewSession("s1")

	form := personalForm()
	delete(form, domain.FieldCountry)

	if _, err := svc.SubmitPersonal(context.Background(), &sess, form); err != nil {
		t.Fatalf("SubmitPersonal() error = %v", err)
	}
	if sess.Personal.Country != domain.DefaultCountry {
		t.Errorf("Country = %q, want %q", sess.Personal.Country, domain.DefaultCountry)
	}
}

func TestSubmitPersonal_RejectsBlankFields(t *testing.T) {
	fields := []string{
		domain.FieldFirstName,
		domain.FieldLastName,
		domain.FieldEmail,
		domain.FieldTaxNumber,
		domain.FieldBirthDate,
		domain.FieldCountry,
		domain.FieldPostalCode,
		domain.FieldHouseNumber,
	}

	for _, field := range fields {
		for _, blank := range []string{"", "   "} {
			t.Run(field+"/"+strings.ReplaceAll(blank, " ", "_"), func(t *testing.T) {
				gw := newFakeGateway()
				svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
				sess := domain.NewSession("s1")

				form := personalForm()
				form[field] = blank

				eff, err := svc.SubmitPersonal(context.Background(), &sess, form)

				var ve *domain.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if ve.Field != field || ve.Rule != "required" {
					t.Errorf("violation = %s/%s, want %s/required", ve.Field, ve.Rule, field)
				}
				if eff.Kind != domain.EffectShowError || eff.Message == "" {
					t.Errorf("effect = %+v, want show_error", eff)
				}
				if sess.CurrentStep != domain.StepPersonal {
					t.Errorf("CurrentStep = %v, want personal", sess.CurrentStep)
				}
				if len(gw.rows(domain.TableUsers)) != 0 {
					t.Error("validation failure must not reach the data store")
				}
			})
		}
	}
}

func TestSubmitPersonal_FormatChecks(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		rule  string
	}{
		{"short tax number", domain.FieldTaxNumber, "12345", "taxnumber"},
		{"short postal code", domain.FieldPostalCode, "1234567", "postalcode"},
	}

	messages := make(map[string]string)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newFakeGateway(), &fakeProvisioner{}, &fakePublisher{})
			sess := domain.NewSession("s1")

			form := personalForm()
			form[tt.field] = tt.value

			eff, err := svc.SubmitPersonal(context.Background(), &sess, form)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Rule != tt.rule || ve.Field != tt.field {
				t.Errorf("violation = %s/%s, want %s/%s", ve.Field, ve.Rule, tt.field, tt.rule)
			}
			if eff.Message != ve.Message {
				t.Errorf("effect message = %q, want %q", eff.Message, ve.Message)
			}
			messages[tt.rule] = ve.Message
		})
	}

	if messages["taxnumber"] == messages["postalcode"] {
		t.Error("tax number and postal code failures must have distinct messages")
	}
}

func TestSubmitPersonal_UpsertFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.upsertErr[domain.TableUsers] = errors.New("disk full")
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
	sess := domain.NewSession("s1")

	eff, err := svc.SubmitPersonal(context.Background(), &sess, personalForm())

	var dae *domain.DataAccessError
	if !errors.As(err, &dae) {
		t.Fatalf("expected DataAccessError, got %v", err)
	}
	if !strings.Contains(eff.Message, "disk full") {
		t.Errorf("message = %q, want the failure reason", eff.Message)
	}
	if sess.IsLoading {
		t.Error("IsLoading should be cleared on failure")
	}
	if sess.CurrentStep != domain.StepPersonal || sess.UserID != "" {
		t.Errorf("session changed: step=%v user=%q", sess.CurrentStep, sess.UserID)
	}
}

func TestSubmitPersonal_Idempotent(t *testing.T) {
	gw := newFakeGateway()
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
	sess := domain.NewSession("s1")
	ctx := context.Background()

	if _, err := svc.SubmitPersonal(ctx, &sess, personalForm()); err != nil {
		t.Fatalf("first SubmitPersonal() error = %v", err)
	}
	firstID := sess.UserID

	if _, err := svc.SubmitPersonal(ctx, &sess, personalForm()); err != nil {
		t.Fatalf("second SubmitPersonal() error = %v", err)
	}

	if n := len(gw.rows(domain.TableUsers)); n != 1 {
		t.Errorf("users rows = %d, want 1", n)
	}
	if sess.UserID != firstID {
		t.Errorf("UserID = %q, want %q", sess.UserID, firstID)
	}
	if sess.CurrentStep != domain.StepBusiness {
		t.Errorf("CurrentStep = %v, want business", sess.CurrentStep)
	}
}

func TestSubmitPersonal_RejectsWhileLoading(t *testing.T) {
	gw := newFakeGateway()
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
	sess := domain.NewSession("s1")
	sess.IsLoading = true

	_, err := svc.SubmitPersonal(context.Background(), &sess, personalForm())
	if !errors.Is(err, domain.ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}
	if len(gw.rows(domain.TableUsers)) != 0 {
		t.Error("a busy session must not write")
	}
}

func TestSubmitBusiness_Success(t *testing.T) {
	svc := newService(newFakeGateway(), &fakeProvisioner{}, &fakePublisher{})
	sess := domain.NewSession("s1")
	sess.CurrentStep = domain.StepBusiness

	eff, err := svc.SubmitBusiness(context.Background(), &sess, businessForm())
	if err != nil {
		t.Fatalf("SubmitBusiness() error = %v", err)
	}
	if sess.CurrentStep != domain.StepPlan {
		t.Errorf("CurrentStep = %v, want plan", sess.CurrentStep)
	}
	if eff != domain.Navigate("/onboarding/step-3-plan") {
		t.Errorf("effect = %+v, want navigate to plan", eff)
	}
}

func TestSubmitBusiness_PartialUpdateKeepsValues(t *testing.T) {
	svc := newService(newFakeGateway(), &fakeProvisioner{}, &fakePublisher{})
	sess := domain.NewSession("s1")
	sess.CurrentStep = domain.StepBusiness

	form := businessForm()
	form[domain.FieldBusinessUsername] = "no spaces allowed"
	if _, err := svc.SubmitBusiness(context.Background(), &sess, form); err == nil {
		t.Fatal("expected a username violation")
	}

	fix := domain.Form{domain.FieldBusinessUsername: "bar_da_ana"}
	if _, err := svc.SubmitBusiness(context.Background(), &sess, fix); err != nil {
		t.Fatalf("SubmitBusiness() error = %v", err)
	}
	if sess.Business.PublicName != "Bar da Ana" {
		t.Errorf("PublicName = %q, want value from the first submit", sess.Business.PublicName)
	}
	if sess.Business.Username != "bar_da_ana" {
		t.Errorf("Username = %q, want %q", sess.Business.Username, "bar_da_ana")
	}
}

func TestSubmitBusiness_Violations(t *testing.T) {
	tests := []struct {
		name      string
		overrides domain.Form
		wantField string
		wantRule  string
	}{
		{"blank public name", domain.Form{domain.FieldBusinessPublicName: " "}, domain.FieldBusinessPublicName, "required"},
		{"blank username", domain.Form{domain.FieldBusinessUsername: ""}, domain.FieldBusinessUsername, "required"},
		{"blank category", domain.Form{domain.FieldBusinessServiceCategory: "\t"}, domain.FieldBusinessServiceCategory, "required"},
		{"blank country", domain.Form{domain.FieldBusinessCountry: ""}, domain.FieldBusinessCountry, "required"},
		{"required wins over format", domain.Form{domain.FieldBusinessUsername: "a", domain.FieldBusinessPostalCode: ""}, domain.FieldBusinessPostalCode, "required"},
		{"username checked first", domain.Form{domain.FieldBusinessUsername: "an", domain.FieldBusinessTaxNumber: "1"}, domain.FieldBusinessUsername, "username"},
		{"tax number before postal code", domain.Form{domain.FieldBusinessTaxNumber: "1", domain.FieldBusinessPostalCode: "1"}, domain.FieldBusinessTaxNumber, "taxnumber"},
		{"postal code", domain.Form{domain.FieldBusinessPostalCode: "123"}, domain.FieldBusinessPostalCode, "postalcode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newFakeGateway(), &fakeProvisioner{}, &fakePublisher{})
			sess := domain.NewSession("s1")
			sess.CurrentStep = domain.StepBusiness

			form := businessForm()
			for k, v := range tt.overrides {
				form[k] = v
			}

			_, err := svc.SubmitBusiness(context.Background(), &sess, form)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField || ve.Rule != tt.wantRule {
				t.Errorf("violation = %s/%s, want %s/%s", ve.Field, ve.Rule, tt.wantField, tt.wantRule)
			}
			if sess.CurrentStep != domain.StepBusiness {
				t.Errorf("CurrentStep = %v, want business", sess.CurrentStep)
			}
		})
	}
}

func TestSubmitBusiness_CannotSkipPersonal(t *testing.T) {
	svc := newService(newFakeGateway(), &fakeProvisioner{}, &fakePublisher{})
	sess := domain.NewSession("s1")

	eff, err := svc.SubmitBusiness(context.Background(), &sess, businessForm())

	var te *domain.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if eff.Kind != domain.EffectShowError {
		t.Errorf("effect = %+v, want show_error", eff)
	}
	if sess.CurrentStep != domain.StepPersonal {
		t.Errorf("CurrentStep = %v, want personal", sess.CurrentStep)
	}
}

func TestSubmitPlan(t *testing.T) {
	svc := newService(newFakeGateway(), &fakeProvisioner{}, &fakePublisher{})
	sess := domain.NewSession("s1")
	sess.CurrentStep = domain.StepPlan
	ctx := context.Background()

	_, err := svc.SubmitPlan(ctx, &sess)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError without a plan, got %v", err)
	}

	svc.SelectPlan(&sess, "  pro ")
	eff, err := svc.SubmitPlan(ctx, &sess)
	if err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}
	if sess.SelectedPlan != "pro" {
		t.Errorf("SelectedPlan = %q, want %q", sess.SelectedPlan, "pro")
	}
	if sess.CurrentStep != domain.StepPayment {
		t.Errorf("CurrentStep = %v, want payment", sess.CurrentStep)
	}
	if eff != domain.Navigate("/onboarding/step-4-payment") {
		t.Errorf("effect = %+v, want navigate to payment", eff)
	}
}

func TestSubmitPayment_Success(t *testing.T) {
	gw := newFakeGateway()
	prov := &fakeProvisioner{}
	pub := &fakePublisher{}
	svc := newService(gw, prov, pub)
	sess := paymentSession()

	eff, err := svc.SubmitPayment(context.Background(), sess, nil)
	if err != nil {
		t.Fatalf("SubmitPayment() error = %v", err)
	}

	botecos := gw.rows(domain.TableBoteco)
	links := gw.rows(domain.TableUserBoteco)
	if len(botecos) != 1 || len(links) != 1 {
		t.Fatalf("rows: boteco=%d user_boteco=%d, want 1 and 1", len(botecos), len(links))
	}
	if links[0].String("boteco_id") != botecos[0].ID() {
		t.Errorf("link boteco_id = %q, want %q", links[0].String("boteco_id"), botecos[0].ID())
	}
	if links[0].String("user_id") != "user-1" || links[0].String("assigned_role") != domain.RoleOwner || links[0].String("plan") != "pro" {
		t.Errorf("unexpected link row %v", links[0])
	}
	tags, _ := botecos[0]["vibe_tags"].([]string)
	if len(tags) != 2 || tags[0] != "samba" || tags[1] != "chopp" {
		t.Errorf("vibe_tags = %v, want [samba chopp]", botecos[0]["vibe_tags"])
	}
	if len(prov.calls) != 1 || prov.calls[0] != "bar_da_ana" {
		t.Errorf("provision calls = %v, want [bar_da_ana]", prov.calls)
	}

	if eff != domain.Navigate("/onboarding/success") {
		t.Errorf("effect = %+v, want navigate to success", eff)
	}
	if sess.CurrentStep != domain.StepPersonal {
		t.Errorf("CurrentStep = %v, want personal after restart", sess.CurrentStep)
	}
	if sess.SelectedPlan != "" || sess.IsLoading {
		t.Errorf("plan=%q loading=%v, want cleared", sess.SelectedPlan, sess.IsLoading)
	}

	events := pub.published()
	if len(events) != 1 || events[0].Kind != domain.EventBotecoOnboarded {
		t.Fatalf("events = %+v, want one boteco_onboarded", events)
	}
	if events[0].BotecoID != botecos[0].ID() || events[0].Plan != "pro" {
		t.Errorf("event = %+v", events[0])
	}
}

func TestSubmitPayment_PublishFailureDoesNotFail(t *testing.T) {
	gw := newFakeGateway()
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{err: errors.New("queue down")})
	sess := paymentSession()

	if _, err := svc.SubmitPayment(context.Background(), sess, nil); err != nil {
		t.Fatalf("SubmitPayment() error = %v", err)
	}
	if len(gw.rows(domain.TableBoteco)) != 1 {
		t.Error("publishing failure must not roll back the boteco")
	}
}

func TestSubmitPayment_RequiresUserID(t *testing.T) {
	gw := newFakeGateway()
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
	sess := paymentSession()
	sess.UserID = ""

	eff, err := svc.SubmitPayment(context.Background(), sess, nil)
	if !errors.Is(err, domain.ErrUserIDMissing) {
		t.Fatalf("expected ErrUserIDMissing, got %v", err)
	}
	if eff.Kind != domain.EffectShowError {
		t.Errorf("effect = %+v, want show_error", eff)
	}
	if len(gw.rows(domain.TableBoteco)) != 0 {
		t.Error("nothing should be written without a user id")
	}
	if sess.CurrentStep != domain.StepPayment || sess.IsLoading {
		t.Errorf("session changed: step=%v loading=%v", sess.CurrentStep, sess.IsLoading)
	}
}

func TestSubmitPayment_BotecoInsertFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.insertErr[domain.TableBoteco] = errors.New("username taken")
	prov := &fakeProvisioner{}
	svc := newService(gw, prov, &fakePublisher{})
	sess := paymentSession()

	eff, err := svc.SubmitPayment(context.Background(), sess, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(eff.Message, "username taken") {
		t.Errorf("message = %q, want the failure reason", eff.Message)
	}
	if len(gw.deleted) != 0 {
		t.Errorf("deleted = %v, want nothing to compensate", gw.deleted)
	}
	if len(prov.calls) != 0 {
		t.Error("provisioning must not run")
	}
	if sess.CurrentStep != domain.StepPayment || sess.IsLoading {
		t.Errorf("session changed: step=%v loading=%v", sess.CurrentStep, sess.IsLoading)
	}
}

func TestSubmitPayment_UserBotecoFailureCompensates(t *testing.T) {
	gw := newFakeGateway()
	linkErr := errors.New("fk violation")
	gw.insertErr[domain.TableUserBoteco] = linkErr
	prov := &fakeProvisioner{}
	svc := newService(gw, prov, &fakePublisher{})
	sess := paymentSession()

	eff, err := svc.SubmitPayment(context.Background(), sess, nil)

	if !errors.Is(err, linkErr) {
		t.Fatalf("error = %v, want the user_boteco failure", err)
	}
	var dae *domain.DataAccessError
	if !errors.As(err, &dae) || dae.Table != domain.TableUserBoteco {
		t.Errorf("error = %v, want a user_boteco DataAccessError", err)
	}
	if len(gw.rows(domain.TableBoteco)) != 0 {
		t.Error("boteco should have been deleted")
	}
	if len(gw.deleted) != 1 || !strings.HasPrefix(gw.deleted[0], "boteco/") {
		t.Errorf("deleted = %v, want only the boteco", gw.deleted)
	}
	if len(prov.calls) != 0 {
		t.Error("provisioning must not run")
	}
	if !strings.Contains(eff.Message, "fk violation") {
		t.Errorf("message = %q, want the user_boteco failure", eff.Message)
	}
	if sess.IsLoading || sess.CurrentStep != domain.StepPayment {
		t.Errorf("session changed: step=%v loading=%v", sess.CurrentStep, sess.IsLoading)
	}
}

func TestSubmitPayment_ProvisioningFailureCompensates(t *testing.T) {
	gw := newFakeGateway()
	prov := &fakeProvisioner{provide: func(_ context.Context, username string) error {
		return &domain.ProvisioningError{Username: username, StatusCode: 500}
	}}
	svc := newService(gw, prov, &fakePublisher{})
	sess := paymentSession()

	_, err := svc.SubmitPayment(context.Background(), sess, nil)

	var pe *domain.ProvisioningError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProvisioningError, got %v", err)
	}
	if len(gw.rows(domain.TableBoteco)) != 0 || len(gw.rows(domain.TableUserBoteco)) != 0 {
		t.Error("boteco and its association should have been deleted")
	}
	if len(gw.deleted) != 2 ||
		!strings.HasPrefix(gw.deleted[0], "user_boteco/") ||
		!strings.HasPrefix(gw.deleted[1], "boteco/") {
		t.Errorf("deleted = %v, want user_boteco then boteco", gw.deleted)
	}
}

func TestSubmitPayment_DeleteFailureDoesNotMaskOriginal(t *testing.T) {
	gw := newFakeGateway()
	gw.deleteErr[domain.TableBoteco] = errors.New("delete refused")
	linkErr := errors.New("fk violation")
	gw.insertErr[domain.TableUserBoteco] = linkErr
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
	sess := paymentSession()

	eff, err := svc.SubmitPayment(context.Background(), sess, nil)

	if !errors.Is(err, linkErr) {
		t.Fatalf("error = %v, want the original failure", err)
	}
	var ce *domain.CompensationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompensationError, got %T", err)
	}
	if ce.Compensation == nil || !strings.Contains(ce.Compensation.Error(), "delete refused") {
		t.Errorf("Compensation = %v, want the delete failure", ce.Compensation)
	}
	if strings.Contains(eff.Message, "delete refused") {
		t.Errorf("message = %q must not report the delete failure", eff.Message)
	}
	if sess.IsLoading {
		t.Error("IsLoading should be cleared")
	}
}

func TestSubmitPayment_CancelledRequestStillCompensates(t *testing.T) {
	gw := newFakeGateway()
	ctx, cancel := context.WithCancel(context.Background())
	prov := &fakeProvisioner{provide: func(ctx context.Context, _ string) error {
		cancel()
		return ctx.Err()
	}}
	svc := newService(gw, prov, &fakePublisher{})
	sess := paymentSession()

	_, err := svc.SubmitPayment(ctx, sess, nil)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	var ce *domain.CompensationError
	if errors.As(err, &ce) {
		t.Fatalf("compensation failed: %v", ce.Compensation)
	}
	if len(gw.rows(domain.TableBoteco)) != 0 || len(gw.rows(domain.TableUserBoteco)) != 0 {
		t.Error("compensation should run after cancellation")
	}
}

func TestSubmitPayment_PanicCompensates(t *testing.T) {
	gw := newFakeGateway()
	prov := &fakeProvisioner{provide: func(context.Context, string) error {
		panic("boom")
	}}
	svc := newService(gw, prov, &fakePublisher{})
	sess := paymentSession()

	eff, err := svc.SubmitPayment(context.Background(), sess, nil)

	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error = %v, want the panic value", err)
	}
	if !strings.Contains(eff.Message, "boom") {
		t.Errorf("message = %q, want the panic value", eff.Message)
	}
	if len(gw.rows(domain.TableBoteco)) != 0 {
		t.Error("boteco should have been deleted")
	}
	if sess.IsLoading || sess.CurrentStep != domain.StepPayment {
		t.Errorf("session changed: step=%v loading=%v", sess.CurrentStep, sess.IsLoading)
	}
}

func TestSubmitPayment_WrongStep(t *testing.T) {
	gw := newFakeGateway()
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
	sess := paymentSession()
	sess.CurrentStep = domain.StepPlan

	_, err := svc.SubmitPayment(context.Background(), sess, nil)

	var te *domain.TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransitionError, got %v", err)
	}
	if len(gw.rows(domain.TableBoteco)) != 0 {
		t.Error("nothing should be written from the plan step")
	}
}

func TestHasBoteco(t *testing.T) {
	gw := newFakeGateway()
	svc := newService(gw, &fakeProvisioner{}, &fakePublisher{})
	ctx := context.Background()

	has, err := svc.HasBoteco(ctx, "user-1")
	if err != nil || has {
		t.Fatalf("HasBoteco() = %v, %v; want false, nil", has, err)
	}

	if _, err := svc.SubmitPayment(ctx, paymentSession(), nil); err != nil {
		t.Fatalf("SubmitPayment() error = %v", err)
	}

	has, err = svc.HasBoteco(ctx, "user-1")
	if err != nil || !has {
		t.Fatalf("HasBoteco() = %v, %v; want true, nil", has, err)
	}

	if _, err := svc.HasBoteco(ctx, ""); !errors.Is(err, domain.ErrUserIDMissing) {
		t.Errorf("HasBoteco(\"\") error = %v, want ErrUserIDMissing", err)
	}
}
