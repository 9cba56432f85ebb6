package app_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/neomorfeo/botecoflow/internal/domain"
)

// --- Fakes ---

// fakeGateway is an in-memory domain.Gateway with per-table failure injection.
// Writes honour the caller's context the way the SQLite gateway does.
type fakeGateway struct {
	mu        sync.Mutex
	seq       int
	tables    map[domain.Table][]domain.Row
	insertErr map[domain.Table]error
	upsertErr map[domain.Table]error
	deleteErr map[domain.Table]error
	deleted   []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		tables:    make(map[domain.Table][]domain.Row),
		insertErr: make(map[domain.Table]error),
		upsertErr: make(map[domain.Table]error),
		deleteErr: make(map[domain.Table]error),
	}
}

func (g *fakeGateway) Insert(ctx context.Context, table domain.Table, record domain.Row) (domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.DataAccessError{Op: "insert", Table: table, Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.insertErr[table]; err != nil {
		return nil, &domain.DataAccessError{Op: "insert", Table: table, Err: err}
	}
	if table == domain.TableUsers && g.find(table, "email", record.String("email")) >= 0 {
		return nil, &domain.DataAccessError{Op: "insert", Table: table, Err: domain.ErrConflict}
	}
	return g.store(table, record), nil
}

func (g *fakeGateway) Upsert(ctx context.Context, table domain.Table, record domain.Row, conflictKey string) (domain.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.DataAccessError{Op: "upsert", Table: table, Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.upsertErr[table]; err != nil {
		return nil, &domain.DataAccessError{Op: "upsert", Table: table, Err: err}
	}
	if i := g.find(table, conflictKey, record.String(conflictKey)); i >= 0 {
		existing := g.tables[table][i]
		for k, v := range record {
			if k != "id" {
				existing[k] = v
			}
		}
		return copyRow(existing), nil
	}
	return g.store(table, record), nil
}

func (g *fakeGateway) DeleteByID(ctx context.Context, table domain.Table, id string) error {
	if err := ctx.Err(); err != nil {
		return &domain.DataAccessError{Op: "delete", Table: table, Err: err}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.deleteErr[table]; err != nil {
		return &domain.DataAccessError{Op: "delete", Table: table, Err: err}
	}
	if i := g.find(table, "id", id); i >= 0 {
		rows := g.tables[table]
		g.tables[table] = append(rows[:i], rows[i+1:]...)
	}
	g.deleted = append(g.deleted, string(table)+"/"+id)
	return nil
}

func (g *fakeGateway) Select(_ context.Context, table domain.Table, filters []domain.Filter, limit int) ([]domain.Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]domain.Row, 0)
	for _, r := range g.tables[table] {
		if matches(r, filters) {
			out = append(out, copyRow(r))
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (g *fakeGateway) Count(_ context.Context, table domain.Table, filters []domain.Filter) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, r := range g.tables[table] {
		if matches(r, filters) {
			n++
		}
	}
	return n, nil
}

func (g *fakeGateway) rows(table domain.Table) []domain.Row {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]domain.Row(nil), g.tables[table]...)
}

func (g *fakeGateway) store(table domain.Table, record domain.Row) domain.Row {
	row := copyRow(record)
	if row.ID() == "" {
		g.seq++
		row["id"] = fmt.Sprintf("%s-%d", table, g.seq)
	}
	g.tables[table] = append(g.tables[table], row)
	return copyRow(row)
}

func (g *fakeGateway) find(table domain.Table, column, value string) int {
	for i, r := range g.tables[table] {
		if r.String(column) == value {
			return i
		}
	}
	return -1
}

func matches(r domain.Row, filters []domain.Filter) bool {
	for _, f := range filters {
		if r.String(f.Column) != fmt.Sprint(f.Value) {
			return false
		}
	}
	return true
}

func copyRow(r domain.Row) domain.Row {
	out := make(domain.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

type fakeProvisioner struct {
	mu      sync.Mutex
	calls   []string
	provide func(ctx context.Context, username string) error
}

func (p *fakeProvisioner) ProvisionSchema(ctx context.Context, username string) error {
	p.mu.Lock()
	p.calls = append(p.calls, username)
	fn := p.provide
	p.mu.Unlock()
	if fn != nil {
		return fn(ctx, username)
	}
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.OnboardingEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e domain.OnboardingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) published() []domain.OnboardingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.OnboardingEvent(nil), p.events...)
}

// --- Fixtures ---

func personalForm() domain.Form {
	return domain.Form{
		domain.FieldFirstName:   "Ana",
		domain.FieldLastName:    "Silva",
		domain.FieldEmail:       "ana@x.com",
		domain.FieldTaxNumber:   "123.456.789-00",
		domain.FieldBirthDate:   "1992-04-10",
		domain.FieldCountry:     "Brasil",
		domain.FieldPostalCode:  "12345-678",
		domain.FieldHouseNumber: "42",
	}
}

func businessForm() domain.Form {
	return domain.Form{
		domain.FieldBusinessPublicName:      "Bar da Ana",
		domain.FieldBusinessUsername:        "bar_da_ana",
		domain.FieldBusinessTaxNumber:       "12.345.678/0001-90",
		domain.FieldBusinessServiceCategory: "bar",
		domain.FieldBusinessCountry:         "Brasil",
		domain.FieldBusinessPostalCode:      "01310-100",
		domain.FieldBusinessVibeTags:        "samba, chopp ,, petiscos",
	}
}

// paymentSession returns a session that is ready for the payment step.
func paymentSession() *domain.Session {
	sess := domain.NewSession("sess-1")
	sess.CurrentStep = domain.StepPayment
	sess.UserID = "user-1"
	sess.Personal.Email = "ana@x.com"
	sess.Personal.TaxNumber = "12345678900"
	sess.Business = domain.BusinessInfo{
		PublicName:      "Bar da Ana",
		Username:        "bar_da_ana",
		TaxNumber:       "12345678000190",
		ServiceCategory: "bar",
		Country:         "Brasil",
		PostalCode:      "01310100",
		VibeTags:        "samba, chopp",
	}
	sess.SelectedPlan = "pro"
	return &sess
}
