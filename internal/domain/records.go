package domain

import (
	"fmt"
	"strings"
)

// Table names a logical table of the data store.
type Table string

const (
	TableUsers       Table = "users"
	TableBoteco      Table = "boteco"
	TableUserBoteco  Table = "user_boteco"
	TableCredentials Table = "credentials"
)

// Row is a single record as exchanged with the data store.
type Row map[string]any

// ID returns the row's "id" column as a string.
func (r Row) ID() string {
	return r.String("id")
}

// String returns the named column as a string, or "" when absent or nil.
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Filter is an equality condition on a column.
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Owner role assigned to the user who creates a boteco.
const RoleOwner = "owner"

// Defaults substituted into a user record for empty fields.
const (
	DefaultTaxNumber   = "00000000000"
	DefaultBirthDate   = "1990-01-01"
	DefaultPostalCode  = "00000000"
	DefaultHouseNumber = "S/N"
)

// DeriveUsername builds the account username: "first.last" lower-cased,
// followed by the first four characters of the tax number when present.
func DeriveUsername(firstName, lastName, taxNumber string) string {
	base := strings.ToLower(firstName) + "." + strings.ToLower(lastName)
	prefix := []rune(taxNumber)
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return base + string(prefix)
}

// User is a persisted account.
type User struct {
	ID          string
	Email       string
	Username    string
	TaxNumber   string
	FirstName   string
	LastName    string
	BirthDate   string
	Country     string
	PostalCode  string
	HouseNumber string
	IsOwner     bool
}

// NewUser builds the owner account for p, substituting defaults for empty fields.
func NewUser(p PersonalInfo) User {
	return User{
		Email:       p.Email,
		Username:    DeriveUsername(p.FirstName, p.LastName, p.TaxNumber),
		TaxNumber:   orDefault(p.TaxNumber, DefaultTaxNumber),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		BirthDate:   orDefault(p.BirthDate, DefaultBirthDate),
		Country:     orDefault(p.Country, DefaultCountry),
		PostalCode:  orDefault(p.PostalCode, DefaultPostalCode),
		HouseNumber: orDefault(p.HouseNumber, DefaultHouseNumber),
		IsOwner:     true,
	}
}

// Row converts the user into a data store record. The id is omitted when empty.
func (u User) Row() Row {
	r := Row{
		"email":        u.Email,
		"username":     u.Username,
		"tax_number":   u.TaxNumber,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"birth_date":   u.BirthDate,
		"country":      u.Country,
		"postal_code":  u.PostalCode,
		"house_number": u.HouseNumber,
		"is_owner":     u.IsOwner,
	}
	if u.ID != "" {
		r["id"] = u.ID
	}
	return r
}

// UserFromRow reads a user out of a data store record.
func UserFromRow(r Row) User {
	return User{
		ID:          r.ID(),
		Email:       r.String("email"),
		Username:    r.String("username"),
		TaxNumber:   r.String("tax_number"),
		FirstName:   r.String("first_name"),
		LastName:    r.String("last_name"),
		BirthDate:   r.String("birth_date"),
		Country:     r.String("country"),
		PostalCode:  r.String("postal_code"),
		HouseNumber: r.String("house_number"),
		IsOwner:     isTruthy(r["is_owner"]),
	}
}

// Personal returns the wizard fields held by the user record.
func (u User) Personal() PersonalInfo {
	return PersonalInfo{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		TaxNumber:   u.TaxNumber,
		BirthDate:   u.BirthDate,
		Country:     orDefault(u.Country, DefaultCountry),
		PostalCode:  u.PostalCode,
		HouseNumber: u.HouseNumber,
	}
}

// Boteco is a tenant: one establishment using the platform.
type Boteco struct {
	ID                     string
	PublicName             string
	Username               string
	ServiceCategory        string
	VibeTags               []string
	EstablishmentTaxNumber string
	Country                string
	PostalCode             string
	OwnerTaxNumber         string
	CreatedByEmail         string
	CreatedByUserID        string
}

// NewBoteco builds the tenant record from a session's business and personal data.
func NewBoteco(s Session) Boteco {
	return Boteco{
		PublicName:             s.Business.PublicName,
		Username:               s.Business.Username,
		ServiceCategory:        s.Business.ServiceCategory,
		VibeTags:               ParseVibeTags(s.Business.VibeTags),
		EstablishmentTaxNumber: s.Business.TaxNumber,
		Country:                s.Business.Country,
		PostalCode:             s.Business.PostalCode,
		OwnerTaxNumber:         s.Personal.TaxNumber,
		CreatedByEmail:         s.Personal.Email,
		CreatedByUserID:        s.UserID,
	}
}

// Row converts the boteco into a data store record.
func (b Boteco) Row() Row {
	r := Row{
		"public_name":              b.PublicName,
		"username":                 b.Username,
		"service_category":         b.ServiceCategory,
		"vibe_tags":                b.VibeTags,
		"establishment_tax_number": b.EstablishmentTaxNumber,
		"country":                  b.Country,
		"postal_code":              b.PostalCode,
		"owner_tax_number":         b.OwnerTaxNumber,
		"created_by_email":         b.CreatedByEmail,
		"created_by_user_id":       b.CreatedByUserID,
	}
	if b.ID != "" {
		r["id"] = b.ID
	}
	return r
}

// ParseVibeTags splits a comma-separated tag list, trimming entries and dropping empty ones.
func ParseVibeTags(raw string) []string {
	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// UserBoteco associates a user with a boteco under a role and plan.
type UserBoteco struct {
	ID           string
	UserID       string
	BotecoID     string
	AssignedRole string
	Plan         string
}

// Row converts the association into a data store record.
func (ub UserBoteco) Row() Row {
	r := Row{
		"user_id":       ub.UserID,
		"boteco_id":     ub.BotecoID,
		"assigned_role": ub.AssignedRole,
		"plan":          ub.Plan,
	}
	if ub.ID != "" {
		r["id"] = ub.ID
	}
	return r
}

// Credential stores a password hash for an email.
type Credential struct {
	Email        string
	PasswordHash string
}

// Row converts the credential into a data store record.
func (c Credential) Row() Row {
	return Row{
		"email":         c.Email,
		"password_hash": c.PasswordHash,
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func isTruthy(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case string:
		return v == "1" || v == "true"
	}
	return false
}
