package domain

import "strings"

// Form field names shared by the auth bridge and the wizard steps.
const (
	FieldFirstName   = "personal_first_name"
	FieldLastName    = "personal_last_name"
	FieldEmail       = "personal_email"
	FieldTaxNumber   = "personal_tax_number"
	FieldBirthDate   = "personal_birth_date"
	FieldCountry     = "personal_country"
	FieldPostalCode  = "personal_postal_code"
	FieldHouseNumber = "personal_house_number"
	FieldPassword    = "password"
	FieldSignInEmail = "email"

	FieldBusinessPublicName      = "business_public_name"
	FieldBusinessUsername        = "business_username"
	FieldBusinessTaxNumber       = "business_tax_number"
	FieldBusinessServiceCategory = "business_service_category"
	FieldBusinessCountry         = "business_country"
	FieldBusinessPostalCode      = "business_postal_code"
	FieldBusinessVibeTags        = "business_vibe_tags"
)

// Form is a submitted field map. Absent keys and empty values are distinct.
type Form map[string]string

// Get returns the trimmed value for key, or "" when absent.
func (f Form) Get(key string) string {
	return strings.TrimSpace(f[key])
}

// GetOr returns the trimmed value for key, or fallback when the key is absent.
func (f Form) GetOr(key, fallback string) string {
	v, ok := f[key]
	if !ok {
		return fallback
	}
	return strings.TrimSpace(v)
}
