package store

import (
	"fmt"
	"strings"
	"time"
)

// Registration holds a submitted store-registration form.
type Registration struct {
	ID string

	// Company identification.
	CompanyName string // razão social
	TradeName   string // nome fantasia
	CNPJ        string
	IEExempt    bool   // isento de inscrição estadual
	IE          string // inscrição estadual, required unless exempt
	Segment     string

	// Contacts.
	Phone    string
	WhatsApp string
	Email    string
	Website  string

	// Address.
	PostalCode string
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string

	// Services and accepted payment methods.
	Delivery      bool
	Pickup        bool
	AcceptsPix    bool
	AcceptsDebit  bool
	AcceptsCredit bool

	// Social.
	Instagram string
	Facebook  string

	TermsAccepted bool
	CreatedAt     time.Time
}

// FieldError describes a single invalid registration field.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError aggregates every invalid field in a registration.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}

// Validate applies the registration form rules. It returns nil when the
// registration is acceptable, or a *ValidationError listing every failure.
func (r *Registration) Validate() error {
	var fields []FieldError
	add := func(field, reason string) {
		fields = append(fields, FieldError{Field: field, Reason: reason})
	}

	if strings.TrimSpace(r.CompanyName) == "" {
		add("company_name", "required")
	}
	if strings.TrimSpace(r.TradeName) == "" {
		add("trade_name", "required")
	}
	if n := digitCount(r.CNPJ); n < 14 || n > 15 {
		add("cnpj", "must contain 14 digits")
	}
	if !r.IEExempt && strings.TrimSpace(r.IE) == "" {
		add("ie", "required unless exempt")
	}
	if strings.TrimSpace(r.Street) == "" {
		add("street", "required")
	}
	if strings.TrimSpace(r.Number) == "" {
		add("number", "required")
	}
	if strings.TrimSpace(r.District) == "" {
		add("district", "required")
	}
	if strings.TrimSpace(r.City) == "" {
		add("city", "required")
	}
	if n := len(r.State); n < 2 || n > 3 {
		add("state", "must be a 2-letter UF code")
	}
	if r.Email != "" && !strings.Contains(r.Email, "@") {
		add("email", "invalid address")
	}

	// At least one reachable phone line, on either field.
	phone := r.Phone
	if phone == "" {
		phone = r.WhatsApp
	}
	if n := digitCount(phone); n < 10 || n > 13 {
		add("phone", "must contain 10 to 13 digits")
	}

	if !r.TermsAccepted {
		add("terms_accepted", "terms must be accepted")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func digitCount(s string) int {
	n := 0
	for _, c := range s {
		if c >= '0' && c <= '9' {
			n++
		}
	}
	return n
}
