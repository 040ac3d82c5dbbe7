package pin

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CardDetails carries raw card data for a single request. It is never stored.
type CardDetails struct {
	Number      string `validate:"required,numeric,credit_card"`
	ExpiryMonth int    `validate:"required,min=1,max=12"`
	ExpiryYear  int    `validate:"required,min=1000,max=9999"`
	CVC         string `validate:"omitempty,numeric,min=3,max=4"`
	Name        string
	Email       string `validate:"omitempty,email"`

	Address1 string
	Address2 string
	City     string
	Postcode string
	State    string
	Country  string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// now is swapped in tests.
var now = time.Now

// Normalized returns a copy whose Number holds digits only, so "4200 0000 0000 0000"
// and "4200-0000-0000-0000" validate and go on the wire as "4200000000000000".
func (c *CardDetails) Normalized() CardDetails {
	n := *c
	n.Number = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, c.Number)
	return n
}

// Validate checks presence, Luhn checksum and expiry of the normalized card.
// The card stays valid until the last instant of its expiry month (UTC).
func (c *CardDetails) Validate() error {
	normalized := c.Normalized()

	if err := validate.Struct(normalized); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return cardFieldError(verrs[0])
		}
		return &CardValidationError{Field: "card", Reason: err.Error()}
	}

	if expiryEnd(c.ExpiryYear, c.ExpiryMonth).Before(now().UTC()) {
		return &CardValidationError{Field: "expiry", Reason: "card has expired"}
	}
	return nil
}

func expiryEnd(year, month int) time.Time {
	firstNext := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstNext.Add(-time.Nanosecond)
}

var cardFields = map[string]string{
	"Number":      "number",
	"ExpiryMonth": "expiry_month",
	"ExpiryYear":  "expiry_year",
	"CVC":         "cvc",
	"Email":       "email",
}

func cardFieldError(fe validator.FieldError) *CardValidationError {
	field, ok := cardFields[fe.Field()]
	if !ok {
		field = strings.ToLower(fe.Field())
	}
	switch fe.Tag() {
	case "required":
		return &CardValidationError{Field: field, Reason: "is required"}
	case "credit_card":
		return &CardValidationError{Field: field, Reason: "is not a valid card number"}
	case "min":
		return &CardValidationError{Field: field, Reason: "must be at least " + fe.Param()}
	case "max":
		return &CardValidationError{Field: field, Reason: "must be at most " + fe.Param()}
	default:
		return &CardValidationError{Field: field, Reason: "is invalid (" + fe.Tag() + ")"}
	}
}
