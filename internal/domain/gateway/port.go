package gateway

import (
	"context"
	"errors"
)

//go:generate mockgen -source port.go -destination mock_port.go -package gateway

// Provider is the card acquirer. Declines come back as a Result with
// StatusFailed; errors are reserved for requests that never got an answer.
type Provider interface {
	Purchase(ctx context.Context, req ChargeRequest) (Result, error)
	Authorize(ctx context.Context, req ChargeRequest) (Result, error)
	Capture(ctx context.Context, req CaptureRequest) (Result, error)
	Refund(ctx context.Context, req RefundRequest) (Result, error)
}

var (
	// ErrInvalidRequest: rejected locally, nothing was sent.
	ErrInvalidRequest = errors.New("invalid gateway request")
	// ErrUnavailable: 5xx or network failure talking to the provider.
	ErrUnavailable = errors.New("gateway unavailable")
)

type Card struct {
	Number      string `json:"number"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	CVC         string `json:"cvc"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address1    string `json:"address_line1"`
	Address2    string `json:"address_line2"`
	City        string `json:"address_city"`
	Postcode    string `json:"address_postcode"`
	State       string `json:"address_state"`
	Country     string `json:"address_country"`
}

// ChargeRequest amounts are in minor units.
type ChargeRequest struct {
	Amount      int64
	Currency    string
	Description string
	ClientIP    string
	Token       string
	Card        *Card
}

type CaptureRequest struct {
	Token  string
	Amount int64
}

type RefundRequest struct {
	Token  string
	Amount int64
}

type Result struct {
	Status         Status       `json:"status"`
	TransactionRef string       `json:"transaction_ref,omitempty"`
	CardRef        string       `json:"card_ref,omitempty"`
	Code           string       `json:"code,omitempty"`
	Message        string       `json:"message,omitempty"`
	HTTPStatus     int          `json:"-"`
	FieldErrors    []FieldError `json:"field_errors,omitempty"`
}

type FieldError struct {
	Param   string `json:"param"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)
