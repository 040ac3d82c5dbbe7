package pin

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Response wraps the JSON body returned by the gateway.
type Response struct {
	StatusCode int `json:"-"`

	Charge           *Charge        `json:"response,omitempty"`
	Error            string         `json:"error,omitempty"`
	ErrorDescription string         `json:"error_description,omitempty"`
	Messages         []FieldMessage `json:"messages,omitempty"`
	ChargeToken      string         `json:"charge_token,omitempty"`
}

// Charge is the "response" object of charge and refund replies.
type Charge struct {
	Token         string  `json:"token"`
	Success       bool    `json:"success"`
	Amount        int64   `json:"amount"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description"`
	Email         string  `json:"email"`
	IPAddress     string  `json:"ip_address"`
	CreatedAt     string  `json:"created_at"`
	StatusMessage string  `json:"status_message"`
	ErrorMessage  *string `json:"error_message"`
	Captured      bool    `json:"captured"`
	Card          *Card   `json:"card,omitempty"`
}

type Card struct {
	Token         string `json:"token"`
	Scheme        string `json:"scheme"`
	DisplayNumber string `json:"display_number"`
	ExpiryMonth   int    `json:"expiry_month"`
	ExpiryYear    int    `json:"expiry_year"`
	Name          string `json:"name"`
}

// FieldMessage is one entry of the "messages" array on invalid_resource errors.
type FieldMessage struct {
	Param   string `json:"param"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponse decodes a raw reply. An empty body yields a Response that
// only carries the status code.
func ParseResponse(raw *RawResponse) (*Response, error) {
	out := &Response{StatusCode: raw.StatusCode}
	if len(bytes.TrimSpace(raw.Body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw.Body, out); err != nil {
		return nil, fmt.Errorf("unmarshal response (status %d): %w", raw.StatusCode, err)
	}
	return out, nil
}

func (r *Response) IsSuccessful() bool {
	return r.StatusCode/100 == 2 && r.Error == ""
}

// TransactionReference is the charge token, also present on declines.
func (r *Response) TransactionReference() string {
	if r.Charge != nil && r.Charge.Token != "" {
		return r.Charge.Token
	}
	return r.ChargeToken
}

func (r *Response) CardReference() string {
	if r.Charge != nil && r.Charge.Card != nil {
		return r.Charge.Card.Token
	}
	return ""
}

func (r *Response) Code() string {
	return r.Error
}

func (r *Response) Message() string {
	if r.IsSuccessful() {
		if r.Charge != nil {
			return r.Charge.StatusMessage
		}
		return ""
	}
	if r.ErrorDescription != "" {
		return r.ErrorDescription
	}
	if len(r.Messages) > 0 {
		return r.Messages[0].Message
	}
	return ""
}
