package pin

import (
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
)

// TransactionContext is the per-call input to the payload builders.
// Amount is in minor units. It must not be shared between concurrent calls.
type TransactionContext struct {
	Amount      int64
	Currency    string
	Description string
	ClientIP    string
	Card        *CardDetails
	Token       string
}

// Source is what a charge is paid with: CardToken, CustomerToken or CardSource.
type Source interface {
	isSource()
}

// CardToken references a card previously stored with the gateway.
type CardToken string

// CustomerToken references a customer profile and its primary card.
type CustomerToken string

// CardSource submits raw card details.
type CardSource struct {
	Card CardDetails
}

func (CardToken) isSource()     {}
func (CustomerToken) isSource() {}
func (CardSource) isSource()    {}

// ClassifyToken decides between a card and a customer token. Any token that
// contains "card_" anywhere is treated as a card token.
func ClassifyToken(token string) Source {
	if strings.Contains(token, "card_") {
		return CardToken(token)
	}
	return CustomerToken(token)
}

// ChargePayload is the body of POST /charges.
type ChargePayload struct {
	Email       string
	Amount      int64
	Currency    string
	Description string
	IPAddress   string
	Source      Source

	// DeferCapture asks the gateway to authorise only.
	DeferCapture bool
}

type chargeForm struct {
	Email         string    `url:"email"`
	Amount        int64     `url:"amount"`
	Currency      string    `url:"currency"`
	Description   string    `url:"description"`
	IPAddress     string    `url:"ip_address"`
	CardToken     string    `url:"card_token,omitempty"`
	CustomerToken string    `url:"customer_token,omitempty"`
	Card          *cardForm `url:"card,omitempty"`
	Capture       string    `url:"capture,omitempty"`
}

type cardForm struct {
	Number          string `url:"number"`
	ExpiryMonth     int    `url:"expiry_month"`
	ExpiryYear      int    `url:"expiry_year"`
	CVC             string `url:"cvc"`
	Name            string `url:"name"`
	AddressLine1    string `url:"address_line1"`
	AddressLine2    string `url:"address_line2"`
	AddressCity     string `url:"address_city"`
	AddressPostcode string `url:"address_postcode"`
	AddressState    string `url:"address_state"`
	AddressCountry  string `url:"address_country"`
}

// Values encodes the payload as a form body; the card nests as card[number] etc.
func (p ChargePayload) Values() (url.Values, error) {
	form := chargeForm{
		Email:       p.Email,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Description: p.Description,
		IPAddress:   p.IPAddress,
	}

	switch src := p.Source.(type) {
	case CardToken:
		form.CardToken = string(src)
	case CustomerToken:
		form.CustomerToken = string(src)
	case CardSource:
		c := src.Card
		form.Card = &cardForm{
			Number:          c.Number,
			ExpiryMonth:     c.ExpiryMonth,
			ExpiryYear:      c.ExpiryYear,
			CVC:             c.CVC,
			Name:            c.Name,
			AddressLine1:    c.Address1,
			AddressLine2:    c.Address2,
			AddressCity:     c.City,
			AddressPostcode: c.Postcode,
			AddressState:    c.State,
			AddressCountry:  c.Country,
		}
	default:
		return nil, missing("card")
	}

	if p.DeferCapture {
		form.Capture = "false"
	}

	return query.Values(form)
}

// BuildChargePayload maps a transaction onto the charge fields. A token wins
// over raw card data; the card is still required because it carries the email.
func BuildChargePayload(tx TransactionContext) (ChargePayload, error) {
	var absent []string
	if tx.Amount <= 0 {
		absent = append(absent, "amount")
	}
	if tx.Card == nil {
		absent = append(absent, "card")
	}
	if len(absent) > 0 {
		return ChargePayload{}, missing(absent...)
	}

	p := ChargePayload{
		Email:       tx.Card.Email,
		Amount:      tx.Amount,
		Currency:    strings.ToLower(strings.TrimSpace(tx.Currency)),
		Description: tx.Description,
		IPAddress:   tx.ClientIP,
	}

	if tx.Token != "" {
		p.Source = ClassifyToken(tx.Token)
		return p, nil
	}

	card := tx.Card.Normalized()
	if err := card.Validate(); err != nil {
		return ChargePayload{}, err
	}
	p.Source = CardSource{Card: card}

	return p, nil
}

// CapturePayload identifies an authorised charge and the amount to capture.
// Token travels in the URL, only Amount goes into the body.
type CapturePayload struct {
	Token  string
	Amount int64
}

// RefundPayload has the same shape as CapturePayload.
type RefundPayload CapturePayload

type amountForm struct {
	Amount int64 `url:"amount"`
}

func (p CapturePayload) Values() (url.Values, error) {
	return query.Values(amountForm{Amount: p.Amount})
}

func (p RefundPayload) Values() (url.Values, error) {
	return query.Values(amountForm{Amount: p.Amount})
}

// BuildCapturePayload keeps only token and amount; everything else on the
// transaction is ignored.
func BuildCapturePayload(tx TransactionContext) (CapturePayload, error) {
	token, amount, err := tokenAndAmount(tx)
	if err != nil {
		return CapturePayload{}, err
	}
	return CapturePayload{Token: token, Amount: amount}, nil
}

func BuildRefundPayload(tx TransactionContext) (RefundPayload, error) {
	token, amount, err := tokenAndAmount(tx)
	if err != nil {
		return RefundPayload{}, err
	}
	return RefundPayload{Token: token, Amount: amount}, nil
}

func tokenAndAmount(tx TransactionContext) (string, int64, error) {
	var absent []string
	if tx.Token == "" {
		absent = append(absent, "token")
	}
	if tx.Amount <= 0 {
		absent = append(absent, "amount")
	}
	if len(absent) > 0 {
		return "", 0, missing(absent...)
	}
	return tx.Token, tx.Amount, nil
}
