package pin

import (
	"context"
	"errors"
	"fmt"

	"PinGateway/internal/domain/gateway"
)

// Gateway adapts Client to gateway.Provider.
type Gateway struct {
	client *Client
}

var _ gateway.Provider = (*Gateway)(nil)

func NewGateway(c *Client) *Gateway {
	return &Gateway{client: c}
}

func (g *Gateway) Purchase(ctx context.Context, req gateway.ChargeRequest) (gateway.Result, error) {
	resp, err := g.client.Purchase(ctx, chargeContext(req))
	return toResult(resp, err)
}

func (g *Gateway) Authorize(ctx context.Context, req gateway.ChargeRequest) (gateway.Result, error) {
	resp, err := g.client.Authorize(ctx, chargeContext(req))
	return toResult(resp, err)
}

func (g *Gateway) Capture(ctx context.Context, req gateway.CaptureRequest) (gateway.Result, error) {
	resp, err := g.client.Capture(ctx, TransactionContext{Token: req.Token, Amount: req.Amount})
	return toResult(resp, err)
}

func (g *Gateway) Refund(ctx context.Context, req gateway.RefundRequest) (gateway.Result, error) {
	resp, err := g.client.Refund(ctx, TransactionContext{Token: req.Token, Amount: req.Amount})
	return toResult(resp, err)
}

func chargeContext(req gateway.ChargeRequest) TransactionContext {
	tx := TransactionContext{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		ClientIP:    req.ClientIP,
		Token:       req.Token,
	}
	if c := req.Card; c != nil {
		tx.Card = &CardDetails{
			Number:      c.Number,
			ExpiryMonth: c.ExpiryMonth,
			ExpiryYear:  c.ExpiryYear,
			CVC:         c.CVC,
			Name:        c.Name,
			Email:       c.Email,
			Address1:    c.Address1,
			Address2:    c.Address2,
			City:        c.City,
			Postcode:    c.Postcode,
			State:       c.State,
			Country:     c.Country,
		}
	}
	return tx
}

func toResult(resp *Response, err error) (gateway.Result, error) {
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidCard):
			return gateway.Result{}, fmt.Errorf("%w: %w", gateway.ErrInvalidRequest, err)
		case errors.Is(err, ErrTransport):
			return gateway.Result{}, fmt.Errorf("%w: %w", gateway.ErrUnavailable, err)
		default:
			return gateway.Result{}, err
		}
	}

	res := gateway.Result{
		Status:         gateway.StatusFailed,
		TransactionRef: resp.TransactionReference(),
		CardRef:        resp.CardReference(),
		Code:           resp.Code(),
		Message:        resp.Message(),
		HTTPStatus:     resp.StatusCode,
	}
	if resp.IsSuccessful() {
		res.Status = gateway.StatusSuccess
	}
	for _, m := range resp.Messages {
		res.FieldErrors = append(res.FieldErrors, gateway.FieldError{
			Param:   m.Param,
			Code:    m.Code,
			Message: m.Message,
		})
	}
	return res, nil
}
