package pin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Purchase creates and captures a charge in one call.
func (c *Client) Purchase(ctx context.Context, tx TransactionContext) (*Response, error) {
	return c.createCharge(ctx, tx, false)
}

// Authorize creates a charge that has to be captured later.
func (c *Client) Authorize(ctx context.Context, tx TransactionContext) (*Response, error) {
	return c.createCharge(ctx, tx, true)
}

func (c *Client) createCharge(ctx context.Context, tx TransactionContext, deferCapture bool) (*Response, error) {
	p, err := BuildChargePayload(tx)
	if err != nil {
		return nil, err
	}
	p.DeferCapture = deferCapture

	body, err := p.Values()
	if err != nil {
		return nil, fmt.Errorf("encode charge payload: %w", err)
	}

	raw, err := c.Send(ctx, "/charges", body, http.MethodPost)
	if err != nil {
		return nil, err
	}
	return ParseResponse(raw)
}

// Capture issues PUT /charges/{token}/capture. The token is moved from the
// payload into the path and the body only carries the amount.
func (c *Client) Capture(ctx context.Context, tx TransactionContext) (*Response, error) {
	p, err := BuildCapturePayload(tx)
	if err != nil {
		return nil, err
	}

	body, err := p.Values()
	if err != nil {
		return nil, fmt.Errorf("encode capture payload: %w", err)
	}

	raw, err := c.Send(ctx, "/charges/"+url.PathEscape(p.Token)+"/capture", body, http.MethodPut)
	if err != nil {
		return nil, err
	}
	return ParseResponse(raw)
}

// Refund issues POST /charges/{token}/refunds.
func (c *Client) Refund(ctx context.Context, tx TransactionContext) (*Response, error) {
	p, err := BuildRefundPayload(tx)
	if err != nil {
		return nil, err
	}

	body, err := p.Values()
	if err != nil {
		return nil, fmt.Errorf("encode refund payload: %w", err)
	}

	raw, err := c.Send(ctx, "/charges/"+url.PathEscape(p.Token)+"/refunds", body, http.MethodPost)
	if err != nil {
		return nil, err
	}
	return ParseResponse(raw)
}
