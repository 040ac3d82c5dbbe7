package charge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"PinGateway/internal/domain/gateway"
)

// ChargeRequest is the inbound form of a purchase or authorisation. Either
// Token or Card must identify the payment method; Email is copied onto the
// card when the card does not carry one.
type ChargeRequest struct {
	Amount      string        `json:"amount" binding:"required"`
	Currency    string        `json:"currency" binding:"required"`
	Description string        `json:"description"`
	Email       string        `json:"email"`
	Token       string        `json:"token"`
	Card        *gateway.Card `json:"card"`
	ClientIP    string        `json:"-"`
}

// AmountRequest is the body of capture and refund calls.
type AmountRequest struct {
	Amount   string `json:"amount" binding:"required"`
	Currency string `json:"currency" binding:"required"`
}

type Service struct {
	provider gateway.Provider
}

func NewService(provider gateway.Provider) *Service {
	return &Service{provider: provider}
}

func (s *Service) Purchase(ctx context.Context, req ChargeRequest) (gateway.Result, error) {
	gwReq, err := toChargeRequest(req)
	if err != nil {
		return gateway.Result{}, err
	}

	res, err := s.provider.Purchase(ctx, gwReq)
	if err != nil {
		return gateway.Result{}, fmt.Errorf("purchase: %w", err)
	}
	logResult(ctx, "purchase", res)
	return res, nil
}

func (s *Service) Authorize(ctx context.Context, req ChargeRequest) (gateway.Result, error) {
	gwReq, err := toChargeRequest(req)
	if err != nil {
		return gateway.Result{}, err
	}

	res, err := s.provider.Authorize(ctx, gwReq)
	if err != nil {
		return gateway.Result{}, fmt.Errorf("authorize: %w", err)
	}
	logResult(ctx, "authorize", res)
	return res, nil
}

func (s *Service) Capture(ctx context.Context, token string, req AmountRequest) (gateway.Result, error) {
	amount, err := ToMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return gateway.Result{}, err
	}

	res, err := s.provider.Capture(ctx, gateway.CaptureRequest{Token: token, Amount: amount})
	if err != nil {
		return gateway.Result{}, fmt.Errorf("capture: %w", err)
	}
	logResult(ctx, "capture", res)
	return res, nil
}

func (s *Service) Refund(ctx context.Context, token string, req AmountRequest) (gateway.Result, error) {
	amount, err := ToMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return gateway.Result{}, err
	}

	res, err := s.provider.Refund(ctx, gateway.RefundRequest{Token: token, Amount: amount})
	if err != nil {
		return gateway.Result{}, fmt.Errorf("refund: %w", err)
	}
	logResult(ctx, "refund", res)
	return res, nil
}

func toChargeRequest(req ChargeRequest) (gateway.ChargeRequest, error) {
	amount, err := ToMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return gateway.ChargeRequest{}, err
	}

	card := req.Card
	if req.Email != "" {
		if card == nil {
			card = &gateway.Card{}
		} else {
			c := *card
			card = &c
		}
		if card.Email == "" {
			card.Email = req.Email
		}
	}

	return gateway.ChargeRequest{
		Amount:      amount,
		Currency:    strings.TrimSpace(req.Currency),
		Description: req.Description,
		ClientIP:    req.ClientIP,
		Token:       req.Token,
		Card:        card,
	}, nil
}

func logResult(ctx context.Context, op string, res gateway.Result) {
	if res.Status == gateway.StatusSuccess {
		slog.InfoContext(ctx, "charge "+op+" succeeded",
			slog.String("transaction_ref", res.TransactionRef),
		)
		return
	}
	slog.WarnContext(ctx, "charge "+op+" declined",
		slog.String("transaction_ref", res.TransactionRef),
		slog.String("code", res.Code),
		slog.String("message", res.Message),
		slog.Int("http_status", res.HTTPStatus),
	)
}
