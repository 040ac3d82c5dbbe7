package handlers

import (
	"errors"
	"net/http"

	"PinGateway/internal/domain/charge"
	"PinGateway/internal/domain/gateway"

	"github.com/gin-gonic/gin"
)

type ChargeHandler struct {
	service *charge.Service
}

func NewChargeHandler(s *charge.Service) ChargeHandler {
	return ChargeHandler{service: s}
}

func (h *ChargeHandler) Purchase(c *gin.Context) {
	var request charge.ChargeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	request.ClientIP = c.ClientIP()

	res, err := h.service.Purchase(c.Request.Context(), request)
	respond(c, res, err)
}

func (h *ChargeHandler) Authorize(c *gin.Context) {
	var request charge.ChargeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	request.ClientIP = c.ClientIP()

	res, err := h.service.Authorize(c.Request.Context(), request)
	respond(c, res, err)
}

func (h *ChargeHandler) Capture(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	var request charge.AmountRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	res, err := h.service.Capture(c.Request.Context(), token, request)
	respond(c, res, err)
}

func (h *ChargeHandler) Refund(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	var request charge.AmountRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	res, err := h.service.Refund(c.Request.Context(), token, request)
	respond(c, res, err)
}

// respond maps declines to 402 and keeps the gateway's code and message in the body.
func respond(c *gin.Context, res gateway.Result, err error) {
	if err != nil {
		switch {
		case errors.Is(err, charge.ErrInvalidAmount),
			errors.Is(err, charge.ErrUnsupportedCurrency),
			errors.Is(err, gateway.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, gateway.ErrUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if res.Status != gateway.StatusSuccess {
		c.JSON(http.StatusPaymentRequired, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
