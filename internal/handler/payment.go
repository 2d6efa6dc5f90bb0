package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/service"
)

// PaymentHandler records payment outcomes reported by the gateway
// callback.
type PaymentHandler struct {
	svc *service.PaymentService
}

// NewPaymentHandler returns a handler over the given payment service.
func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type confirmPaymentRequest struct {
	BookingID uint64 `json:"bookingId"`
	Outcome   string `json:"outcome"`
	Method    string `json:"method"`
}

type paymentResponse struct {
	PaymentID     uint64  `json:"paymentId"`
	BookingID     uint64  `json:"bookingId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transactionId"`
	PaymentDate   string  `json:"paymentDate"`
}

func validMethod(m string) bool {
	switch m {
	case model.PaymentMethodCreditCard, model.PaymentMethodDebitCard,
		model.PaymentMethodUPI, model.PaymentMethodNetBanking:
		return true
	}
	return false
}

// Confirm handles POST /v1/payments/confirm.  The endpoint is
// idempotent: repeating the same outcome for a finalised booking
// returns the recorded payment, while a conflicting outcome is a 409.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Outcome != "success" && req.Outcome != "failure" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "outcome must be success or failure"})
	}
	if req.Method == "" {
		req.Method = model.PaymentMethodCreditCard
	}
	if !validMethod(req.Method) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment method"})
	}

	p, err := h.svc.Confirm(c.Request().Context(), service.PaymentRequest{
		UserID:    userID,
		BookingID: req.BookingID,
		Method:    req.Method,
		Success:   req.Outcome == "success",
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, paymentResponse{
		PaymentID:     p.ID,
		BookingID:     p.BookingID,
		Amount:        centsToAmount(p.AmountCents),
		Currency:      p.Currency,
		Status:        string(p.Status),
		Method:        p.Method,
		TransactionID: p.TransactionID,
		PaymentDate:   p.PaymentDate.UTC().Format(time.RFC3339),
	})
}
