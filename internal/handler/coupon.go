package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/service"
)

// CouponHandler applies coupon codes to purchase amounts.
type CouponHandler struct {
	svc *service.CouponService
}

// NewCouponHandler returns a handler over the given coupon service.
func NewCouponHandler(svc *service.CouponService) *CouponHandler {
	return &CouponHandler{svc: svc}
}

type applyCouponRequest struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// Apply handles POST /v1/coupons/apply.  A successful application
// consumes one redemption and returns the discount amount.
func (h *CouponHandler) Apply(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return err
	}
	var req applyCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Code == "" || req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code and positive amount are required"})
	}

	discount, err := h.svc.Apply(c.Request().Context(), req.Code, amountToCents(req.Amount))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"discount": centsToAmount(discount)})
}
