package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/model"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/service"
)

// BookingHandler exposes booking creation, lookup, listing and
// cancellation.
type BookingHandler struct {
	svc *service.BookingService
}

// NewBookingHandler returns a handler over the given booking service.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

type createBookingRequest struct {
	MovieID    uint64  `json:"movieId"`
	ShowTimeID uint64  `json:"showTimeId"`
	Seats      uint32  `json:"seats"`
	CouponCode *string `json:"couponCode,omitempty"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

type bookingResponse struct {
	BookingID          uint64  `json:"bookingId"`
	TicketCode         string  `json:"ticketCode"`
	MovieID            uint64  `json:"movieId"`
	ShowTimeID         uint64  `json:"showTimeId"`
	Seats              uint32  `json:"seats"`
	TotalAmount        float64 `json:"totalAmount"`
	Discount           float64 `json:"discount"`
	CouponCode         *string `json:"couponCode,omitempty"`
	Status             string  `json:"status"`
	ShowDate           string  `json:"showDate"`
	ShowTime           string  `json:"showTime"`
	BookingDate        string  `json:"bookingDate"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

func toBookingResponse(b model.Booking) bookingResponse {
	return bookingResponse{
		BookingID:          b.ID,
		TicketCode:         b.TicketCode,
		MovieID:            b.MovieID,
		ShowTimeID:         b.ShowtimeID,
		Seats:              b.Seats,
		TotalAmount:        centsToAmount(b.TotalAmountCents),
		Discount:           centsToAmount(b.DiscountCents),
		CouponCode:         b.CouponCode,
		Status:             string(b.Status),
		ShowDate:           b.ShowDate.Format("2006-01-02"),
		ShowTime:           b.ShowTime,
		BookingDate:        b.BookingDate.UTC().Format(time.RFC3339),
		CancellationReason: b.CancellationReason,
	}
}

// Create handles POST /v1/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	b, err := h.svc.ReserveAndBook(c.Request().Context(), service.BookingRequest{
		UserID:     userID,
		MovieID:    req.MovieID,
		ShowtimeID: req.ShowTimeID,
		Seats:      req.Seats,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.svc.GetBooking(c.Request().Context(), userID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	bookings, err := h.svc.ListBookings(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Cancel handles DELETE /v1/bookings/:id.  Only pending bookings can be
// cancelled; the seats return to the pool.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req cancelBookingRequest
	_ = c.Bind(&req) // body is optional

	b, err := h.svc.CancelBooking(c.Request().Context(), userID, id, req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
