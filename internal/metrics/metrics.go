// Package metrics exposes Prometheus collectors for the booking core
// and an HTTP middleware that records request counts and latency.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request counter
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTP request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Booking engine outcomes
	BookingOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Total number of booking operations",
		},
		[]string{"operation", "status"},
	)

	// Coupon redemption outcomes
	CouponRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupon_redemptions_total",
			Help: "Total number of coupon redemption attempts",
		},
		[]string{"status"},
	)

	// Seat movements through the inventory store
	SeatsReserved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_reserved_total",
			Help: "Total number of seats reserved",
		},
	)
	SeatsReleased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_released_total",
			Help: "Total number of seats released back to the pool",
		},
	)
)

// HTTPMiddleware records per-request metrics keyed by the matched route
// template so that path parameters do not explode the label space.
func HTTPMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			method := c.Request().Method
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
