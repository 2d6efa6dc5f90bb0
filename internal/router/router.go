// Package router wires HTTP routes to their handlers and attaches the
// authentication and caching middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/config"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/handler"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/middleware"
)

// Handlers groups the handlers the router registers.
type Handlers struct {
	Booking  *handler.BookingHandler
	Payment  *handler.PaymentHandler
	Coupon   *handler.CouponHandler
	Showtime *handler.ShowtimeHandler
	Health   *handler.HealthHandler
}

// Register mounts all routes on the Echo instance.  Public catalogue
// reads sit behind the Redis response cache; booking, payment and
// coupon routes require a bearer token.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", h.Health.Check)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	public := e.Group("/v1", cache)
	public.GET("/movies", h.Showtime.ListMovies)
	public.GET("/movies/:movieId/showtimes/:showtimeId/availability", h.Showtime.GetAvailability)

	protected := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	protected.POST("/bookings", h.Booking.Create)
	protected.GET("/bookings/:id", h.Booking.Get)
	protected.DELETE("/bookings/:id", h.Booking.Cancel)
	protected.GET("/my-bookings", h.Booking.ListMine)
	protected.POST("/payments/confirm", h.Payment.Confirm)
	protected.POST("/coupons/apply", h.Coupon.Apply)
}
