package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/SoupayanGhosh/online-movie-booking-system/internal/clock"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/config"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/database"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/handler"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/metrics"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/queue"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/repository"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/router"
	"github.com/SoupayanGhosh/online-movie-booking-system/internal/service"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Env == "prod" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.WithError(err).Fatal("failed to run schema migration")
	}
	cancel()

	showtimes := repository.NewShowtimeRepo(db)
	coupons := repository.NewCouponRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)

	clk := clock.NewSystem()
	bookingSvc := service.NewBookingService(showtimes, coupons, bookings, clk,
		service.WithMaxSeatsPerBooking(uint32(cfg.MaxSeatsPerBooking)))
	couponSvc := service.NewCouponService(coupons, clk)

	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		publisher = queue.NewPublisher(cfg.AMQPURL)
		go queue.StartBookingConsumer(cfg.AMQPURL)
	} else {
		log.Warn("AMQP_URL not set; booking events disabled")
	}
	paymentSvc := service.NewPaymentService(bookings, payments, showtimes, publisher, clk, cfg.Currency)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; response cache disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(metrics.HTTPMiddleware())

	router.Register(e, cfg, router.Handlers{
		Booking:  handler.NewBookingHandler(bookingSvc),
		Payment:  handler.NewPaymentHandler(paymentSvc),
		Coupon:   handler.NewCouponHandler(couponSvc),
		Showtime: handler.NewShowtimeHandler(showtimes, clk),
		Health:   handler.NewHealthHandler(db),
	}, rdb)

	addr := ":" + cfg.Port
	log.Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
