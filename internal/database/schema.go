package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for the booking core.  Statements are idempotent
// so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title        VARCHAR(255)  NOT NULL,
		description  TEXT          NOT NULL,
		duration_min INT UNSIGNED  NOT NULL,
		genre        VARCHAR(255)  NOT NULL DEFAULT '',
		language     VARCHAR(64)   NOT NULL DEFAULT '',
		rating       DECIMAL(3,1)  NOT NULL DEFAULT 0,
		is_active    TINYINT(1)    NOT NULL DEFAULT 1,
		created_at   DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS showtimes (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		movie_id        BIGINT UNSIGNED NOT NULL,
		show_date       DATE            NOT NULL,
		show_time       VARCHAR(5)      NOT NULL,
		hall            VARCHAR(64)     NOT NULL DEFAULT '',
		total_seats     INT UNSIGNED    NOT NULL,
		available_seats INT UNSIGNED    NOT NULL,
		price_cents     BIGINT          NOT NULL,
		created_at      DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_showtimes_movie FOREIGN KEY (movie_id) REFERENCES movies (id),
		CONSTRAINT chk_showtimes_seats CHECK (available_seats <= total_seats)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS coupons (
		id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		code               VARCHAR(64)     NOT NULL,
		discount_percent   INT UNSIGNED    NOT NULL,
		max_discount_cents BIGINT          NOT NULL,
		min_purchase_cents BIGINT          NOT NULL DEFAULT 0,
		valid_from         DATETIME        NOT NULL,
		valid_to           DATETIME        NOT NULL,
		is_active          TINYINT(1)      NOT NULL DEFAULT 1,
		usage_limit        INT UNSIGNED    NOT NULL,
		used_count         INT UNSIGNED    NOT NULL DEFAULT 0,
		created_at         DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_coupons_code (code),
		CONSTRAINT chk_coupons_usage CHECK (used_count <= usage_limit)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id                  BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id             BIGINT UNSIGNED NOT NULL,
		movie_id            BIGINT UNSIGNED NOT NULL,
		showtime_id         BIGINT UNSIGNED NOT NULL,
		seats               INT UNSIGNED    NOT NULL,
		ticket_code         VARCHAR(64)     NOT NULL,
		total_amount_cents  BIGINT          NOT NULL,
		discount_cents      BIGINT          NOT NULL DEFAULT 0,
		coupon_code         VARCHAR(64)     NULL,
		status              VARCHAR(16)     NOT NULL DEFAULT 'pending',
		show_date           DATE            NOT NULL,
		show_time           VARCHAR(5)      NOT NULL,
		booking_date        DATETIME        NOT NULL,
		cancellation_reason VARCHAR(255)    NULL,
		created_at          DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at          DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_bookings_ticket_code (ticket_code),
		KEY idx_bookings_user (user_id, booking_date),
		CONSTRAINT fk_bookings_showtime FOREIGN KEY (showtime_id) REFERENCES showtimes (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS payments (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id        BIGINT UNSIGNED NOT NULL,
		booking_id     BIGINT UNSIGNED NOT NULL,
		amount_cents   BIGINT          NOT NULL,
		currency       VARCHAR(8)      NOT NULL,
		status         VARCHAR(16)     NOT NULL,
		method         VARCHAR(32)     NOT NULL,
		transaction_id VARCHAR(64)     NOT NULL,
		payment_date   DATETIME        NOT NULL,
		created_at     DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME        NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_payments_transaction (transaction_id),
		KEY idx_payments_booking (booking_id),
		CONSTRAINT fk_payments_booking FOREIGN KEY (booking_id) REFERENCES bookings (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the booking core tables when they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
