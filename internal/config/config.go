// Package config loads application configuration from environment
// variables.  Required variables are enforced at startup with must();
// optional ones carry sensible defaults.
package config

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.
type Config struct {
	Env                string // application environment (dev/test/prod)
	Port               string // HTTP port to listen on
	DBUser             string // database username
	DBPass             string // database password (optional)
	DBHost             string // database host address
	DBPort             string // database port number
	DBName             string // database name
	JWTSecret          string // secret used to verify bearer tokens
	MaxSeatsPerBooking int    // per-booking seat cap
	Currency           string // ISO currency code recorded on payments
	AMQPURL            string // RabbitMQ connection URL (optional, empty disables events)
}

// Load reads configuration from environment variables.  Missing required
// variables cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:                getenv("APP_ENV", "dev"),
		Port:               must("APP_PORT"),
		DBUser:             must("DB_USER"),
		DBPass:             os.Getenv("DB_PASS"),
		DBHost:             must("DB_HOST"),
		DBPort:             must("DB_PORT"),
		DBName:             must("DB_NAME"),
		JWTSecret:          must("JWT_SECRET"),
		MaxSeatsPerBooking: atoiDefault(os.Getenv("MAX_SEATS_PER_BOOKING"), 6),
		Currency:           getenv("CURRENCY", "INR"),
		AMQPURL:            os.Getenv("AMQP_URL"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		log.Warnf("invalid int %q, using default %d", s, def)
		return def
	}
	return n
}
