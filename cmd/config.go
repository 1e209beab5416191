package cmd

import "time"

// Config carries everything the composition root needs to wire the
// application. Values come from the environment; see cmd/app/main.go.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RoutingAPIURL  string
	RoutingAPIKey  string
	RoutingProfile string

	OptimizerURL    string
	OptimizerAPIKey string

	// ConfirmWindow is how long a delivered parcel waits for a customer
	// confirmation before the timeout sweep auto-succeeds it.
	ConfirmWindow time.Duration

	// ReminderDelay is how long after delivery the reminder sweep starts
	// nudging the customer.
	ReminderDelay time.Duration

	// MaxSessionDuration is how long a session may stay open before the
	// auto-close sweep fails it.
	MaxSessionDuration time.Duration
}
