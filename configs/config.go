// Package config reads runtime settings from the process environment,
// seeded from a local .env file when one exists. The server reads
// DATABASE_URL, JWT_SECRET, ADMIN_* seed credentials, STRIPE_SECRET_KEY
// and FRONTEND_URL for payments, BREVO_API_KEY / EMAIL_SENDER* for mail,
// and the optional BOOKING_* business-hour overrides.
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadEnv sync.Once

// Config returns the value of an environment key. The .env file is
// loaded once, on first use; it never overrides variables already set in
// the environment.
func Config(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, reading from system environment variables")
		}
	})

	return os.Getenv(key)
}
