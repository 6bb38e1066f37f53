package middleware

import (
	"ripple/internal/config"

	"github.com/google/uuid"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret-key-12345678901234567890123456789012"}
}

func testUserID() string {
	return uuid.NewString()
}
