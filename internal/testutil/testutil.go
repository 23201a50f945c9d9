// Package testutil provides helpers for integration tests.
package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/resumecraft/gateway/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// UniqueEmail generates a unique email for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// NewTestUser creates a signup payload with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Provider:  "google",
	}
}
