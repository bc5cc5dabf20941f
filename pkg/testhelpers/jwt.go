// Package testhelpers provides utilities for testing compass-engine components.
package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mspcompass/compass-engine/pkg/auth"
	"github.com/mspcompass/compass-engine/pkg/models"
)

// TestSigningKey signs session tokens in tests.
const TestSigningKey = "test-signing-key-not-for-production"

// NewTestIssuer returns a token issuer using the test signing key.
func NewTestIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(TestSigningKey, time.Hour)
}

// IssueTestToken creates a signed session token for a user with the
// given role. Fails the test on signing errors.
func IssueTestToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := NewTestIssuer().Issue(&models.User{ID: userID, Role: role})
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}
