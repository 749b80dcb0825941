package utils

import (
	"strings"
	"testing"
)

func TestPasswordResetTokenRoundTrip(t *testing.T) {
	token, err := GeneratePasswordResetToken(42, "maria@example.com")
	if err != nil {
		t.Fatalf("GeneratePasswordResetToken: %v", err)
	}
	claim, err := ValidatePasswordResetToken(token)
	if err != nil {
		t.Fatalf("ValidatePasswordResetToken: %v", err)
	}
	if claim.UserID != 42 {
		t.Errorf("user id: want 42, got %d", claim.UserID)
	}
	if claim.Email != "maria@example.com" {
		t.Errorf("email: want maria@example.com, got %q", claim.Email)
	}
	if claim.ExpiresAt <= claim.IssuedAt {
		t.Errorf("token must expire after issuance")
	}
}

func TestPasswordResetTokenRejectsTampering(t *testing.T) {
	token, err := GeneratePasswordResetToken(42, "maria@example.com")
	if err != nil {
		t.Fatalf("GeneratePasswordResetToken: %v", err)
	}

	// flip the signature segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("x", len(parts[2]))
	if _, err := ValidatePasswordResetToken(tampered); err == nil {
		t.Fatalf("tampered token must be rejected")
	}

	if _, err := ValidatePasswordResetToken("not.a.token"); err == nil {
		t.Fatalf("garbage token must be rejected")
	}
}
