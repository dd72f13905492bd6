package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	secret := []byte("test-secret")

	token, err := Generate(secret, "tenant-1", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	claims, err := Parse(secret, token)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.TenantID != "tenant-1" || claims.UserID != "user-1" {
		t.Errorf("claims = %+v, want tenant-1/user-1", claims)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	secret := []byte("test-secret")

	token, err := Generate(secret, "tenant-1", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if _, err := Parse([]byte("other-secret"), token); err != ErrInvalid {
		t.Errorf("wrong secret: err = %v, want ErrInvalid", err)
	}
	if _, err := Parse(secret, "not-a-token"); err != ErrInvalid {
		t.Errorf("garbage token: err = %v, want ErrInvalid", err)
	}

	expired, err := Generate(secret, "tenant-1", "user-1", -time.Minute)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if _, err := Parse(secret, expired); err != ErrInvalid {
		t.Errorf("expired token: err = %v, want ErrInvalid", err)
	}
}
